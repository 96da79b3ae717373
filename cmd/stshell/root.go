package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/config"
	"github.com/brettbedarf/stshell/ide"
	"github.com/brettbedarf/stshell/internal/util"
)

// PasswordEnv is read when --password isn't given
const PasswordEnv = "STSHELL_PASSWORD"

// cli holds state shared by every subcommand of one invocation
type cli struct {
	configPath string
	baseURL    string
	username   string
	password   string
	verbose    int

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &cli{}

	rootCmd := &cobra.Command{
		Use:   "stshell",
		Short: "Shell for SmartThings IDE applications",
		Long: "Lists, downloads, uploads and deletes the files of SmartApps (sa) and " +
			"Device Type Handlers (dth) hosted in the SmartThings web IDE.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	flags.StringVar(&a.baseURL, "url", "", "IDE base url (default "+config.DefaultBaseURL+")")
	flags.StringVarP(&a.username, "user", "u", "", "Account login")
	flags.StringVarP(&a.password, "password", "p", "", "Account password (or $"+PasswordEnv+")")
	flags.IntVarP(&a.verbose, "verbose", "v", config.DefaultVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")

	rootCmd.AddCommand(
		a.listCmd(),
		a.treeCmd(),
		a.getCmd(),
		a.downloadCmd(),
		a.mirrorCmd(),
		a.createCmd(),
		a.destroyCmd(),
		a.uploadCmd(),
		a.rmCmd(),
		a.idsCmd(),
	)
	return rootCmd
}

// setup resolves the config as defaults < config file < flags and
// initializes logging
func (a *cli) setup(cmd *cobra.Command, args []string) error {
	override := &config.ConfigOverride{}
	if a.configPath != "" {
		var err error
		if override, err = config.LoadConfigOverrideFile(a.configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		override.BaseURL = &a.baseURL
	}
	if flags.Changed("user") {
		override.Username = &a.username
	}
	if flags.Changed("password") {
		override.Password = &a.password
	} else if pw, ok := os.LookupEnv(PasswordEnv); ok && override.Password == nil {
		override.Password = &pw
	}
	if flags.Changed("verbose") || override.LogLvl == nil {
		override.LogLvl = &a.verbose
	}

	a.cfg = config.NewConfig(override)
	util.InitializeLogger(a.cfg.LogLvl)
	a.logger = util.GetLogger("main")
	a.logger.Debug().Str("url", a.cfg.BaseURL).Str("user", a.cfg.Username).Msg("Configuration loaded")
	return nil
}

// login opens a session; callers must Logout when done
func (a *cli) login(cmd *cobra.Command) (*ide.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return ide.Login(cmd.Context(), a.cfg)
}

// kindAndID parses the common <kind> <id> leading arguments
func kindAndID(args []string) (stshell.Kind, string, error) {
	kind, err := stshell.ParseKind(args[0])
	if err != nil {
		return "", "", err
	}
	id, err := ide.ParseID(args[1])
	if err != nil {
		return "", "", err
	}
	return kind, id, nil
}
