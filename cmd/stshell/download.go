package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/bundle"
	"github.com/brettbedarf/stshell/fs"
	"github.com/brettbedarf/stshell/tree"
)

func (a *cli) getCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <kind> <id> <item-id>",
		Short: "Print a single resource of an application",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := kindAndID(args)
			if err != nil {
				return err
			}
			client, err := a.login(cmd)
			if err != nil {
				return err
			}
			defer client.Logout()

			nodes, err := client.FetchTree(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			item, err := tree.Lookup(nodes, args[2])
			if err != nil {
				return err
			}
			data, err := client.FetchItem(cmd.Context(), kind, id, item.ID, item.ResourceType)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, a.cfg.FilePerm)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func (a *cli) downloadCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "download <kind> <id> [dest]",
		Short: "Download every resource of an application",
		Long: "Downloads every resource of an application into dest, mirroring its folder tree.\n" +
			"Failed items are reported and skipped. dest defaults to <dest_root>/<kind>s/<id>.\n" +
			"With --strict the command fails when any item failed.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := kindAndID(args)
			if err != nil {
				return err
			}
			dest := filepath.Join(a.cfg.DestRoot, kind.Dir(), id)
			if len(args) == 3 {
				dest = args[2]
			}

			client, err := a.login(cmd)
			if err != nil {
				return err
			}
			defer client.Logout()

			report, err := a.downloader(cmd.OutOrStdout()).DownloadApp(cmd.Context(), client.Source(kind), id, dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d downloaded, %d failed -> %s\n",
				report.Succeeded(), report.Failed(), report.Dest)
			if n := report.Failed(); strict && n > 0 {
				return fmt.Errorf("%d item(s) failed to download", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any item failed")
	return cmd
}

func (a *cli) mirrorCmd() *cobra.Command {
	var (
		kinds  []string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "mirror [dest]",
		Short: "Download every application of the account",
		Long: "Downloads every application into dest/<kind>s/<namespace>/<name>.\n" +
			"dest defaults to the configured dest_root. Applications whose tree can't be\n" +
			"fetched make the command fail; with --strict so do failed items.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.cfg.DestRoot
			if len(args) == 1 {
				root = args[0]
			}
			selected := stshell.Kinds
			if len(kinds) > 0 {
				selected = nil
				for _, k := range kinds {
					kind, err := stshell.ParseKind(k)
					if err != nil {
						return err
					}
					selected = append(selected, kind)
				}
			}

			client, err := a.login(cmd)
			if err != nil {
				return err
			}
			defer client.Logout()

			out := cmd.OutOrStdout()
			downloader := a.downloader(out)
			failed, partial := 0, 0
			for _, kind := range selected {
				apps, err := client.ListApps(cmd.Context(), kind)
				if err != nil {
					return err
				}
				for _, app := range apps {
					dest, err := appDest(root, kind, app)
					if err != nil {
						a.logger.Warn().Err(err).Str("id", app.ID).Msg("Skipping application")
						failed++
						continue
					}
					fmt.Fprintf(out, "%s %s/%s -> %s\n", kind, app.Namespace, app.Name, dest)
					report, err := downloader.DownloadApp(cmd.Context(), client.Source(kind), app.ID, dest)
					if err != nil {
						if ctxErr := cmd.Context().Err(); ctxErr != nil {
							return ctxErr
						}
						a.logger.Error().Err(err).Str("id", app.ID).Msg("Failed to download application")
						failed++
						continue
					}
					if report.Failed() > 0 {
						partial++
					}
				}
			}
			if partial > 0 {
				a.logger.Warn().Int("apps", partial).Msg("Some applications have failed items")
			}
			if strict {
				failed += partial
			}
			if failed > 0 {
				return fmt.Errorf("%d application(s) were not fully downloaded", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "Only mirror these kinds (sa, dth)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any item failed")
	return cmd
}

// appDest is root/<kind>s/<namespace>/<name>
func appDest(root string, kind stshell.Kind, app stshell.App) (string, error) {
	for _, seg := range []string{app.Namespace, app.Name} {
		if err := fs.ValidateName(seg); err != nil {
			return "", err
		}
	}
	return fs.SafeJoin(root, kind.Dir(), app.Namespace, app.Name)
}

// downloader prints one line per item as the bundle progresses
func (a *cli) downloader(out io.Writer) *bundle.Downloader {
	reporter := func(r bundle.Result) {
		if r.OK() {
			fmt.Fprintf(out, "  Downloading %s: OK (%s)\n", r.ID, r.File)
			return
		}
		fmt.Fprintf(out, "  Downloading %s: Failed (%v)\n", r.ID, r.Err)
	}
	return bundle.New(fs.NewOSFS(a.cfg.DirPerm, a.cfg.FilePerm), bundle.WithReporter(reporter))
}
