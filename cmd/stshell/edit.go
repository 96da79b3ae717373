package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/stshell"
)

func (a *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <kind> <source-file>",
		Short: "Create an application from groovy source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := stshell.ParseKind(args[0])
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			client, err := a.login(cmd)
			if err != nil {
				return err
			}
			defer client.Logout()

			id, err := client.CreateApp(cmd.Context(), kind, source)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func (a *cli) destroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <kind> <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(2),
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

			return client.DestroyApp(cmd.Context(), kind, id)
		},
	}
}

func (a *cli) uploadCmd() *cobra.Command {
	var (
		path       string
		name       string
		uploadType string
	)
	cmd := &cobra.Command{
		Use:   "upload <kind> <id> <file>",
		Short: "Upload a file as a resource of an application",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id, err := kindAndID(args)
			if err != nil {
				return err
			}
			typ, err := stshell.ParseUploadType(uploadType)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[2])
			}

			client, err := a.login(cmd)
			if err != nil {
				return err
			}
			defer client.Logout()

			ids, err := client.EditorIDs(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			return client.UploadItem(cmd.Context(), kind, ids.VersionID, name, path, typ, content)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&path, "path", "", "Folder inside the application")
	flags.StringVar(&name, "name", "", "Resource name (default the file's base name)")
	flags.StringVarP(&uploadType, "type", "t", string(stshell.UploadOther),
		"Resource type: OTHER, IMAGE, CSS, I18N, JAVASCRIPT or VIEW")
	return cmd
}

func (a *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <kind> <id> <item-id>",
		Short: "Delete a resource of an application",
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

			return client.DeleteItem(cmd.Context(), kind, id, args[2])
		},
	}
}
