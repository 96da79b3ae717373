package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/tree"
)

func (a *cli) listCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List applications of a kind (sa|dth)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := stshell.ParseKind(args[0])
			if err != nil {
				return err
			}
			client, err := a.login(cmd)
			if err != nil {
				return err
			}
			defer client.Logout()

			apps, err := client.ListApps(cmd.Context(), kind)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(apps)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, app := range apps {
				fmt.Fprintf(w, "%s\t%s\t%s\n", app.ID, app.Namespace, app.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

func (a *cli) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <kind> <id>",
		Short: "Show the resource tree of an application",
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

			nodes, err := client.FetchTree(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tree.Render(nodes))
			return nil
		},
	}
}

func (a *cli) idsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ids <kind> <id>",
		Short: "Show the editor identifiers of an application (versionId is used for uploads)",
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

			ids, err := client.EditorIDs(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ids)
		},
	}
}
