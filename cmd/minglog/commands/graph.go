package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Manage graphs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(st *store.Store, _ *transfer.Service) error {
				graphs, err := st.ListGraphs()
				if err != nil {
					return fmt.Errorf("listing graphs: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, graphs)
				}
				if len(graphs) == 0 {
					if !a.quiet {
						fmt.Fprintln(cmd.OutOrStdout(), "No graphs yet. Create one with: minglog graph create <name> <path>")
					}
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "ID\tNAME\tPATH\tUPDATED\n")
				for _, g := range graphs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.ID, g.Name, g.Path, formatTS(g.UpdatedAt))
				}
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name> <path>",
		Short: "Create a graph",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(st *store.Store, _ *transfer.Service) error {
				g, err := st.CreateGraph(store.CreateGraphRequest{Name: args[0], Path: args[1]})
				if err != nil {
					return fmt.Errorf("creating graph: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, g)
				}
				fmt.Fprintln(cmd.OutOrStdout(), g.ID)
				return nil
			})
		},
	})

	return cmd
}
