package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(st *store.Store, _ *transfer.Service) error {
				s, err := st.Stats()
				if err != nil {
					return fmt.Errorf("reading stats: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, s)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Database:\t%s\n", st.Path())
				fmt.Fprintf(w, "Size:\t%s\n", humanize.IBytes(uint64(s.DatabaseSize)))
				fmt.Fprintf(w, "Graphs:\t%s\n", humanize.Comma(int64(s.Graphs)))
				fmt.Fprintf(w, "Pages:\t%s\n", humanize.Comma(int64(s.Pages)))
				fmt.Fprintf(w, "Blocks:\t%s\n", humanize.Comma(int64(s.Blocks)))
				fmt.Fprintf(w, "Notes:\t%s (%d favorite, %d archived)\n",
					humanize.Comma(int64(s.Notes)), s.FavoriteNotes, s.ArchivedNotes)
				fmt.Fprintf(w, "Tags:\t%s\n", humanize.Comma(int64(s.Tags)))
				return w.Flush()
			})
		},
	}
}
