package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		notes    bool
		graphID  string
		pageID   string
		tags     string
		from, to string
		archived bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search pages and blocks, or notes with --notes",
		Long: `Search pages and blocks by words, best match first.

With --notes the flat note list is searched instead; the query becomes
optional and --tags, --from, --to and --archived narrow the result.`,
		Example: `  minglog search project plan
  minglog search --graph <id> roadmap
  minglog search --notes --tags <tag-id> --from 2026-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if !notes && query == "" {
				return fmt.Errorf("a query is required unless --notes is given")
			}
			var lim *int
			if limit > 0 {
				lim = &limit
			}
			return a.withService(func(st *store.Store, _ *transfer.Service) error {
				if notes {
					req := store.SearchRequest{
						Query:           query,
						Tags:            splitList(tags),
						IncludeArchived: &archived,
						Limit:           lim,
					}
					if from != "" {
						req.DateFrom = &from
					}
					if to != "" {
						req.DateTo = &to
					}
					res, err := st.SearchNotes(req)
					if err != nil {
						return fmt.Errorf("searching notes: %w", err)
					}
					return a.printNotes(cmd, res)
				}

				res, err := st.SearchBlocks(store.BlockSearchRequest{
					Query:   query,
					GraphID: graphID,
					PageID:  pageID,
					Limit:   lim,
				})
				if err != nil {
					return fmt.Errorf("searching blocks: %w", err)
				}
				return a.printHits(cmd, res)
			})
		},
	}

	cmd.Flags().BoolVar(&notes, "notes", false, "Search notes instead of pages and blocks")
	cmd.Flags().StringVar(&graphID, "graph", "", "Restrict to one graph")
	cmd.Flags().StringVar(&pageID, "page", "", "Restrict to one page")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tag IDs (notes only)")
	cmd.Flags().StringVar(&from, "from", "", "Earliest creation date (notes only)")
	cmd.Flags().StringVar(&to, "to", "", "Latest creation date (notes only)")
	cmd.Flags().BoolVar(&archived, "archived", false, "Include archived notes")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results")

	return cmd
}

func (a *app) printHits(cmd *cobra.Command, res *store.BlockSearchResponse) error {
	if a.format == "json" {
		return printJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	if len(res.Results) == 0 {
		if !a.quiet {
			fmt.Fprintf(out, "No results for %q\n", res.Query)
		}
		return nil
	}
	if !a.quiet {
		fmt.Fprintf(out, "Found %d %s for %q", res.Total, plural(res.Total, "result", "results"), res.Query)
		if len(res.Results) < res.Total {
			fmt.Fprintf(out, " (showing %d)", len(res.Results))
		}
		fmt.Fprint(out, "\n\n")
	}
	for i, h := range res.Results {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, h.Type, h.Title)
		fmt.Fprintf(out, "   page: %s  id: %s\n", h.PageName, h.ID)
		if h.Excerpt != "" {
			fmt.Fprintf(out, "   %s\n", h.Excerpt)
		}
	}
	return nil
}

func (a *app) printNotes(cmd *cobra.Command, res *store.SearchResult) error {
	if a.format == "json" {
		return printJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	if len(res.Items) == 0 {
		if !a.quiet {
			fmt.Fprintln(out, "No notes found")
		}
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tUPDATED\n")
	for _, n := range res.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Title, formatTS(n.UpdatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if res.HasMore && !a.quiet {
		fmt.Fprintf(out, "\n%d of %d shown\n", len(res.Items), res.Total)
	}
	return nil
}
