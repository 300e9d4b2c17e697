package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <graph-id> <path>...",
		Short: "Import markdown files into a graph",
		Long: `Import markdown files into a graph.

Each file becomes a page; each paragraph, heading or code block becomes a
block. A directory argument imports every .md file directly inside it.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphID, paths := args[0], args[1:]
			return a.withService(func(_ *store.Store, svc *transfer.Service) error {
				total := &transfer.ImportResult{Errors: []string{}}
				for _, p := range paths {
					res, err := importPath(svc, p, graphID)
					if err != nil {
						total.Errors = append(total.Errors, fmt.Sprintf("%s: %v", p, err))
						continue
					}
					total.PagesImported += res.PagesImported
					total.BlocksImported += res.BlocksImported
					total.Errors = append(total.Errors, res.Errors...)
				}
				if a.format == "json" {
					return printJSON(cmd, total)
				}
				if !a.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s, %d %s\n",
						total.PagesImported, plural(total.PagesImported, "page", "pages"),
						total.BlocksImported, plural(total.BlocksImported, "block", "blocks"))
				}
				printErrors(cmd, total.Errors)
				return nil
			})
		},
	}
}

func importPath(svc *transfer.Service, path, graphID string) (*transfer.ImportResult, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return svc.ImportDir(path, graphID)
	}
	return svc.ImportFile(path, graphID)
}

func newExportCmd(a *app) *cobra.Command {
	var (
		graphID string
		pageIDs []string
	)
	cmd := &cobra.Command{
		Use:   "export <output-dir>",
		Short: "Export pages as markdown files",
		Long: `Export pages as markdown files with a YAML header.

Without --graph or --page every page of every graph is exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			return a.withService(func(_ *store.Store, svc *transfer.Service) error {
				var (
					res *transfer.ExportResult
					err error
				)
				if len(pageIDs) > 0 {
					res, err = svc.ExportPages(pageIDs, out)
				} else {
					res, err = svc.ExportAll(graphID, out)
				}
				if err != nil {
					return fmt.Errorf("exporting: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, res)
				}
				if !a.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s (%s) to %s\n",
						res.FilesExported, plural(res.FilesExported, "file", "files"),
						humanize.IBytes(uint64(res.TotalSize)), res.ExportPath)
				}
				printErrors(cmd, res.Errors)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&graphID, "graph", "", "Export only this graph")
	cmd.Flags().StringSliceVar(&pageIDs, "page", nil, "Export only these pages (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("graph", "page")
	return cmd
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Write graphs, pages, blocks and tags to a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(_ *store.Store, svc *transfer.Service) error {
				b, err := svc.CreateBackup(args[0])
				if err != nil {
					return fmt.Errorf("creating backup: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, map[string]any{
						"path":   args[0],
						"graphs": len(b.Graphs),
						"pages":  len(b.Pages),
						"blocks": len(b.Blocks),
						"tags":   len(b.Tags),
					})
				}
				if !a.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d graphs, %d pages, %d blocks, %d tags to %s\n",
						len(b.Graphs), len(b.Pages), len(b.Blocks), len(b.Tags), args[0])
				}
				return nil
			})
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a JSON backup next to existing data",
		Long: `Restore a JSON backup next to existing data.

Restored items receive new IDs. Nothing already in the store is modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(_ *store.Store, svc *transfer.Service) error {
				res, err := svc.RestoreBackup(args[0])
				if err != nil {
					return fmt.Errorf("restoring backup: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, res)
				}
				if !a.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Restored %d graphs, %d pages, %d blocks, %d tags (%d reused)\n",
						res.GraphsRestored, res.PagesRestored, res.BlocksRestored, res.TagsRestored, res.TagsReused)
				}
				printErrors(cmd, res.Errors)
				return nil
			})
		},
	}
}

func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Transfer the flat note list",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write notes, tags and settings to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(_ *store.Store, svc *transfer.Service) error {
				dump, err := svc.ExportNotes(args[0])
				if err != nil {
					return fmt.Errorf("exporting notes: %w", err)
				}
				if !a.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d notes, %d tags, %d settings to %s\n",
						len(dump.Notes), len(dump.Tags), len(dump.Settings), args[0])
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Load notes, tags and settings from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(_ *store.Store, svc *transfer.Service) error {
				res, err := svc.ImportNotes(args[0])
				if err != nil {
					return fmt.Errorf("importing notes: %w", err)
				}
				if a.format == "json" {
					return printJSON(cmd, res)
				}
				if !a.quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Imported %d notes, %d tags (%d reused), %d settings\n",
						res.NotesImported, res.TagsImported, res.TagsReused, res.SettingsImported)
				}
				return nil
			})
		},
	})
	return cmd
}
