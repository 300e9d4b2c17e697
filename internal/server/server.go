// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the store, builds the transfer
// service and injects both into the tools, prompts and resources.
// No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/minglog/minglog/internal/config"
	"github.com/minglog/minglog/internal/notetools"
	"github.com/minglog/minglog/internal/prompts"
	"github.com/minglog/minglog/internal/resources"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
)

// Version is set at build time via ldflags.
var Version = "dev"

// tool is what every notetools handler provides.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New opens the store described by cfg and returns an MCP server with all
// tools, prompts and resources registered.
//
// The returned cleanup function closes the store and must be called on
// shutdown (typically via defer). It is always non-nil.
func New(cfg *config.Config, log *slog.Logger) (*server.MCPServer, func(), error) {
	if log == nil {
		log = slog.Default()
	}

	// --- Create shared dependencies ---

	st, err := store.New(cfg.Store())
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn("store close failed", "err", err)
		}
	}
	log.Info("store opened", "path", st.Path())

	svc := transfer.New(st, log)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"minglog",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	for _, t := range allTools(st, svc) {
		s.AddTool(t.Definition(), t.Handle)
	}

	// --- Register prompts ---

	journalPrompt := prompts.NewJournalPrompt()
	s.AddPrompt(journalPrompt.Definition(), journalPrompt.Handle)

	overviewPrompt := prompts.NewOverviewPrompt()
	s.AddPrompt(overviewPrompt.Definition(), overviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(st)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)
	s.AddResource(resourceHandler.GraphsResource(), resourceHandler.HandleGraphs)
	s.AddResource(resourceHandler.TagsResource(), resourceHandler.HandleTags)

	return s, cleanup, nil
}

// noop is the cleanup returned when the store never opened.
func noop() {}

// allTools builds every MCP tool handler in registration order.
func allTools(st *store.Store, svc *transfer.Service) []tool {
	return []tool{
		// --- Graphs ---
		notetools.NewGraphCreateTool(st),
		notetools.NewGraphGetTool(st),
		notetools.NewGraphUpdateTool(st),
		notetools.NewGraphDeleteTool(st),
		notetools.NewGraphListTool(st),

		// --- Pages ---
		notetools.NewPageCreateTool(st),
		notetools.NewPageGetTool(st),
		notetools.NewPageUpdateTool(st),
		notetools.NewPageDeleteTool(st),
		notetools.NewPageListTool(st),

		// --- Blocks ---
		notetools.NewBlockCreateTool(st),
		notetools.NewBlockUpdateTool(st),
		notetools.NewBlockDeleteTool(st),
		notetools.NewBlockListTool(st),

		// --- Notes, tags, settings ---
		notetools.NewNoteCreateTool(st),
		notetools.NewNoteGetTool(st),
		notetools.NewNoteUpdateTool(st),
		notetools.NewNoteDeleteTool(st),
		notetools.NewNoteListTool(st),
		notetools.NewTagCreateTool(st),
		notetools.NewTagUpdateTool(st),
		notetools.NewTagDeleteTool(st),
		notetools.NewTagListTool(st),
		notetools.NewSettingsTool(st),

		// --- Search & stats ---
		notetools.NewNoteSearchTool(st),
		notetools.NewBlockSearchTool(st),
		notetools.NewStatsTool(st),

		// --- Import / export ---
		notetools.NewImportTool(svc),
		notetools.NewExportTool(svc),
		notetools.NewBackupTool(svc),
		notetools.NewRestoreTool(svc),
		notetools.NewNotesTransferTool(svc),
	}
}

func serverInstructions() string {
	return `Minglog is a local note store. Knowledge lives in graphs; a graph holds pages and each page holds an ordered tree of blocks. A separate flat list of notes with tags and settings is kept alongside.

Typical flow:
- graph_list / graph_create to pick a graph
- page_get (by id, or graph_id + name) with include_blocks=true to read a page
- block_create to append content; block_update to edit, move or collapse

Search:
- block_search finds pages and blocks by words, best match first
- note_search filters notes by words, tag IDs and creation date

Files:
- markdown_import turns .md files into pages, one block per paragraph, heading or code block
- markdown_export writes pages back as .md files
- backup_create / backup_restore copy the whole workspace through a JSON file; restore never overwrites

Deleting a graph removes its pages and blocks. Deleting a block removes its children; sibling order values are not renumbered.`
}
