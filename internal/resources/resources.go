// Package resources implements MCP resource handlers for the note store.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (minglog://...) following MCP conventions.
package resources

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/apperr"
	"github.com/minglog/minglog/internal/store"
)

// Resource URIs.
const (
	StatsURI  = "minglog://stats"
	GraphsURI = "minglog://graphs"
	TagsURI   = "minglog://tags"
)

// Handler serves store resources.
type Handler struct {
	store *store.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// StatsResource returns the MCP resource definition for store statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		StatsURI,
		"Store Statistics",
		mcp.WithResourceDescription("Counts of graphs, pages, blocks, notes and tags plus database size"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the current statistics as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := h.store.Stats()
	if err != nil {
		return errorResource(req.Params.URI, apperr.Message(err)), nil
	}
	return jsonResource(req.Params.URI, stats)
}

// GraphsResource returns the MCP resource definition for the graph list.
func (h *Handler) GraphsResource() mcp.Resource {
	return mcp.NewResource(
		GraphsURI,
		"Graphs",
		mcp.WithResourceDescription("Every graph, most recently updated first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleGraphs returns the graph list as JSON.
func (h *Handler) HandleGraphs(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	graphs, err := h.store.ListGraphs()
	if err != nil {
		return errorResource(req.Params.URI, apperr.Message(err)), nil
	}
	if graphs == nil {
		graphs = []store.Graph{}
	}
	return jsonResource(req.Params.URI, graphs)
}

// TagsResource returns the MCP resource definition for the tag list.
func (h *Handler) TagsResource() mcp.Resource {
	return mcp.NewResource(
		TagsURI,
		"Tags",
		mcp.WithResourceDescription("Every tag with its color"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleTags returns the tag list as JSON.
func (h *Handler) HandleTags(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tags, err := h.store.ListTags()
	if err != nil {
		return errorResource(req.Params.URI, apperr.Message(err)), nil
	}
	if tags == nil {
		tags = []store.Tag{}
	}
	return jsonResource(req.Params.URI, tags)
}
