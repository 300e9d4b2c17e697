package notetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// StatsTool handles the stats MCP tool.
type StatsTool struct {
	store *store.Store
}

// NewStatsTool creates a StatsTool with the given store.
func NewStatsTool(s *store.Store) *StatsTool {
	return &StatsTool{store: s}
}

// Definition returns the MCP tool definition for stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Show store statistics: graphs, pages, blocks, notes, tags and database size."),
	)
}

// Handle processes the stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats()
	if err != nil {
		return errorResult("get stats", err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Store Statistics\n\n")
	sb.WriteString(fmt.Sprintf("- **Graphs**: %d\n", stats.Graphs))
	sb.WriteString(fmt.Sprintf("- **Pages**: %d\n", stats.Pages))
	sb.WriteString(fmt.Sprintf("- **Blocks**: %d\n", stats.Blocks))
	sb.WriteString(fmt.Sprintf("- **Notes**: %d (%d favorite, %d archived)\n",
		stats.Notes, stats.FavoriteNotes, stats.ArchivedNotes))
	sb.WriteString(fmt.Sprintf("- **Tags**: %d\n", stats.Tags))
	sb.WriteString(fmt.Sprintf("- **Database size**: %s\n", humanize.IBytes(uint64(stats.DatabaseSize))))

	return mcp.NewToolResultText(sb.String()), nil
}
