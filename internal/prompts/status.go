package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// OverviewPrompt handles the overview MCP prompt.
// It instructs the AI to summarize what the store currently holds.
type OverviewPrompt struct{}

// NewOverviewPrompt creates an OverviewPrompt.
func NewOverviewPrompt() *OverviewPrompt {
	return &OverviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *OverviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("overview",
		mcp.WithPromptDescription(
			"Get an overview of your notes: graphs, recent pages, "+
				"favorite notes and storage size.",
		),
	)
}

// Handle processes the overview prompt request.
func (p *OverviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Notes Overview",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `stats` and `graph_list` to see what my note store holds.\n\n" +
						"Then:\n" +
						"1. Summarize the totals in a short table\n" +
						"2. For each graph, run `page_list` with limit=5 and show the most recent pages\n" +
						"3. Run `note_list` with limit=5 and point out any favorites\n" +
						"4. Suggest a backup with `backup_create` if the store has grown large",
				),
			},
		},
	}, nil
}
