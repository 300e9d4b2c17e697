// Package prompts implements MCP prompt handlers for the note store.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// JournalPrompt handles the journal MCP prompt.
// It guides the AI to open or create the journal page for a day.
type JournalPrompt struct {
	now func() time.Time
}

// NewJournalPrompt creates a JournalPrompt.
func NewJournalPrompt() *JournalPrompt {
	return &JournalPrompt{now: time.Now}
}

// Definition returns the MCP prompt definition for registration.
func (p *JournalPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("journal",
		mcp.WithPromptDescription(
			"Open the journal page for a day, creating it if it does not exist yet, "+
				"and add what you want to write down as blocks.",
		),
		mcp.WithArgument("graph_id",
			mcp.ArgumentDescription("Graph that holds the journal"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("date",
			mcp.ArgumentDescription("Day in YYYY-MM-DD form. Default: today"),
		),
	)
}

// Handle processes the journal prompt request.
func (p *JournalPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	graphID := req.Params.Arguments["graph_id"]
	if graphID == "" {
		return nil, fmt.Errorf("graph_id is required")
	}

	date := p.now().Format("2006-01-02")
	if d, ok := req.Params.Arguments["date"]; ok && d != "" {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("date must be YYYY-MM-DD, got %q", d)
		}
		date = d
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Journal for %s", date),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to write in my journal for %[1]s.\n\n"+
						"Please:\n"+
						"1. Run `page_get` with graph_id='%[2]s' and name='%[1]s' and include_blocks=true\n"+
						"2. If it does not exist, run `page_create` with graph_id='%[2]s', name='%[1]s', "+
						"is_journal=true and journal_date='%[1]s'\n"+
						"3. Show me what is already on the page\n"+
						"4. Ask me what to add, then save each thought with `block_create`",
					date, graphID,
				)),
			},
		},
	}, nil
}
