package prompts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptReq(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if len(r.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(r.Messages))
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", r.Messages[0].Content)
	}
	return tc.Text
}

func TestJournalPrompt_DefaultsToToday(t *testing.T) {
	p := NewJournalPrompt()
	p.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	res, err := p.Handle(context.Background(), promptReq(map[string]string{"graph_id": "g1"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, res)
	if !strings.Contains(text, "name='2024-03-01'") || !strings.Contains(text, "graph_id='g1'") {
		t.Errorf("unexpected prompt: %s", text)
	}
}

func TestJournalPrompt_ExplicitDate(t *testing.T) {
	res, err := NewJournalPrompt().Handle(context.Background(), promptReq(map[string]string{
		"graph_id": "g1",
		"date":     "2023-12-31",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Description != "Journal for 2023-12-31" {
		t.Errorf("Description = %q", res.Description)
	}
}

func TestJournalPrompt_Errors(t *testing.T) {
	p := NewJournalPrompt()
	if _, err := p.Handle(context.Background(), promptReq(nil)); err == nil {
		t.Error("expected error without graph_id")
	}
	if _, err := p.Handle(context.Background(), promptReq(map[string]string{"graph_id": "g", "date": "March"})); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestOverviewPrompt(t *testing.T) {
	p := NewOverviewPrompt()
	if p.Definition().Name != "overview" {
		t.Errorf("name = %q", p.Definition().Name)
	}
	res, err := p.Handle(context.Background(), promptReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, res), "`stats`") {
		t.Error("overview should reference the stats tool")
	}
}
