package notetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/store"
)

// ─── SettingsTool ───────────────────────────────────────────────────────────

// SettingsTool handles the settings MCP tool: it reads one key, all keys,
// or writes a value, depending on which arguments are present.
type SettingsTool struct {
	store *store.Store
}

// NewSettingsTool creates a SettingsTool.
func NewSettingsTool(s *store.Store) *SettingsTool {
	return &SettingsTool{store: s}
}

// Definition returns the MCP tool definition for settings.
func (t *SettingsTool) Definition() mcp.Tool {
	return mcp.NewTool("settings",
		mcp.WithDescription(
			"Read or write application settings. With no arguments, lists every setting. "+
				"With 'key', returns that setting. With 'key' and 'value', stores the value. "+
				"With 'key' and delete=true, removes it.",
		),
		mcp.WithString("key", mcp.Description("Setting key")),
		mcp.WithString("value", mcp.Description("Value to store")),
		mcp.WithBoolean("delete", mcp.Description("Remove the key (default: false)")),
	)
}

// Handle processes the settings tool call.
func (t *SettingsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("key", "")
	if key == "" {
		all, err := t.store.AllSettings()
		if err != nil {
			return errorResult("list settings", err), nil
		}
		return jsonResult(all), nil
	}

	if boolArg(req, "delete", false) {
		if err := t.store.DeleteSetting(key); err != nil {
			return errorResult("delete setting", err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Setting %q deleted", key)), nil
	}

	if value := optString(req, "value"); value != nil {
		st, err := t.store.SetSetting(key, *value)
		if err != nil {
			return errorResult("store setting", err), nil
		}
		return jsonResult(st), nil
	}

	st, err := t.store.GetSetting(key)
	if err != nil {
		return errorResult("get setting", err), nil
	}
	return jsonResult(st), nil
}
