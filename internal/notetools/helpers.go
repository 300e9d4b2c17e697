// Package notetools provides MCP tool handlers for the note store.
//
// Each tool follows the same shape:
//   - A struct with its dependencies injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
//
// Successful calls return the affected entity as indented JSON text.
// Failures are returned as tool errors carrying a client-safe message.
package notetools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/minglog/minglog/internal/apperr"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optString returns a pointer to a string argument, or nil when absent.
func optString(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func optBool(req mcp.CallToolRequest, key string) *bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

func optInt(req mcp.CallToolRequest, key string) *int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	i := int(v)
	return &i
}

// stringsArg accepts a JSON array of strings. Non-string items are skipped.
func stringsArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func optStrings(req mcp.CallToolRequest, key string) *[]string {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	v := stringsArg(req, key)
	if v == nil {
		v = []string{}
	}
	return &v
}

// rawArg re-encodes an object argument as JSON.
func rawArg(req mcp.CallToolRequest, key string) (json.RawMessage, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return json.RawMessage(s), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, key+": not valid JSON", err)
	}
	return b, nil
}

func optRaw(req mcp.CallToolRequest, key string) (*json.RawMessage, error) {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil, nil
	}
	raw, err := rawArg(req, key)
	if err != nil {
		return nil, err
	}
	return &raw, nil
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

// errorResult reports err without leaking storage internals.
func errorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %s", action, apperr.Message(err)))
}

func required(key string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("'%s' is required", key))
}
