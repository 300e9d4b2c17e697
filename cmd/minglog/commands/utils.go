package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/minglog/minglog/internal/store"
	"github.com/spf13/cobra"
)

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}

// formatTS renders a stored timestamp relative to now.
func formatTS(ts string) string {
	t, err := time.Parse(store.TimeLayout, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

// printErrors lists per-item failures of a bulk operation.
func printErrors(cmd *cobra.Command, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d %s:\n", len(errs), plural(len(errs), "error", "errors"))
	for _, e := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", e)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
