// Minglog: local-first notes with graphs, pages and blocks.
//
// Usage:
//
//	minglog serve                      # Start MCP server (stdio transport)
//	minglog import <graph-id> <path>   # Import markdown files
//	minglog export <dir> --graph <id>  # Export pages as markdown
//	minglog backup <file>              # Write a JSON backup
package main

import (
	"fmt"
	"os"

	"github.com/minglog/minglog/cmd/minglog/commands"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
