// Package commands implements the minglog command line.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/minglog/minglog/internal/config"
	"github.com/minglog/minglog/internal/store"
	"github.com/minglog/minglog/internal/transfer"
	"github.com/spf13/cobra"
)

// app carries the parsed global flags and the loaded configuration to every
// subcommand.
type app struct {
	dataDir  string
	logLevel string
	format   string
	quiet    bool

	cfg *config.Config
	log *slog.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "minglog",
		Short: "Local-first notes: graphs, pages, blocks and plain notes",
		Long: `Minglog keeps notes in a single SQLite database.

Knowledge is organized as graphs of pages, each page an ordered tree of
blocks. A flat list of tagged notes lives alongside. Everything is
searchable, exportable as markdown and restorable from JSON backups.

Configuration comes from a .env file and MINGLOG_* environment variables;
flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory (default: $"+config.EnvDataDir+" or XDG data home)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&a.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress informational output")

	cmd.AddCommand(
		newServeCmd(a),
		newGraphCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newNotesCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		NewVersionCmd(),
	)
	return cmd
}

// init loads configuration, applies flag overrides and installs the logger.
func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(a.logLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	if a.format != "text" && a.format != "json" {
		return fmt.Errorf("--format must be text or json, got %q", a.format)
	}
	a.cfg = cfg
	a.log = newLogger(cfg.LogLevel)
	slog.SetDefault(a.log)
	return nil
}

// newLogger logs to stderr so stdout stays free for output and the MCP
// stdio transport.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch v := attr.Value.Any().(type) {
			case string:
				if v == "" {
					return slog.Attr{}
				}
			case time.Duration:
				if v == 0 {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return attr
		},
	}))
}

// openStore opens the configured store. The caller must Close it.
func (a *app) openStore() (*store.Store, error) {
	st, err := store.New(a.cfg.Store())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.log.Debug("store opened", "path", st.Path())
	return st, nil
}

// withService opens the store, builds a transfer service and runs fn.
func (a *app) withService(fn func(*store.Store, *transfer.Service) error) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st, transfer.New(st, a.log))
}
