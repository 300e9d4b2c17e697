package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/minglog/minglog/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var noUpdateCheck bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server using the stdio transport.

Add it to your MCP client configuration:

  {
    "mcpServers": {
      "minglog": {
        "command": "minglog",
        "args": ["serve"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := server.New(a.cfg, a.log)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- mcpserver.ServeStdio(s) }()

			if !noUpdateCheck {
				go a.notifyUpdate(ctx)
			}

			a.log.Info("serving MCP on stdio", "version", server.Version)
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.log.Info("shutting down")
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&noUpdateCheck, "no-update-check", false, "Skip the background check for a newer release")
	return cmd
}

// notifyUpdate logs when a newer release exists. Failures are only logged
// at debug level; the server keeps running either way.
func (a *app) notifyUpdate(ctx context.Context) {
	res, err := releaseChecker.Check(ctx, versionInfo.Version)
	if err != nil {
		a.log.Debug("update check failed", "err", err)
		return
	}
	if res.UpdateAvailable {
		a.log.Info("update available", "current", res.CurrentVersion, "latest", res.LatestVersion, "url", res.ReleaseURL)
	}
}
