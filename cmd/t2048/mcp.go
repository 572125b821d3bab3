package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/transport/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve 2048 as MCP tools over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout.

Tools: new_game, list_sessions, state, move, restart, save, load.
Logs go to stderr (or log_file) so stdout stays a clean JSON-RPC stream.

Example client config:
  {"command": "t2048", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	Run:  runMCP,
}

func runMCP(_ *cobra.Command, _ []string) {
	logger, logCloser, err := newLogger(cfg, "t2048-mcp", false)
	exitOnErr("setting up logging", err)
	defer logCloser.Close()

	manager, cleanup, err := newManager(context.Background())
	exitOnErr("opening storage", err)
	defer cleanup()

	srv := mcp.NewServer(manager, version, logger.WithPrefix("mcp"))
	logger.Info("serving MCP over stdio", "backend", cfg.Storage.Backend)
	if err := srv.ServeStdio(); err != nil {
		logger.Error("mcp server stopped", "err", err)
	}
}
