// Package mcp exposes 2048 sessions as Model Context Protocol tools so agents
// can play the game.
package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

const instructions = `2048 - MCP Interface

Slide numbered tiles on a 4x4 grid. Equal tiles that collide merge into one tile
of twice the value and the merged value is added to the score. After every move
that changes the grid a new tile (2, or 4 with 10% chance) appears on a random
empty cell. The game is over when no move can change the grid.

TOOLS:
- new_game: start a session (optional session_id)
- list_sessions: list active sessions
- state: show the grid and score
- move: slide tiles up/down/left/right
- restart: start over in the same session
- save / load: keep one saved game per session`

// Server wraps an MCP server bound to a session manager.
type Server struct {
	manager   *session.Manager
	mcpServer *server.MCPServer
	logger    *log.Logger
}

// NewServer builds the MCP server and registers every tool.
func NewServer(manager *session.Manager, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default().WithPrefix("mcp")
	}
	s := &Server{
		manager: manager,
		logger:  logger,
		mcpServer: server.NewMCPServer(
			"2048",
			version,
			server.WithToolCapabilities(true),
			server.WithInstructions(instructions),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty(desc string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": desc,
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new 2048 game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty("Session ID to create (optional, generated when empty)"),
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, s.handleListSessions)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "state",
		Description: "Get the current grid, score and status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty("Session ID"),
			},
			Required: []string{"session_id"},
		},
	}, s.command(session.ActionState))

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty("Session ID"),
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.command(session.ActionMove))

	for _, tool := range []struct {
		action, desc string
	}{
		{session.ActionRestart, "Clear the grid and start over"},
		{session.ActionSave, "Save the game to the session's slot"},
		{session.ActionLoad, "Replace the game with the saved one"},
	} {
		s.mcpServer.AddTool(mcp.Tool{
			Name:        tool.action,
			Description: tool.desc,
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"session_id": sessionIDProperty("Session ID"),
				},
				Required: []string{"session_id"},
			},
		}, s.command(tool.action))
	}
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	return args
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := arguments(request)["session_id"].(string)

	sess, err := s.manager.Create(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("session created", "session", sess.ID)

	text := fmt.Sprintf("Created session: %s\n\n%s", sess.ID, FormatSnapshot(sess.Snapshot()))
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.manager.List()

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
	for _, sess := range sessions {
		snap := sess.Snapshot()
		fmt.Fprintf(&b, "- %s (Score: %d, Status: %s, Created: %s)\n",
			sess.ID, snap.Score, snap.Status, sess.CreatedAt.Format(time.TimeOnly))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) command(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := arguments(request)
		id, _ := args["session_id"].(string)
		dir, _ := args["direction"].(string)

		sess, err := s.manager.Get(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", id, err)), nil
		}

		res, err := sess.Apply(ctx, session.Command{Action: action, Direction: dir})
		if err != nil {
			s.logger.Debug("command failed", "session", sess.ID, "action", action, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatResult(res)), nil
	}
}

func formatResult(res session.Result) string {
	var b strings.Builder
	switch res.Action {
	case session.ActionMove:
		if res.Moved {
			fmt.Fprintf(&b, "Moved. Score +%d\n\n", res.ScoreDelta)
		} else {
			b.WriteString("Nothing moved.\n\n")
		}
	case session.ActionRestart:
		b.WriteString("Restarted.\n\n")
	case session.ActionSave:
		b.WriteString("Saved Successfully!\n\n")
	case session.ActionLoad:
		b.WriteString("Loaded successfully!\n\n")
	}
	b.WriteString(FormatSnapshot(res.Snapshot))
	return b.String()
}

// FormatSnapshot renders a snapshot as plain text with right-aligned cells.
func FormatSnapshot(snap t2048.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d | Max tile: %d | Status: %s\n\n", snap.Score, snap.MaxTile, snap.Status)

	width := len(strconv.Itoa(snap.MaxTile))
	if width < 1 {
		width = 1
	}
	for _, row := range snap.Grid {
		cells := make([]string, len(row))
		for i, v := range row {
			text := "."
			if v != 0 {
				text = strconv.Itoa(v)
			}
			cells[i] = fmt.Sprintf("%*s", width, text)
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}

	if snap.Over {
		fmt.Fprintf(&b, "\nGame Over\nScore: %d\n", snap.Score)
	}
	return b.String()
}
