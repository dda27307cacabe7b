package calendar_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/worklens/worklens/internal/server"
)

// RegisterCalendarTools registers all calendar-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register event tools
	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	// Register status tools
	if err := RegisterStatusTools(s, sc); err != nil {
		return fmt.Errorf("failed to register status tools: %w", err)
	}

	// Register configuration tools only if not in read-only mode
	if !readOnly {
		if err := RegisterConfigTools(s, sc); err != nil {
			return fmt.Errorf("failed to register configuration tools: %w", err)
		}
	}

	return nil
}
