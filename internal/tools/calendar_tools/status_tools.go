package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/worklens/worklens/internal/instrumentation"
	"github.com/worklens/worklens/internal/server"
	"github.com/worklens/worklens/internal/tools/common"
)

// RegisterStatusTools registers status-related tools with the MCP server
func RegisterStatusTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Status tool (read-only, always available)
	statusTool := mcp.NewTool("calendar_status",
		mcp.WithDescription("Report calendar integration health: availability, enablement, last sync time and cached event count"),
	)

	s.AddTool(statusTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_status", instrumentation.OperationStatus, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStatus(ctx, request, sc)
		},
	))

	return nil
}

func handleStatus(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	// Pure snapshot read. The availability probe runs at server startup;
	// this handler never spawns a subprocess and never blocks.
	status := sc.Integration().Status()
	cfg := sc.Config()

	var b strings.Builder
	b.WriteString("Calendar integration status:\n")
	fmt.Fprintf(&b, "  Available: %t\n", status.Available)
	fmt.Fprintf(&b, "  Enabled: %t\n", status.Enabled)
	if status.LastSync != nil {
		fmt.Fprintf(&b, "  Last sync: %s\n", status.LastSync.Format(time.RFC3339))
	} else {
		b.WriteString("  Last sync: never\n")
	}
	fmt.Fprintf(&b, "  Cached events: %d\n", status.CachedEventCount)

	b.WriteString("\nConfiguration:\n")
	fmt.Fprintf(&b, "  Look behind: %d days\n", cfg.LookBehindDays)
	fmt.Fprintf(&b, "  Look ahead: %d days\n", cfg.LookAheadDays)
	fmt.Fprintf(&b, "  Include all-day events: %t\n", cfg.IncludeAllDayEvents)
	fmt.Fprintf(&b, "  Minimum event duration: %d minutes\n", cfg.MinEventDurationMinutes)
	if len(cfg.IncludedCalendars) > 0 {
		fmt.Fprintf(&b, "  Included calendars: %s\n", strings.Join(cfg.IncludedCalendars, ", "))
	}
	if len(cfg.ExcludedCalendars) > 0 {
		fmt.Fprintf(&b, "  Excluded calendars: %s\n", strings.Join(cfg.ExcludedCalendars, ", "))
	}

	return mcp.NewToolResultText(b.String()), nil
}
