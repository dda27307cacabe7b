package calendar_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/worklens/worklens/internal/calendar"
	"github.com/worklens/worklens/internal/instrumentation"
	"github.com/worklens/worklens/internal/server"
	"github.com/worklens/worklens/internal/tools/common"
)

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Get events tool (read-only, always available)
	getEventsTool := mcp.NewTool("calendar_get_events",
		mcp.WithDescription("Acquire calendar events from the local calendar interface within a time range"),
		mcp.WithString("timeMin",
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2026-08-01T00:00:00Z'). Defaults to the configured look-behind window."),
		),
		mcp.WithString("timeMax",
			mcp.Description("End time for the range (RFC3339 format, e.g., '2026-08-08T23:59:59Z'). Defaults to the configured look-ahead window."),
		),
	)

	s.AddTool(getEventsTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_get_events", instrumentation.OperationAcquire, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvents(ctx, request, sc)
		},
	))

	return nil
}

func handleGetEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	r := sc.Integration().Config().DefaultRange(time.Now())

	timeMin, present, err := common.TimeArg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if present {
		r.Start = timeMin
	}

	timeMax, present, err := common.TimeArg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if present {
		r.End = timeMax
	}

	if !r.End.After(r.Start) {
		return mcp.NewToolResultError("timeMax must be after timeMin"), nil
	}

	events := sc.Integration().GetCalendarEvents(ctx, r)

	return mcp.NewToolResultText(formatEvents(events, r)), nil
}

func formatEvents(events []calendar.Event, r calendar.TimeRange) string {
	if len(events) == 0 {
		return fmt.Sprintf("No events between %s and %s.\n",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}

	result := fmt.Sprintf("Found %d events:\n\n", len(events))
	for i, event := range events {
		result += fmt.Sprintf("%d. %s\n", i+1, event.Title)
		result += fmt.Sprintf("   ID: %s\n", event.ID)
		result += fmt.Sprintf("   Start: %s\n", event.Start.Format(time.RFC3339))
		result += fmt.Sprintf("   End: %s\n", event.End.Format(time.RFC3339))
		result += fmt.Sprintf("   Status: %s\n", event.Status)
		if event.Location != "" {
			result += fmt.Sprintf("   Location: %s\n", event.Location)
		}
		if event.Calendar != "" {
			result += fmt.Sprintf("   Calendar: %s\n", event.Calendar)
		}
		if event.IsAllDay {
			result += "   All day\n"
		}
		if event.AttendeesCount > 0 {
			result += fmt.Sprintf("   Attendees: %d\n", event.AttendeesCount)
		}
		result += "\n"
	}
	return result
}
