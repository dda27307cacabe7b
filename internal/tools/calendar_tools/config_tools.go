package calendar_tools

import (
	"context"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/worklens/worklens/internal/config"
	"github.com/worklens/worklens/internal/instrumentation"
	"github.com/worklens/worklens/internal/server"
	"github.com/worklens/worklens/internal/tools/common"
)

// RegisterConfigTools registers configuration tools with the MCP server.
// These mutate runtime state and are skipped in read-only mode.
func RegisterConfigTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	configureTool := mcp.NewTool("calendar_configure",
		mcp.WithDescription("Update calendar integration settings. Only the provided arguments change; the rest keep their current values."),
		mcp.WithBoolean("enabled",
			mcp.Description("Enable or disable calendar acquisition"),
		),
		mcp.WithString("includedCalendars",
			mcp.Description("Comma-separated calendar names to allow. Empty string clears the list, which allows all calendars."),
		),
		mcp.WithString("excludedCalendars",
			mcp.Description("Comma-separated calendar names to exclude. Exclusion wins over inclusion. Empty string clears the list."),
		),
		mcp.WithNumber("lookBehindDays",
			mcp.Description("Days in the past the default acquisition window covers"),
		),
		mcp.WithNumber("lookAheadDays",
			mcp.Description("Days in the future the default acquisition window covers"),
		),
		mcp.WithBoolean("includeAllDayEvents",
			mcp.Description("Keep all-day events in the filtered set"),
		),
		mcp.WithNumber("minEventDurationMinutes",
			mcp.Description("Drop events shorter than this many minutes. Zero keeps everything."),
		),
	)

	s.AddTool(configureTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_configure", instrumentation.OperationConfigure, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleConfigure(ctx, request, sc)
		},
	))

	return nil
}

func handleConfigure(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	// Copy the active configuration so a failed update leaves it untouched.
	next := *sc.Config()
	next.IncludedCalendars = slices.Clone(next.IncludedCalendars)
	next.ExcludedCalendars = slices.Clone(next.ExcludedCalendars)

	changed := applyConfigArgs(&next, args)
	if len(changed) == 0 {
		return mcp.NewToolResultError("no settings provided; nothing to update"), nil
	}

	if next.LookBehindDays < 0 || next.LookAheadDays < 0 {
		return mcp.NewToolResultError("day counts must not be negative"), nil
	}
	if next.MinEventDurationMinutes < 0 {
		return mcp.NewToolResultError("minEventDurationMinutes must not be negative"), nil
	}

	if err := sc.UpdateConfig(&next); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to persist configuration: %v", err)), nil
	}

	result := fmt.Sprintf("Updated %d setting(s): ", len(changed))
	for i, name := range changed {
		if i > 0 {
			result += ", "
		}
		result += name
	}
	return mcp.NewToolResultText(result), nil
}

// applyConfigArgs copies every present argument onto cfg and returns the
// names of the settings that were provided.
func applyConfigArgs(cfg *config.Config, args map[string]interface{}) []string {
	var changed []string

	if _, ok := args["enabled"]; ok {
		cfg.Enabled = common.BoolArg(args, "enabled", cfg.Enabled)
		changed = append(changed, "enabled")
	}
	if list, ok := common.ListArg(args, "includedCalendars"); ok {
		cfg.IncludedCalendars = list
		changed = append(changed, "includedCalendars")
	}
	if list, ok := common.ListArg(args, "excludedCalendars"); ok {
		cfg.ExcludedCalendars = list
		changed = append(changed, "excludedCalendars")
	}
	if v, ok := common.IntArg(args, "lookBehindDays", cfg.LookBehindDays); ok {
		cfg.LookBehindDays = v
		changed = append(changed, "lookBehindDays")
	}
	if v, ok := common.IntArg(args, "lookAheadDays", cfg.LookAheadDays); ok {
		cfg.LookAheadDays = v
		changed = append(changed, "lookAheadDays")
	}
	if _, ok := args["includeAllDayEvents"]; ok {
		cfg.IncludeAllDayEvents = common.BoolArg(args, "includeAllDayEvents", cfg.IncludeAllDayEvents)
		changed = append(changed, "includeAllDayEvents")
	}
	if v, ok := common.IntArg(args, "minEventDurationMinutes", cfg.MinEventDurationMinutes); ok {
		cfg.MinEventDurationMinutes = v
		changed = append(changed, "minEventDurationMinutes")
	}

	return changed
}
