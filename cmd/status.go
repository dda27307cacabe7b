package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/calendar"
)

func newStatusCmd() *cobra.Command {
	var (
		debugMode  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report calendar integration health",
		Long: `Probe the local calendar interface and report integration health:
availability, enablement, last sync time and cached event count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(debugMode, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the status as JSON")

	return cmd
}

func runStatus(debugMode bool, jsonOutput bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(debugMode)

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	integration := calendar.New(cfg.Calendar(),
		calendar.WithLogger(logger),
		calendar.WithCommandTimeout(cfg.CommandTimeout()),
	)

	// One-shot process: probe once at startup, then read the snapshot.
	integration.Probe(ctx)
	status := integration.Status()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Printf("Available: %t\n", status.Available)
	fmt.Printf("Enabled: %t\n", status.Enabled)
	if status.LastSync != nil {
		fmt.Printf("Last sync: %s\n", status.LastSync.Format(time.RFC3339))
	} else {
		fmt.Println("Last sync: never")
	}
	fmt.Printf("Cached events: %d\n", status.CachedEventCount)

	return nil
}
