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

func newEventsCmd() *cobra.Command {
	var (
		debugMode  bool
		from       string
		to         string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Acquire and print calendar events",
		Long: `Acquire calendar events from the local calendar interface and print them.

The acquisition window defaults to the configured look-behind/look-ahead
days and can be overridden with --from and --to. When no calendar
interface is reachable the command prints nothing and exits successfully;
calendar context is optional by design.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(debugMode, from, to, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&from, "from", "", "Window start (RFC3339, e.g. '2026-08-01T00:00:00Z'). Defaults to the configured look-behind.")
	cmd.Flags().StringVar(&to, "to", "", "Window end (RFC3339). Defaults to the configured look-ahead.")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print events as a JSON array")

	return cmd
}

func runEvents(debugMode bool, from, to string, jsonOutput bool) error {
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

	r, err := resolveWindow(cfg.Calendar().DefaultRange(time.Now()), from, to)
	if err != nil {
		return err
	}

	events := integration.GetCalendarEvents(ctx, r)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	if !integration.Available() {
		fmt.Fprintln(os.Stderr, "No calendar interface reachable on this machine.")
	}
	if len(events) == 0 {
		fmt.Printf("No events between %s and %s.\n",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
		return nil
	}

	for _, event := range events {
		fmt.Printf("%s - %s  %s\n",
			event.Start.Format("2006-01-02 15:04"),
			event.End.Format("15:04"),
			event.Title)
		if event.Location != "" {
			fmt.Printf("    Location: %s\n", event.Location)
		}
		fmt.Printf("    Status: %s", event.Status)
		if event.AttendeesCount > 0 {
			fmt.Printf(", %d attendees", event.AttendeesCount)
		}
		fmt.Println()
	}
	fmt.Printf("\n%d events.\n", len(events))

	return nil
}

// resolveWindow applies the optional --from/--to overrides onto the default
// acquisition window.
func resolveWindow(r calendar.TimeRange, from, to string) (calendar.TimeRange, error) {
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return r, fmt.Errorf("invalid --from value %q: %w", from, err)
		}
		r.Start = t
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return r, fmt.Errorf("invalid --to value %q: %w", to, err)
		}
		r.End = t
	}
	if !r.End.After(r.Start) {
		return r, fmt.Errorf("window end %s is not after start %s",
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return r, nil
}
