package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/worklens/worklens/internal/config"
)

func TestNewServerContext(t *testing.T) {
	sc := NewServerContext(context.Background(), config.DefaultConfig(), "")

	if sc.Integration() == nil {
		t.Fatal("expected integration to be non-nil")
	}
	if sc.Config() == nil {
		t.Fatal("expected config to be non-nil")
	}
	if sc.IsShutdown() {
		t.Error("new context should not be shut down")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), config.DefaultConfig(), "")

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("expected context to be shut down")
	}

	// The inner context must be cancelled.
	select {
	case <-sc.Context().Done():
	case <-time.After(time.Second):
		t.Error("expected server context to be cancelled after shutdown")
	}

	// Repeated shutdown is a no-op.
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestServerContext_UpdateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	sc := NewServerContext(context.Background(), config.DefaultConfig(), path)

	next := config.DefaultConfig()
	next.Enabled = false
	next.ExcludedCalendars = []string{"Holidays"}

	if err := sc.UpdateConfig(next); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}

	if sc.Config().Enabled {
		t.Error("expected updated config to be disabled")
	}
	if got := sc.Integration().Config(); got.Enabled {
		t.Error("expected integration config to be disabled")
	}

	// The update must be persisted.
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Enabled {
		t.Error("expected persisted config to be disabled")
	}
	if len(loaded.ExcludedCalendars) != 1 || loaded.ExcludedCalendars[0] != "Holidays" {
		t.Errorf("persisted ExcludedCalendars = %v, want [Holidays]", loaded.ExcludedCalendars)
	}
}

func TestServerContext_UpdateConfig_NoPath(t *testing.T) {
	sc := NewServerContext(context.Background(), config.DefaultConfig(), "")

	next := config.DefaultConfig()
	next.LookAheadDays = 14

	// Without a config path the update stays in memory.
	if err := sc.UpdateConfig(next); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}
	if sc.Config().LookAheadDays != 14 {
		t.Errorf("LookAheadDays = %d, want 14", sc.Config().LookAheadDays)
	}
}
