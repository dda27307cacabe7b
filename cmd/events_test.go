package cmd

import (
	"testing"
	"time"

	"github.com/worklens/worklens/internal/calendar"
)

func TestResolveWindow(t *testing.T) {
	base := calendar.TimeRange{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		from      string
		to        string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "no overrides",
			wantStart: base.Start,
			wantEnd:   base.End,
		},
		{
			name:      "from override",
			from:      "2026-08-03T00:00:00Z",
			wantStart: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
			wantEnd:   base.End,
		},
		{
			name:      "both overrides",
			from:      "2026-08-02T00:00:00Z",
			to:        "2026-08-04T12:00:00Z",
			wantStart: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 4, 12, 0, 0, 0, time.UTC),
		},
		{
			name:    "unparsable from",
			from:    "last tuesday",
			wantErr: true,
		},
		{
			name:    "unparsable to",
			to:      "08/04/2026",
			wantErr: true,
		},
		{
			name:    "inverted window",
			from:    "2026-08-05T00:00:00Z",
			to:      "2026-08-04T00:00:00Z",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveWindow(base, tt.from, tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveWindow() error = %v", err)
			}
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", got.End, tt.wantEnd)
			}
		})
	}
}
