package query

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeWindow(t *testing.T) {
	tests := []struct {
		name      string
		since     string
		until     string
		gmtOffset string
		wantSince string
		wantUntil string
	}{
		{
			name:      "single day positive offset",
			since:     "2024-01-01",
			until:     "2024-01-01",
			gmtOffset: "+02:00",
			wantSince: "2023-12-31T22:00:00Z",
			wantUntil: "2024-01-01T21:59:59Z",
		},
		{
			name:      "multi day negative offset",
			since:     "2024-03-10",
			until:     "2024-03-12",
			gmtOffset: "-05:00",
			wantSince: "2024-03-10T05:00:00Z",
			wantUntil: "2024-03-13T04:59:59Z",
		},
		{
			name:      "half-hour offset",
			since:     "2024-06-01",
			until:     "2024-06-01",
			gmtOffset: "+05:30",
			wantSince: "2024-05-31T18:30:00Z",
			wantUntil: "2024-06-01T18:29:59Z",
		},
		{
			name:      "zero offset",
			since:     "2024-01-01",
			until:     "2024-01-02",
			gmtOffset: "+00:00",
			wantSince: "2024-01-01T00:00:00Z",
			wantUntil: "2024-01-02T23:59:59Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWindow(tt.since, tt.until, tt.gmtOffset)
			if err != nil {
				t.Fatalf("NormalizeWindow: %v", err)
			}
			if got.Since() != tt.wantSince {
				t.Errorf("Since = %s, want %s", got.Since(), tt.wantSince)
			}
			if got.Until() != tt.wantUntil {
				t.Errorf("Until = %s, want %s", got.Until(), tt.wantUntil)
			}
		})
	}
}

func TestNormalizeWindowRejectsInvertedRange(t *testing.T) {
	_, err := NormalizeWindow("2024-02-10", "2024-02-01", "+00:00")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("NormalizeWindow error = %v, want ValidationError", err)
	}
}

func TestNormalizeWindowRejectsMalformedDate(t *testing.T) {
	if _, err := NormalizeWindow("2024-13-40", "2024-01-01", "+00:00"); err == nil {
		t.Error("NormalizeWindow accepted a malformed since date")
	}
	if _, err := NormalizeWindow("2024-01-01", "not-a-date", "+00:00"); err == nil {
		t.Error("NormalizeWindow accepted a malformed until date")
	}
}

func TestOverdueHorizon(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("", 2*3600))
	if got := OverdueHorizon(now); got != "2024-06-01T09:59:59Z" {
		t.Errorf("OverdueHorizon = %q, want 2024-06-01T09:59:59Z", got)
	}
}
