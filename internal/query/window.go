package query

import (
	"fmt"
	"time"
)

// DateWindow is an absolute UTC range covering whole local calendar days.
type DateWindow struct {
	SinceUTC time.Time
	UntilUTC time.Time
}

// Since returns the window start as an RFC 3339 UTC timestamp.
func (w DateWindow) Since() string { return w.SinceUTC.Format(time.RFC3339) }

// Until returns the window end as an RFC 3339 UTC timestamp.
func (w DateWindow) Until() string { return w.UntilUTC.Format(time.RFC3339) }

// NormalizeWindow anchors an inclusive local calendar date range to UTC
// using a signed GMT offset such as "+02:00" or "-09:30". The window spans
// local midnight of since through local 23:59:59 of until, so both endpoint
// days are fully covered regardless of the offset's sign or magnitude.
// A window whose until falls before its since is rejected outright instead
// of being forwarded inverted to the remote endpoint.
func NormalizeWindow(since, until, gmtOffset string) (DateWindow, error) {
	start, err := localInstant(since, "00:00:00", gmtOffset)
	if err != nil {
		return DateWindow{}, fmt.Errorf("invalid since date %q: %w", since, err)
	}
	end, err := localInstant(until, "23:59:59", gmtOffset)
	if err != nil {
		return DateWindow{}, fmt.Errorf("invalid until date %q: %w", until, err)
	}
	if end.Before(start) {
		return DateWindow{}, Validationf("until %s is before since %s", until, since)
	}
	return DateWindow{SinceUTC: start.UTC(), UntilUTC: end.UTC()}, nil
}

// localInstant interprets a YYYY-MM-DD day plus a wall clock in the given
// offset as an absolute instant.
func localInstant(day, clock, offset string) (time.Time, error) {
	return time.Parse(time.RFC3339, day+"T"+clock+offset)
}

// OverdueHorizon returns the inclusive upper bound for a due-before-now
// query: one second before now, as an RFC 3339 UTC timestamp. A task due
// at exactly now is not yet overdue.
func OverdueHorizon(now time.Time) string {
	return now.Add(-time.Second).UTC().Format(time.RFC3339)
}
