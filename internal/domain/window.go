package domain

import "time"

// Window represents a half-open time interval [Start, Start+Duration)
// during which a reservation claims a slot.
type Window struct {
	Start    time.Time
	Duration time.Duration
}

// NewWindow builds a window from a start timestamp and a duration in minutes
func NewWindow(start time.Time, durationMinutes int) Window {
	return Window{
		Start:    start,
		Duration: time.Duration(durationMinutes) * time.Minute,
	}
}

// End returns the exclusive end of the window
func (w Window) End() time.Time {
	return w.Start.Add(w.Duration)
}

// IsValid returns true if the window has a positive duration
func (w Window) IsValid() bool {
	return w.Duration > 0
}

// Overlaps reports whether two half-open intervals intersect.
// Touching windows ([10:00,11:00) and [11:00,12:00)) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End()) && other.Start.Before(w.End())
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End())
}
