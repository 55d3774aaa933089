package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 11, 10, hour, min, 0, 0, time.UTC)
}

func TestWindowEnd(t *testing.T) {
	w := NewWindow(at(10, 0), 60)
	assert.Equal(t, at(11, 0), w.End())
}

func TestWindowOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Window
		overlaps bool
	}{
		{
			name:     "partial overlap",
			a:        NewWindow(at(10, 0), 60),
			b:        NewWindow(at(10, 30), 60),
			overlaps: true,
		},
		{
			name:     "contained",
			a:        NewWindow(at(10, 0), 90),
			b:        NewWindow(at(10, 15), 30),
			overlaps: true,
		},
		{
			name:     "identical",
			a:        NewWindow(at(10, 0), 60),
			b:        NewWindow(at(10, 0), 60),
			overlaps: true,
		},
		{
			name:     "touching at boundary is not overlap",
			a:        NewWindow(at(10, 0), 60),
			b:        NewWindow(at(11, 0), 60),
			overlaps: false,
		},
		{
			name:     "touching at boundary reversed",
			a:        NewWindow(at(11, 0), 60),
			b:        NewWindow(at(10, 0), 60),
			overlaps: false,
		},
		{
			name:     "disjoint",
			a:        NewWindow(at(9, 0), 30),
			b:        NewWindow(at(12, 0), 30),
			overlaps: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := NewWindow(at(10, 0), 60)

	assert.True(t, w.Contains(at(10, 0)), "start is inclusive")
	assert.True(t, w.Contains(at(10, 59)))
	assert.False(t, w.Contains(at(11, 0)), "end is exclusive")
	assert.False(t, w.Contains(at(9, 59)))
}

func TestWindowIsValid(t *testing.T) {
	assert.True(t, NewWindow(at(10, 0), 30).IsValid())
	assert.False(t, NewWindow(at(10, 0), 0).IsValid())
	assert.False(t, NewWindow(at(10, 0), -15).IsValid())
}
