// Package chime builds the hourly chime asset set: one file per strike count
// from 1 to 12, plus a single-strike quarter-hour file, all derived from one
// base sample.
package chime

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultInterval separates consecutive strikes.
	DefaultInterval = 1200 * time.Millisecond
	// MaxCount is the largest strike count, the 12 o'clock chime.
	MaxCount = 12
	// QuarterMarker names the quarter-hour variant in place of a count.
	QuarterMarker = "quarter"
)

// ErrInvalidCount is returned for strike counts below one.
var ErrInvalidCount = errors.New("strike count must be at least 1")

// Plan describes the timing of one output file: Count strikes of Source,
// Interval apart, the first starting at zero.
type Plan struct {
	Source   string
	Count    int
	Interval time.Duration
}

// NewPlan validates and returns a plan.
func NewPlan(source string, count int, interval time.Duration) (Plan, error) {
	if count < 1 {
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if interval <= 0 {
		return Plan{}, fmt.Errorf("strike interval must be positive, got %v", interval)
	}

	return Plan{Source: source, Count: count, Interval: interval}, nil
}

// Offsets returns the start time of every strike.
func (p Plan) Offsets() []time.Duration {
	offsets := make([]time.Duration, p.Count)
	for i := range offsets {
		offsets[i] = time.Duration(i) * p.Interval
	}
	return offsets
}

// OffsetsMS is Offsets in whole milliseconds, the unit ffmpeg's adelay takes.
func (p Plan) OffsetsMS() []int64 {
	offsets := p.Offsets()
	ms := make([]int64, len(offsets))
	for i, off := range offsets {
		ms[i] = off.Milliseconds()
	}
	return ms
}

// Span is the expected length of the rendered output for a sample of the
// given length.
func (p Plan) Span(sampleLen time.Duration) time.Duration {
	if p.Count < 1 {
		return 0
	}
	return time.Duration(p.Count-1)*p.Interval + sampleLen
}

// OutputName returns the file name for a strike count, e.g. chime_03.mp3.
func OutputName(prefix string, count int, ext string) string {
	return fmt.Sprintf("%s_%02d.%s", prefix, count, ext)
}

// QuarterName returns the quarter-hour file name, e.g. chime_quarter.mp3.
func QuarterName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, QuarterMarker, ext)
}
