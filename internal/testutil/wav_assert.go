package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/example/go-chimegen/internal/audio"
)

// Strikes describes the expected layout of a rendered chime.
type Strikes struct {
	Count     int
	Interval  time.Duration
	Length    time.Duration
	Amplitude float32
	// Tolerance is the allowed absolute peak deviation; defaults to 0.01.
	Tolerance float64
	// Guard trims each end of the silence check between strikes, leaving
	// room for codec pre-echo and ringing.
	Guard time.Duration
}

// AssertStrikes decodes a WAV chime and checks that every strike window peaks
// at the expected amplitude and that the gaps between strikes are silent.
func AssertStrikes(tb testing.TB, data []byte, want Strikes) audio.PCM {
	tb.Helper()

	pcm, err := audio.DecodeWAV(data)
	if err != nil {
		tb.Fatalf("decode chime: %v", err)
	}

	tol := want.Tolerance
	if tol == 0 {
		tol = 0.01
	}

	for i := range want.Count {
		start := time.Duration(i) * want.Interval
		strike := pcm.Window(start, start+want.Length)
		if strike.Frames() == 0 {
			tb.Fatalf("strike %d at %v: no audio (output is %v long)", i+1, start, pcm.Duration())
		}

		if peak := strike.Peak(); math.Abs(float64(peak-want.Amplitude)) > tol {
			tb.Errorf("strike %d at %v: peak %.4f, want %.4f±%.3f", i+1, start, peak, want.Amplitude, tol)
		}

		if i == want.Count-1 || want.Interval <= want.Length+2*want.Guard {
			continue
		}

		gap := pcm.Window(start+want.Length+want.Guard, start+want.Interval-want.Guard)
		if peak := gap.Peak(); float64(peak) > tol {
			tb.Errorf("gap after strike %d: peak %.4f, want silence", i+1, peak)
		}
	}

	return pcm
}

// AssertDurationApprox asserts that pcm lasts want within tolerance.
func AssertDurationApprox(tb testing.TB, pcm audio.PCM, want, tolerance time.Duration) {
	tb.Helper()

	got := pcm.Duration()
	if diff := got - want; diff > tolerance || diff < -tolerance {
		tb.Errorf("duration = %v; want %v ± %v", got, want, tolerance)
	}
}
