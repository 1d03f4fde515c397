package testutil_test

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/example/go-chimegen/internal/audio"
	"github.com/example/go-chimegen/internal/testutil"
)

func TestRequireFFmpeg_SkipsWhenAbsent(t *testing.T) {
	t.Setenv("CHIMEGEN_MIXER_FFMPEG_PATH", "/nonexistent/ffmpeg-binary")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	testutil.RequireFFmpeg(fakeT)
	if !skipped {
		t.Error("expected RequireFFmpeg to skip when binary is absent")
	}
}

func TestTone_Defaults(t *testing.T) {
	pcm := testutil.Tone{}.PCM()

	if pcm.SampleRate != 44100 || pcm.Channels != 1 {
		t.Errorf("format = %d Hz/%d ch; want 44100/1", pcm.SampleRate, pcm.Channels)
	}

	if pcm.Duration() != 500*time.Millisecond {
		t.Errorf("Duration = %v; want 500ms", pcm.Duration())
	}

	if pcm.Peak() != 0.5 {
		t.Errorf("Peak = %f; want 0.5", pcm.Peak())
	}
}

func TestTone_SineFrequency(t *testing.T) {
	pcm := testutil.Tone{Frequency: 440, Amplitude: 0.6}.PCM()

	if pcm.Samples[0] != 0 {
		t.Errorf("first sample = %f; want 0", pcm.Samples[0])
	}

	if peak := pcm.Peak(); math.Abs(float64(peak)-0.6) > 1e-3 {
		t.Errorf("Peak = %f; want 0.6", peak)
	}
}

func TestWriteTone_RoundTrips(t *testing.T) {
	path := testutil.WriteTone(t, t.TempDir(), testutil.Tone{SampleRate: 8000, Channels: 2, Duration: 250 * time.Millisecond})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	pcm, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}

	if pcm.Channels != 2 || pcm.Duration() != 250*time.Millisecond {
		t.Errorf("decoded %d ch, %v; want 2 ch, 250ms", pcm.Channels, pcm.Duration())
	}
}

func TestAssertStrikes_PassesOnDelayMix(t *testing.T) {
	tone := testutil.Tone{SampleRate: 8000, Duration: 100 * time.Millisecond, Amplitude: 0.4}
	mixed := audio.DelayMix(tone.PCM(), []time.Duration{0, 300 * time.Millisecond})

	data, err := audio.EncodeWAV(mixed)
	if err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	pcm := testutil.AssertStrikes(t, data, testutil.Strikes{
		Count:     2,
		Interval:  300 * time.Millisecond,
		Length:    100 * time.Millisecond,
		Amplitude: 0.4,
	})
	testutil.AssertDurationApprox(t, pcm, 400*time.Millisecond, time.Millisecond)
}

// skipTracker is a minimal testing.TB implementation that intercepts Skip calls.
type skipTracker struct {
	testing.TB
	onSkip func()
}

func (s *skipTracker) Helper() {}

func (s *skipTracker) Skipf(_ string, _ ...any) {
	s.onSkip()
	// Do NOT call s.TB.Skip; that would actually skip the outer test.
}
