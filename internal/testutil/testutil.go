// Package testutil provides shared skip helpers and audio fixtures for tests.
//
// Skip helpers call t.Skip with a clear reason when a prerequisite is absent,
// so integration tests stay runnable in partial environments.
//
// Typical usage:
//
//	func TestFFmpegRender(t *testing.T) {
//	    ffmpeg := testutil.RequireFFmpeg(t)
//	    base := testutil.WriteTone(t, dir, testutil.Tone{})
//	    ...
//	}
package testutil

import (
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/go-chimegen/internal/audio"
)

// RequireFFmpeg skips the test if the ffmpeg binary is not found in PATH or at
// the path given by CHIMEGEN_MIXER_FFMPEG_PATH. It returns the resolved path.
func RequireFFmpeg(tb testing.TB) string {
	tb.Helper()

	exe := os.Getenv("CHIMEGEN_MIXER_FFMPEG_PATH")
	if exe == "" {
		exe = "ffmpeg"
	}

	path, err := exec.LookPath(exe)
	if err != nil {
		tb.Skipf("ffmpeg not available (%q not in PATH); set CHIMEGEN_MIXER_FFMPEG_PATH to override", exe)
		return ""
	}

	return path
}

// Tone describes a synthetic base sample: a constant-amplitude burst whose
// peak is exactly Amplitude.
type Tone struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
	Amplitude  float32
	// Frequency, when set, renders a sine at that pitch instead of the
	// alternating-sign burst. Lossy encoders drop content near Nyquist.
	Frequency float64
}

func (t Tone) withDefaults() Tone {
	if t.SampleRate == 0 {
		t.SampleRate = 44100
	}
	if t.Channels == 0 {
		t.Channels = 1
	}
	if t.Duration == 0 {
		t.Duration = 500 * time.Millisecond
	}
	if t.Amplitude == 0 {
		t.Amplitude = 0.5
	}
	return t
}

// PCM renders the tone. Without a Frequency, frames alternate sign so the
// waveform carries energy at every sample without exceeding Amplitude.
func (t Tone) PCM() audio.PCM {
	t = t.withDefaults()

	frames := int(t.Duration * time.Duration(t.SampleRate) / time.Second)
	samples := make([]float32, frames*t.Channels)
	for i := range frames {
		v := t.Amplitude
		switch {
		case t.Frequency > 0:
			v = float32(float64(t.Amplitude) * math.Sin(2*math.Pi*t.Frequency*float64(i)/float64(t.SampleRate)))
		case i%2 == 1:
			v = -v
		}
		for c := range t.Channels {
			samples[i*t.Channels+c] = v
		}
	}

	return audio.PCM{Samples: samples, SampleRate: t.SampleRate, Channels: t.Channels, BitDepth: audio.OutputBitDepth}
}

// WriteTone writes the tone as chime_sound.wav in dir and returns its path.
func WriteTone(tb testing.TB, dir string, t Tone) string {
	tb.Helper()

	data, err := audio.EncodeWAV(t.PCM())
	if err != nil {
		tb.Fatalf("encode tone: %v", err)
	}

	path := filepath.Join(dir, "chime_sound.wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write tone: %v", err)
	}

	return path
}
