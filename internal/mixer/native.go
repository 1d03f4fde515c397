package mixer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-chimegen/internal/audio"
	"github.com/example/go-chimegen/internal/chime"
)

// Native renders plans in-process for WAV base samples. Delayed copies are
// summed at unity gain and written as 16-bit WAV with the base sample's rate
// and channel layout.
type Native struct {
	Logger *slog.Logger
}

var _ chime.Mixer = (*Native)(nil)

func (n *Native) Render(ctx context.Context, plan chime.Plan, outPath string) error {
	if ext := strings.ToLower(filepath.Ext(outPath)); ext != ".wav" {
		return fmt.Errorf("%w: native mixer writes .wav, got %q", ErrUnsupportedFormat, ext)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := audio.DecodeWAVFile(plan.Source)
	if err != nil {
		return fmt.Errorf("load base sample: %w", err)
	}

	mixed := audio.DelayMix(src, plan.Offsets())

	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("native mix",
		"inputs", plan.Count,
		"sample_rate", mixed.SampleRate,
		"channels", mixed.Channels,
		"duration", mixed.Duration(),
		"peak", mixed.Peak(),
	)

	data, err := audio.EncodeWAV(mixed)
	if err != nil {
		return fmt.Errorf("encode mix: %w", err)
	}

	return os.WriteFile(outPath, data, 0o644)
}
