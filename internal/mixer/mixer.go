package mixer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/example/go-chimegen/internal/chime"
	"github.com/example/go-chimegen/internal/config"
)

// New returns the mixer selected by cfg.Backend.
func New(cfg config.MixerConfig, logger *slog.Logger) (chime.Mixer, error) {
	backend, err := config.NormalizeBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case config.BackendNative:
		return &Native{Logger: logger}, nil
	case config.BackendFFmpeg:
		return &FFmpeg{
			Path:    cfg.FFmpegPath,
			Quality: cfg.Quality,
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Logger:  logger,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported mixer backend %q", backend)
	}
}
