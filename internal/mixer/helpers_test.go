package mixer

import "github.com/example/go-chimegen/internal/config"

func configFor(backend string) config.MixerConfig {
	return config.MixerConfig{Backend: backend, FFmpegPath: "ffmpeg", Quality: 3, Timeout: 30}
}
