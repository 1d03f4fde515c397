package config

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	BackendFFmpeg = "ffmpeg"
	BackendNative = "native"
)

const (
	FormatMP3 = "mp3"
	FormatOGG = "ogg"
	FormatWAV = "wav"
)

func NormalizeBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = BackendFFmpeg
	}
	switch backend {
	case BackendFFmpeg, BackendNative:
		return backend, nil
	case "go":
		return BackendNative, nil
	default:
		return "", fmt.Errorf("invalid mixer backend %q (expected %s|%s)", raw, BackendFFmpeg, BackendNative)
	}
}

func NormalizeFormat(raw string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if format == "" {
		format = FormatMP3
	}
	switch format {
	case FormatMP3, FormatOGG, FormatWAV:
		return format, nil
	case "vorbis":
		return FormatOGG, nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected %s|%s|%s)", raw, FormatMP3, FormatOGG, FormatWAV)
	}
}

// QualityRange returns the accepted -q:a range for the encoder behind format.
// ok is false for formats that take no quality setting.
func QualityRange(format string) (lo, hi int, ok bool) {
	switch format {
	case FormatMP3:
		return 0, 9, true
	case FormatOGG:
		return -1, 10, true
	default:
		return 0, 0, false
	}
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}
