// Package mixer renders chime strike plans to audio files.
package mixer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/go-chimegen/internal/chime"
)

// ErrUnsupportedFormat is returned for output extensions no codec is wired for.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// FFmpeg renders plans by running the ffmpeg executable: one input per strike,
// an adelay filter per input and an amix with normalization disabled.
type FFmpeg struct {
	// Path defaults to "ffmpeg" looked up on PATH.
	Path string
	// Quality is the VBR quality passed as -q:a for lossy codecs.
	Quality int
	// Timeout bounds a single render; zero means no limit.
	Timeout time.Duration
	Logger  *slog.Logger
}

var _ chime.Mixer = (*FFmpeg)(nil)

func (f *FFmpeg) executable() string {
	if f.Path == "" {
		return "ffmpeg"
	}
	return f.Path
}

// Args returns the ffmpeg argument list that renders plan to outPath.
func (f *FFmpeg) Args(plan chime.Plan, outPath string) ([]string, error) {
	codec, err := codecArgs(filepath.Ext(outPath), f.Quality)
	if err != nil {
		return nil, err
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for range plan.Count {
		args = append(args, "-i", plan.Source)
	}

	args = append(args,
		"-filter_complex", FilterGraph(plan),
		"-map", "[out]",
	)
	args = append(args, codec...)
	args = append(args, outPath)

	return args, nil
}

// FilterGraph builds the filter_complex expression for plan. Each input is
// delayed by its offset on both channels, then all inputs are summed with the
// output as long as the longest input.
func FilterGraph(plan chime.Plan) string {
	offsets := plan.OffsetsMS()
	parts := make([]string, 0, len(offsets)+1)

	var labels strings.Builder
	for i, delay := range offsets {
		parts = append(parts, fmt.Sprintf("[%d:a]adelay=%d|%d[a%d]", i, delay, delay, i))
		fmt.Fprintf(&labels, "[a%d]", i)
	}

	// normalize=0 keeps every strike at the level of a solo strike.
	parts = append(parts, fmt.Sprintf("%samix=inputs=%d:duration=longest:normalize=0[out]", labels.String(), len(offsets)))

	return strings.Join(parts, ";")
}

func codecArgs(ext string, quality int) ([]string, error) {
	q := strconv.Itoa(quality)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp3":
		return []string{"-c:a", "libmp3lame", "-q:a", q}, nil
	case "ogg":
		return []string{"-c:a", "libvorbis", "-q:a", q}, nil
	case "wav":
		return []string{"-c:a", "pcm_s16le"}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Render runs ffmpeg for plan and waits for it to exit. ffmpeg's stderr is
// captured and attached to the returned error.
func (f *FFmpeg) Render(ctx context.Context, plan chime.Plan, outPath string) error {
	args, err := f.Args(plan, outPath)
	if err != nil {
		return err
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("running ffmpeg", "exe", f.executable(), "inputs", plan.Count, "out", outPath)

	cmd := exec.CommandContext(ctx, f.executable(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = io.Discard

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("ffmpeg timed out after %s: %w", f.Timeout, ctxErr)
		}
		return mapExecError(f.executable(), err, stderr.String())
	}

	return nil
}

// Version returns the first line of `ffmpeg -version`.
func (f *FFmpeg) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, f.executable(), "-version").Output()
	if err != nil {
		return "", mapExecError(f.executable(), err, "")
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

func mapExecError(exe string, err error, stderr string) error {
	// A bare name fails the PATH lookup; an explicit path fails at fork/exec.
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s executable not found; install ffmpeg or set --ffmpeg-path: %w", exe, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			return fmt.Errorf("%s returned non-zero exit: %w", exe, err)
		}
		return fmt.Errorf("%s returned non-zero exit: %w: %s", exe, err, lastLines(detail, 5))
	}

	return err
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
