package chime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBaseSampleMissing is returned when the base sample does not exist.
var ErrBaseSampleMissing = errors.New("base chime sample not found")

// Mixer renders a multi-strike plan to an encoded audio file at outPath.
// Every strike must be mixed at the source level: implementations must not
// normalize or otherwise attenuate as Count grows.
type Mixer interface {
	Render(ctx context.Context, plan Plan, outPath string) error
}

// Options configures a Generator. Zero values take the defaults noted on
// each field.
type Options struct {
	BaseSample string
	OutputDir  string
	// Prefix defaults to "chime".
	Prefix string
	// Ext is the output extension without a dot; defaults to "mp3".
	Ext string
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	Mixer    Mixer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// OnOutput, when set, is called after each output is in place.
	OnOutput func(Output)
}

// Output is one generated file.
type Output struct {
	Name    string
	Path    string
	Count   int
	Quarter bool
}

// Generator produces the chime asset set.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) (*Generator, error) {
	if strings.TrimSpace(opts.BaseSample) == "" {
		return nil, errors.New("base sample path is required")
	}
	if opts.Mixer == nil {
		return nil, errors.New("mixer is required")
	}
	if opts.Prefix == "" {
		opts.Prefix = "chime"
	}
	if opts.Ext == "" {
		opts.Ext = "mp3"
	}
	opts.Ext = strings.TrimPrefix(opts.Ext, ".")
	if opts.Interval == 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("strike interval must be positive, got %v", opts.Interval)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Generator{opts: opts}, nil
}

// Outputs lists every file RunAll writes, in the order it writes them.
func (g *Generator) Outputs() []Output {
	outs := make([]Output, 0, MaxCount+1)
	for count := 1; count <= MaxCount; count++ {
		name := OutputName(g.opts.Prefix, count, g.opts.Ext)
		outs = append(outs, Output{
			Name:  name,
			Path:  filepath.Join(g.opts.OutputDir, name),
			Count: count,
		})
	}

	name := QuarterName(g.opts.Prefix, g.opts.Ext)
	outs = append(outs, Output{
		Name:    name,
		Path:    filepath.Join(g.opts.OutputDir, name),
		Count:   1,
		Quarter: true,
	})

	return outs
}

// Plan returns the strike plan for count using the generator's base sample
// and interval.
func (g *Generator) Plan(count int) (Plan, error) {
	return NewPlan(g.opts.BaseSample, count, g.opts.Interval)
}

// CheckBaseSample reports ErrBaseSampleMissing if the base sample is absent
// or is not a regular file.
func (g *Generator) CheckBaseSample() error {
	info, err := os.Stat(g.opts.BaseSample)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBaseSampleMissing, g.opts.BaseSample)
	}
	if err != nil {
		return fmt.Errorf("stat base sample: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrBaseSampleMissing, g.opts.BaseSample)
	}

	return nil
}

// GenerateForCount writes a file to outPath containing count strikes of the
// base sample. A single strike is a byte copy of the base sample; anything
// more is rendered by the mixer.
func (g *Generator) GenerateForCount(ctx context.Context, count int, outPath string) error {
	plan, err := g.Plan(count)
	if err != nil {
		return err
	}
	if err := g.CheckBaseSample(); err != nil {
		return err
	}

	if count == 1 {
		g.opts.Logger.Debug("copying base sample", "out", outPath)
		return copyFile(g.opts.BaseSample, outPath)
	}

	g.opts.Logger.Debug("rendering chime",
		"out", outPath,
		"count", plan.Count,
		"interval_ms", plan.Interval.Milliseconds(),
	)

	return writeAtomic(outPath, func(tmp string) error {
		if err := g.opts.Mixer.Render(ctx, plan, tmp); err != nil {
			return fmt.Errorf("render %s: %w", filepath.Base(outPath), err)
		}
		return nil
	})
}

// RunAll generates the numbered chimes for 1..MaxCount in order, then the
// quarter-hour file. The first failure stops the run; files already written
// are left in place.
func (g *Generator) RunAll(ctx context.Context) ([]Output, error) {
	if err := g.CheckBaseSample(); err != nil {
		return nil, err
	}
	if g.opts.OutputDir != "" {
		if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	outs := g.Outputs()
	done := make([]Output, 0, len(outs))
	for _, out := range outs {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		var err error
		if out.Quarter {
			g.opts.Logger.Debug("copying quarter chime", "out", out.Path)
			err = copyFile(g.opts.BaseSample, out.Path)
		} else {
			err = g.GenerateForCount(ctx, out.Count, out.Path)
		}
		if err != nil {
			return done, fmt.Errorf("generate %s: %w", out.Name, err)
		}

		done = append(done, out)
		if g.opts.OnOutput != nil {
			g.opts.OnOutput(out)
		}
	}

	g.opts.Logger.Info("chime set generated", "dir", g.opts.OutputDir, "files", len(done))

	return done, nil
}

// copyFile copies src to dst byte for byte via a temporary sibling file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open base sample: %w", err)
	}
	defer in.Close()

	return writeAtomic(dst, func(tmp string) error {
		out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			_ = out.Close()
			return fmt.Errorf("copy %s: %w", filepath.Base(dst), err)
		}
		return out.Close()
	})
}

// writeAtomic calls write with a hidden temporary path next to dst and renames
// it over dst on success. The temporary file keeps dst's extension so encoders
// that infer the container from the name still work.
func writeAtomic(dst string, write func(tmp string) error) error {
	tmp := partialPath(dst)
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize %s: %w", filepath.Base(dst), err)
	}
	return nil
}

func partialPath(dst string) string {
	dir, base := filepath.Split(dst)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".partial"+ext)
}
