// Package doctor provides environment preflight checks for chimegen.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// MinFFmpegMajor and MinFFmpegMinor are the oldest ffmpeg release whose amix
// filter accepts normalize=0.
const (
	MinFFmpegMajor = 4
	MinFFmpegMinor = 4
)

// VersionFunc returns a version string or an error if the component is unavailable.
type VersionFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// FFmpegVersion returns the first line of `ffmpeg -version`.
	FFmpegVersion VersionFunc
	// SkipFFmpeg skips the ffmpeg check (native mixer mode).
	SkipFFmpeg bool
	// BaseSample is the single-strike sample every output derives from.
	BaseSample string
	// OutputDir must be writable, or creatable under a writable ancestor.
	OutputDir string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- ffmpeg binary ----------------------------------------------------
	switch {
	case cfg.SkipFFmpeg:
		fmt.Fprintf(w, "%s ffmpeg: skipped\n", PassMark)
	case cfg.FFmpegVersion == nil:
		res.fail("ffmpeg: no version probe configured")
		fmt.Fprintf(w, "%s ffmpeg: no version probe configured\n", FailMark)
	default:
		ver, err := cfg.FFmpegVersion()
		if err != nil {
			res.fail(fmt.Sprintf("ffmpeg: %v", err))
			fmt.Fprintf(w, "%s ffmpeg: not found (%v)\n", FailMark, err)
		} else if verErr := checkFFmpegVersion(ver); verErr != nil {
			res.fail(fmt.Sprintf("ffmpeg: %v", verErr))
			fmt.Fprintf(w, "%s ffmpeg %s: %v\n", FailMark, ver, verErr)
		} else {
			fmt.Fprintf(w, "%s ffmpeg: %s\n", PassMark, ver)
		}
	}

	// ---- base sample ------------------------------------------------------
	if info, err := os.Stat(cfg.BaseSample); err != nil {
		res.fail(fmt.Sprintf("base sample %q: %v", cfg.BaseSample, err))
		fmt.Fprintf(w, "%s base sample %s: not found\n", FailMark, cfg.BaseSample)
	} else if info.IsDir() {
		res.fail(fmt.Sprintf("base sample %q: is a directory", cfg.BaseSample))
		fmt.Fprintf(w, "%s base sample %s: is a directory\n", FailMark, cfg.BaseSample)
	} else {
		fmt.Fprintf(w, "%s base sample: %s (%d bytes)\n", PassMark, cfg.BaseSample, info.Size())
	}

	// ---- output directory -------------------------------------------------
	if err := checkWritableDir(cfg.OutputDir); err != nil {
		res.fail(fmt.Sprintf("output dir %q: %v", cfg.OutputDir, err))
		fmt.Fprintf(w, "%s output dir %s: %v\n", FailMark, cfg.OutputDir, err)
	} else {
		fmt.Fprintf(w, "%s output dir: %s\n", PassMark, cfg.OutputDir)
	}

	return res
}

// checkFFmpegVersion rejects releases older than MinFFmpegMajor.MinFFmpegMinor.
// Snapshot builds ("ffmpeg version N-...") carry no release number and pass.
func checkFFmpegVersion(line string) error {
	ver := releaseVersion(line)
	if ver == "" || strings.HasPrefix(ver, "N-") {
		return nil
	}

	major, minor, err := parseMajorMinor(ver)
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", ver, err)
	}
	if major < MinFFmpegMajor || (major == MinFFmpegMajor && minor < MinFFmpegMinor) {
		return fmt.Errorf("requires ffmpeg >=%d.%d for amix normalize=0, got %d.%d",
			MinFFmpegMajor, MinFFmpegMinor, major, minor)
	}
	return nil
}

// releaseVersion extracts the token after "version" in an ffmpeg banner,
// dropping a leading "n" used by git-tagged builds.
func releaseVersion(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			v := fields[i+1]
			if len(v) > 1 && v[0] == 'n' && v[1] >= '0' && v[1] <= '9' {
				v = v[1:]
			}
			return v
		}
	}
	return ""
}

func parseMajorMinor(ver string) (major, minor int, err error) {
	parts := strings.SplitN(ver, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected version format %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major in %q: %w", ver, err)
	}
	minor, err = strconv.Atoi(leadingDigits(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor in %q: %w", ver, err)
	}
	return major, minor, nil
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// checkWritableDir verifies dir, or its nearest existing ancestor when dir
// does not exist yet, accepts new files.
func checkWritableDir(dir string) error {
	if dir == "" {
		dir = "."
	}

	probe := dir
	for {
		info, err := os.Stat(probe)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", probe)
			}
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			return err
		}
		probe = parent
	}

	f, err := os.CreateTemp(probe, ".chimegen-doctor-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
