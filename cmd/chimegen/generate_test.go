package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/go-chimegen/internal/chime"
	"github.com/example/go-chimegen/internal/mixer"
	"github.com/example/go-chimegen/internal/testutil"
)

// runRoot executes a fresh root command with args and returns its stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	orig := activeCfg
	t.Cleanup(func() { activeCfg = orig })

	var out bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func nativeArgs(base, outDir string, extra ...string) []string {
	args := []string{
		"--mixer", "native",
		"--output-format", "wav",
		"--paths-base-sample", base,
		"--paths-output-dir", outDir,
		"--log-level", "error",
	}
	return append(args, extra...)
}

func TestGenerate_NativeWritesAllAssets(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteTone(t, dir, testutil.Tone{Duration: 300 * time.Millisecond})
	outDir := filepath.Join(dir, "raw")

	out, err := runRoot(t, append([]string{"generate"}, nativeArgs(base, outDir)...)...)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != chime.MaxCount+1 {
		t.Fatalf("output dir has %d entries, want %d", len(entries), chime.MaxCount+1)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "chime_03.wav"))
	if err != nil {
		t.Fatalf("read chime_03.wav: %v", err)
	}

	testutil.AssertStrikes(t, data, testutil.Strikes{
		Count:     3,
		Interval:  chime.DefaultInterval,
		Length:    300 * time.Millisecond,
		Amplitude: 0.5,
	})

	if !strings.Contains(out, "chime_12.wav") {
		t.Errorf("output does not mention chime_12.wav:\n%s", out)
	}
	if !strings.Contains(out, "chime_quarter.wav") {
		t.Errorf("output does not mention chime_quarter.wav:\n%s", out)
	}
}

func TestGenerate_MissingBaseSampleWritesNothing(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "raw")

	out, err := runRoot(t, append([]string{"generate"}, nativeArgs(filepath.Join(dir, "missing.wav"), outDir)...)...)
	if err == nil {
		t.Fatal("expected error for missing base sample")
	}
	// main reports the returned error; the command itself must not.
	if strings.Contains(out, "error:") {
		t.Errorf("command output repeats the error:\n%s", out)
	}
	if !errors.Is(err, chime.ErrBaseSampleMissing) {
		t.Errorf("error = %v, want ErrBaseSampleMissing", err)
	}
	if !strings.Contains(err.Error(), "missing.wav") {
		t.Errorf("error %q does not name the missing file", err)
	}

	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Errorf("output dir should not exist, stat err = %v", statErr)
	}
}

func TestGenerate_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "chime_sound.mp3")
	outDir := filepath.Join(dir, "raw")

	out, err := runRoot(t, "generate", "--dry-run",
		"--paths-base-sample", base,
		"--paths-output-dir", outDir,
		"--ffmpeg-path", "ffmpeg",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("dry run: %v\n%s", err, out)
	}

	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Errorf("dry run created the output dir, stat err = %v", statErr)
	}

	for _, want := range []string{
		"chime_01.mp3",
		"copy of base sample",
		"amix=inputs=12:duration=longest:normalize=0",
		"libmp3lame",
		"chime_quarter.mp3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dry-run output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate_DryRunNativeDescribesOffsets(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, append([]string{"generate", "--dry-run"},
		nativeArgs(filepath.Join(dir, "chime_sound.wav"), dir)...)...)
	if err != nil {
		t.Fatalf("dry run: %v\n%s", err, out)
	}

	if !strings.Contains(out, "native mix, offsets [0 1200 2400] ms") {
		t.Errorf("dry-run output missing native offsets for chime_03:\n%s", out)
	}
}

func TestDescribeStep_QuotesFFmpegCommand(t *testing.T) {
	mix := &mixer.FFmpeg{Path: "/opt/ffmpeg 6/bin/ffmpeg", Quality: 2}

	gen, err := chime.NewGenerator(chime.Options{
		BaseSample: "res/it's chime.mp3",
		OutputDir:  "out",
		Mixer:      mix,
	})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	got, err := describeStep(gen, mix, chime.Output{Name: "chime_02.mp3", Path: "out/chime_02.mp3", Count: 2})
	if err != nil {
		t.Fatalf("describeStep: %v", err)
	}

	for _, want := range []string{
		`'/opt/ffmpeg 6/bin/ffmpeg' -y -hide_banner`,
		`-i 'res/it'"'"'s chime.mp3'`,
		`-map '[out]'`,
		`-c:a libmp3lame -q:a 2 out/chime_02.mp3`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("describeStep = %q; missing %q", got, want)
		}
	}
}

func TestDescribeStep_CopyForSingleStrike(t *testing.T) {
	gen, err := chime.NewGenerator(chime.Options{BaseSample: "chime_sound.mp3", Mixer: &mixer.FFmpeg{}})
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	for _, out := range []chime.Output{{Count: 1}, {Count: 1, Quarter: true}} {
		got, err := describeStep(gen, &mixer.FFmpeg{}, out)
		if err != nil || got != "copy of base sample" {
			t.Errorf("describeStep(%+v) = %q, %v; want copy note", out, got, err)
		}
	}
}
