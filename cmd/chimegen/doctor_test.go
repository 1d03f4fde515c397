package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-chimegen/internal/doctor"
	"github.com/example/go-chimegen/internal/testutil"
)

func TestDoctor_NativeModePasses(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteTone(t, dir, testutil.Tone{})

	out, err := runRoot(t, append([]string{"doctor"}, nativeArgs(base, filepath.Join(dir, "raw"))...)...)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}

	if !strings.Contains(out, "ffmpeg: skipped") {
		t.Errorf("expected ffmpeg check to be skipped:\n%s", out)
	}
	if !strings.Contains(out, "doctor checks passed") {
		t.Errorf("expected pass message:\n%s", out)
	}
}

func TestDoctor_MissingBaseSampleFails(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, append([]string{"doctor"}, nativeArgs(filepath.Join(dir, "nope.wav"), dir)...)...)
	if err == nil {
		t.Fatalf("expected doctor to fail:\n%s", out)
	}
}

func TestDoctor_UnknownFFmpegFails(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteTone(t, dir, testutil.Tone{})

	out, err := runRoot(t, "doctor",
		"--paths-base-sample", base,
		"--paths-output-dir", dir,
		"--ffmpeg-path", filepath.Join(dir, "no-such-ffmpeg"),
		"--log-level", "error",
	)
	if err == nil {
		t.Fatalf("expected doctor to fail without ffmpeg:\n%s", out)
	}
}

func TestDoctor_NativeRejectsUndecodableSample(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "chime_sound.wav")
	if err := os.WriteFile(base, []byte("ID3 not a wav file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := runRoot(t, append([]string{"doctor"}, nativeArgs(base, dir)...)...)
	if err == nil {
		t.Fatalf("expected doctor to fail for an undecodable sample:\n%s", out)
	}

	if !strings.Contains(out, "native mixer: base sample is not a readable WAV") {
		t.Errorf("expected native mixer failure line:\n%s", out)
	}
}

func TestCheckNativeSample_RecordsFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var res doctor.Result
	checkNativeSample(&res, bad, io.Discard)
	if !res.Failed() {
		t.Error("expected a failure for an undecodable sample")
	}

	var ok doctor.Result
	checkNativeSample(&ok, testutil.WriteTone(t, dir, testutil.Tone{}), io.Discard)
	if ok.Failed() {
		t.Errorf("unexpected failures: %v", ok.Failures())
	}
}
