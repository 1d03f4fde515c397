package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/example/go-chimegen/internal/audio"
	"github.com/example/go-chimegen/internal/config"
	"github.com/example/go-chimegen/internal/doctor"
	"github.com/example/go-chimegen/internal/mixer"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg, the base sample and the output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "mixer: %s\n", cfg.Mixer.Backend)

			ff := &mixer.FFmpeg{Path: cfg.Mixer.FFmpegPath}
			dcfg := doctor.Config{
				FFmpegVersion: func() (string, error) {
					return ff.Version(cmd.Context())
				},
				SkipFFmpeg: cfg.Mixer.Backend == config.BackendNative,
				BaseSample: cfg.Paths.BaseSample,
				OutputDir:  cfg.Paths.OutputDir,
			}

			result := doctor.Run(dcfg, out)

			if dcfg.SkipFFmpeg {
				checkNativeSample(&result, cfg.Paths.BaseSample, out)
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	return cmd
}

// checkNativeSample confirms the native mixer can decode the base sample. A
// missing file is already reported by doctor.Run.
func checkNativeSample(result *doctor.Result, path string, w io.Writer) {
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return
	}

	pcm, err := audio.DecodeWAVFile(path)
	if err != nil {
		result.AddFailure(fmt.Sprintf("native mixer: %v", err))
		_, _ = fmt.Fprintf(w, "%s native mixer: base sample is not a readable WAV (%v)\n", doctor.FailMark, err)
		return
	}

	_, _ = fmt.Fprintf(w, "%s native mixer: %d Hz, %d ch, %v\n", doctor.PassMark, pcm.SampleRate, pcm.Channels, pcm.Duration())
}
