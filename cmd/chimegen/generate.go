package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"al.essio.dev/pkg/shellescape"
	"github.com/example/go-chimegen/internal/chime"
	"github.com/example/go-chimegen/internal/config"
	"github.com/example/go-chimegen/internal/mixer"
	"github.com/example/go-chimegen/internal/report"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate chime_01..chime_12 and the quarter-hour chime",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			printer := report.NewPrinter(cmd.OutOrStdout(), chime.DefaultInterval)

			gen, mix, err := buildGenerator(cfg, printer.Generated)
			if err != nil {
				return err
			}

			if dryRun {
				return printPlan(gen, mix, printer)
			}

			printer.Start(cfg.Paths.BaseSample, cfg.Paths.OutputDir)

			outs, err := gen.RunAll(cmd.Context())
			if err != nil {
				if errors.Is(err, chime.ErrBaseSampleMissing) {
					return fmt.Errorf("%w (make sure %s exists or set --paths-base-sample)",
						err, filepath.Base(cfg.Paths.BaseSample))
				}
				return fmt.Errorf("generation stopped after %d of %d files: %w", len(outs), chime.MaxCount+1, err)
			}

			printer.Summary(outs)

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned outputs and ffmpeg commands without writing files")

	return cmd
}

func buildGenerator(cfg config.Config, onOutput func(chime.Output)) (*chime.Generator, chime.Mixer, error) {
	logger := slog.Default()

	mix, err := mixer.New(cfg.Mixer, logger)
	if err != nil {
		return nil, nil, err
	}

	gen, err := chime.NewGenerator(chime.Options{
		BaseSample: cfg.Paths.BaseSample,
		OutputDir:  cfg.Paths.OutputDir,
		Prefix:     cfg.Output.Prefix,
		Ext:        cfg.Output.Format,
		Mixer:      mix,
		Logger:     logger,
		OnOutput:   onOutput,
	})
	if err != nil {
		return nil, nil, err
	}

	return gen, mix, nil
}

func printPlan(gen *chime.Generator, mix chime.Mixer, printer *report.Printer) error {
	for _, out := range gen.Outputs() {
		command, err := describeStep(gen, mix, out)
		if err != nil {
			return err
		}
		printer.Planned(out, command)
	}

	return nil
}

// describeStep returns how out would be produced: an ffmpeg command line, a
// native mix note, or a copy note for single strikes.
func describeStep(gen *chime.Generator, mix chime.Mixer, out chime.Output) (string, error) {
	if out.Quarter || out.Count == 1 {
		return "copy of base sample", nil
	}

	plan, err := gen.Plan(out.Count)
	if err != nil {
		return "", err
	}

	ff, ok := mix.(*mixer.FFmpeg)
	if !ok {
		return fmt.Sprintf("native mix, offsets %v ms", plan.OffsetsMS()), nil
	}

	args, err := ff.Args(plan, out.Path)
	if err != nil {
		return "", err
	}

	exe := ff.Path
	if exe == "" {
		exe = "ffmpeg"
	}

	return shellescape.QuoteCommand(append([]string{exe}, args...)), nil
}
