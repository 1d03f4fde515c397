package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/go-chimegen/internal/chime"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the next chime after a time of day and the asset that plays",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			now, err := parseClock(at, time.Now())
			if err != nil {
				return err
			}

			next, count := chime.NextChime(now)
			asset := chime.AssetName(cfg.Output.Prefix, count, cfg.Output.Format)

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "next chime: %s (%s) -> %s\n",
				next.Format("15:04"), strikes(count), asset)

			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time of day as HH:MM (defaults to now)")

	return cmd
}

// parseClock resolves an HH:MM string against the date of ref. An empty
// string returns ref unchanged.
func parseClock(s string, ref time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ref, nil
	}

	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: expected HH:MM", s)
	}

	return time.Date(ref.Year(), ref.Month(), ref.Day(), clock.Hour(), clock.Minute(), 0, 0, ref.Location()), nil
}

func strikes(n int) string {
	if n == 1 {
		return "1 strike"
	}
	return fmt.Sprintf("%d strikes", n)
}
