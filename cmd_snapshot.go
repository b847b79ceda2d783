package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"vitrine/app"
	"vitrine/hal"
)

// loadTimeout bounds how long a snapshot waits on one model load.
const loadTimeout = 10 * time.Second

func newSnapshotCmd(g *globalOptions) *cobra.Command {
	var (
		out    string
		frames int
		script string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the showcase off-screen and save one frame as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			if frames <= 0 {
				return fmt.Errorf("--frames must be positive, got %d", frames)
			}
			events, err := hal.ParseScript(script)
			if err != nil {
				return err
			}
			cfg, log, err := g.load()
			if err != nil {
				return err
			}

			clock := time.Unix(0, 0)
			step := time.Second / time.Duration(cfg.Window.TPS)
			a, err := app.New(app.Options{Config: cfg, Logger: log, Now: func() time.Time { return clock }})
			if err != nil {
				return err
			}
			defer a.Close()

			ran, err := runFrames(cmd.Context(), a, events, frames, func() { clock = clock.Add(step) })
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating snapshot: %w", err)
			}
			if err := png.Encode(f, a.Render()); err != nil {
				f.Close()
				return fmt.Errorf("encoding snapshot: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s after %d frames\n", out, ran)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output PNG path")
	cmd.Flags().IntVar(&frames, "frames", 60, "Frames to run before capturing")
	cmd.Flags().StringVar(&script, "script", "", "Input script applied while running (see --help of the root command)")
	return cmd
}

// runFrames steps a through up to frames ticks of the script on a synthetic
// clock advanced by tick. Before each step it waits for the product model
// load, so a scripted open always finds its model on the same frame. A
// scripted quit ends the run early. It returns the number of frames stepped.
func runFrames(ctx context.Context, a *app.App, events []hal.ScriptedEvent, frames int, tick func()) (int, error) {
	events = append([]hal.ScriptedEvent(nil), events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Tick < events[j].Tick })

	for n := 1; n <= frames; n++ {
		for len(events) > 0 && events[0].Tick <= uint64(n) {
			a.HandleEvent(events[0].Event)
			events = events[1:]
		}

		wctx, cancel := context.WithTimeout(ctx, loadTimeout)
		_, err := a.Loader().Wait(wctx, app.ProductModelModule)
		cancel()
		if err != nil {
			return n - 1, fmt.Errorf("waiting for %s: %w", app.ProductModelModule, err)
		}

		tick()
		if err := a.Step(); err != nil {
			if errors.Is(err, hal.ErrQuit) {
				return n - 1, nil
			}
			return n - 1, err
		}
	}
	return frames, nil
}
