package hal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Hz int
	// Ticks stops the run after that many ticks; 0 runs until ctx is done.
	Ticks  uint64
	Script []ScriptedEvent
}

// RunHeadless drives app off a ticker without opening a window. Each tick
// delivers that tick's scripted events, steps the app and renders a frame.
func RunHeadless(ctx context.Context, app App, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	script := append([]ScriptedEvent(nil), cfg.Script...)
	sort.SliceStable(script, func(i, j int) bool { return script[i].Tick < script[j].Tick })

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			tick++
			for len(script) > 0 && script[0].Tick <= tick {
				app.HandleEvent(script[0].Event)
				script = script[1:]
			}
			if err := app.Step(); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			app.Render()
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
