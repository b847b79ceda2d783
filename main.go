package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"vitrine/app"
	"vitrine/hal"
	"vitrine/internal/buildinfo"
	"vitrine/internal/config"
	"vitrine/internal/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	var (
		headless bool
		debug    bool
		hz       int
		ticks    uint64
		script   string
	)

	rootCmd := &cobra.Command{
		Use:   "vitrine",
		Short: "Interactive 3D product showcase",
		Long: `vitrine presents a product catalog as a scrolling showcase page with
spinning 3D models, pointer-driven parallax and a product detail overlay.

Scroll with the wheel or arrow keys, press 1-3 or click a card to open a
product, Esc to close it and q to quit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load()
			if err != nil {
				return err
			}
			a, err := app.New(app.Options{Config: cfg, Logger: log})
			if err != nil {
				return err
			}
			defer a.Close()

			if !headless {
				return hal.RunWindow(a, hal.WindowConfig{
					Title: "vitrine (" + buildinfo.Short() + ")",
					Scale: cfg.Window.Scale,
					TPS:   cfg.Window.TPS,
					Debug: debug,
				})
			}

			events, err := hal.ParseScript(script)
			if err != nil {
				return err
			}
			if hz <= 0 {
				hz = cfg.Window.TPS
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			err = hal.RunHeadless(ctx, a, hal.HeadlessConfig{Hz: hz, Ticks: ticks, Script: events})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default ~/.vitrine/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: warn, info, debug, trace")

	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run without a window")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Overlay the measured tick rate")
	rootCmd.Flags().IntVar(&hz, "hz", 0, "Tick rate in headless mode (default: window tps)")
	rootCmd.Flags().Uint64Var(&ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run until interrupted)")
	rootCmd.Flags().StringVar(&script, "script", "", `Headless input script, e.g. "10:scroll:8,30:key:1,90:key:esc"`)

	rootCmd.AddCommand(
		newVersionCmd(),
		newCatalogCmd(g),
		newSnapshotCmd(g),
	)
	return rootCmd
}

// load resolves configuration and builds the logger.
func (g *globalOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, os.Stderr), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Long())
		},
	}
}
