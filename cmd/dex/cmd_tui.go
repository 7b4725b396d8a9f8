package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pokedex/cmd/dex/tui"
	"pokedex/internal/logging"
	"pokedex/internal/render"
	"pokedex/internal/scan"
)

// tuiCmd starts the interactive page
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive page (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	alerts := tui.NewAlerts(8)
	a, err := newApp(alerts)
	if err != nil {
		return err
	}

	r, err := render.New(renderStyle, 80)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.UI("Starting interactive page against %s", a.cfg.API.BaseURL)
	return tui.Run(tui.Config{
		Context:  ctx,
		Cache:    a.cache,
		Resolver: a.resolver,
		NewScanner: func(fn scan.ProgressFunc) *scan.Scanner {
			return a.scanner(0, fn)
		},
		Renderer:    r,
		Generations: a.cfg.Generations,
		Alerts:      alerts,
	})
}
