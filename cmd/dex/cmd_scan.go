package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pokedex/internal/render"
	"pokedex/internal/scan"
	"pokedex/internal/store"
)

var (
	scanConcurrency int
	scanTop         int
	scanRecord      bool
	historyLimit    int
)

// topAbilityCmd computes the most frequent ability across the catalog
var topAbilityCmd = &cobra.Command{
	Use:   "top-ability",
	Short: "Find the most frequent ability across the whole catalog",
	Long: `Fetches the detail record of every catalog entry and counts abilities.
Ties go to the ability that reached the winning count first in id order.
This issues one request per entry.`,
	Args: cobra.NoArgs,
	RunE: runTopAbility,
}

// historyCmd lists recorded scan runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded top-ability scans",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runTopAbility(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	a, err := newCLIApp(errOut)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := a.cache.Load(ctx); err != nil {
		return err
	}

	lastPct := -1
	progress := func(done, total int) {
		if !verbose || total == 0 {
			return
		}
		if pct := done * 100 / total; pct/10 != lastPct/10 {
			lastPct = pct
			fmt.Fprintln(errOut, render.Progress(done, total, 30))
		}
	}

	s := a.scanner(scanConcurrency, progress)
	started := time.Now()
	res, err := s.MostFrequentAbility(ctx)
	if err != nil {
		return err
	}
	zlog().Info("Scan complete",
		zap.String("ability", res.Ability),
		zap.Int("count", res.Count),
		zap.Int("scanned", res.Scanned),
		zap.Duration("duration", res.Duration))

	r, err := render.New(renderStyle, 80)
	if err != nil {
		return err
	}
	fmt.Fprint(out, r.AbilityResult(res, scanTop))

	if scanRecord || a.cfg.Store.Enabled {
		if err := recordRun(cmd, a, res, s.Concurrency(), started); err != nil {
			return err
		}
	}
	return nil
}

func recordRun(cmd *cobra.Command, a *app, res scan.Result, concurrency int, started time.Time) error {
	hs, err := a.openHistory()
	if err != nil {
		return err
	}
	defer hs.Close()

	run := store.ScanRun{
		Ability:     res.Ability,
		Count:       res.Count,
		Scanned:     res.Scanned,
		Concurrency: concurrency,
		StartedAt:   started,
		Duration:    res.Duration,
	}
	if res.Tally != nil {
		for _, row := range res.Tally.Top(5) {
			run.Top = append(run.Top, store.AbilityCount{Ability: row.Ability, Count: row.Count})
		}
	}

	ctx, cancel := commandContext()
	defer cancel()
	id, err := hs.Record(ctx, run)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded run %s\n", id)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newCLIApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	hs, err := a.openHistory()
	if err != nil {
		return err
	}
	defer hs.Close()

	ctx, cancel := commandContext()
	defer cancel()

	runs, err := hs.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded scans.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tABILITY\tCOUNT\tSCANNED\tWORKERS\tDURATION\tID")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			run.StartedAt.Local().Format(time.DateTime),
			run.Ability, run.Count, run.Scanned, run.Concurrency,
			run.Duration.Round(time.Millisecond), run.ID)
	}
	return tw.Flush()
}
