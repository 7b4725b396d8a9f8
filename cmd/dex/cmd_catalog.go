package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pokedex/internal/catalog"
	"pokedex/internal/render"
)

var (
	listGeneration int
	listRange      string
)

// listCmd prints one id range of the catalog
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog names for a generation or id range",
	Long: `Loads the catalog index and prints one line per id in the selected range.
Ids missing from the catalog print as "-".

Examples:
  dex list --gen 1
  dex list --range 152,251`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// searchCmd resolves one name and prints its detail card
var searchCmd = &cobra.Command{
	Use:   "search [name]",
	Short: "Search the catalog by name and show the detail card",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

// generationsCmd prints the configured generation ranges
var generationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "Show the configured generation ranges",
	Args:  cobra.NoArgs,
	RunE:  runGenerations,
}

func selectedRange(a *app) (catalog.Range, error) {
	switch {
	case listGeneration != 0 && listRange != "":
		return catalog.Range{}, errors.New("use either --gen or --range, not both")
	case listGeneration != 0:
		g, ok := a.cfg.Generation(listGeneration)
		if !ok {
			return catalog.Range{}, fmt.Errorf("unknown generation %d", listGeneration)
		}
		return catalog.Range{Start: g.Start, End: g.End}, nil
	case listRange != "":
		return catalog.ParseRange(listRange)
	default:
		return catalog.Range{}, errors.New("one of --gen or --range is required")
	}
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newCLIApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	r, err := selectedRange(a)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := a.cache.Load(ctx); err != nil {
		return err
	}

	names, err := a.cache.ListRange(r)
	if err != nil {
		return err
	}
	zlog().Debug("Listed range", zap.Int("start", r.Start), zap.Int("end", r.End))

	fmt.Fprint(out, render.PlainList(names, r.Start))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newCLIApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	term := strings.Join(args, " ")

	ctx, cancel := commandContext()
	defer cancel()

	if err := a.cache.Load(ctx); err != nil {
		return err
	}

	res, err := a.resolver.Search(ctx, term)
	if err != nil {
		return err
	}
	if !res.Found {
		fmt.Fprintln(out, render.NotFoundMessage(res))
		return nil
	}

	r, err := render.New(renderStyle, 80)
	if err != nil {
		return err
	}
	card, err := r.DetailCard(res.Detail)
	if err != nil {
		return err
	}
	fmt.Fprint(out, card)
	return nil
}

func runGenerations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, g := range cfg.Generations {
		fmt.Fprintf(out, "Generation %d: %d-%d (%d)\n", g.Number, g.Start, g.End, g.End-g.Start+1)
	}
	return nil
}
