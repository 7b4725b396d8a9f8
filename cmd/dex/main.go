package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pokedex/internal/logging"
	"pokedex/internal/notify"
	"pokedex/internal/pokeapi"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	apiURL     string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dex",
	Short: "dex - terminal Pokedex backed by PokeAPI",
	Long: `dex browses the public PokeAPI catalog from the terminal.

The catalog index is loaded once per run. Generations can be listed by
number, names searched with typo suggestions, and the most frequent
ability across the whole catalog computed with a full detail scan.

Run without arguments to start the interactive page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := resolveWorkspace()
		if err := logging.Initialize(ws); err != nil {
			logger.Warn("File logging disabled", zap.Error(err))
		}
		logging.Boot("dex %s starting in %s", cmd.Name(), ws)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.dex/dex.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "PokeAPI base URL (or set DEX_API_URL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Whole-command timeout (0 = none)")

	listCmd.Flags().IntVar(&listGeneration, "gen", 0, "Generation number to list")
	listCmd.Flags().StringVar(&listRange, "range", "", "Inclusive id range, e.g. 1,151")

	topAbilityCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "Parallel detail fetches (default from config, 1 = serial)")
	topAbilityCmd.Flags().IntVar(&scanTop, "top", 1, "Also print the K most frequent abilities")
	topAbilityCmd.Flags().BoolVar(&scanRecord, "record", false, "Record the result in the scan history")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")

	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(topAbilityCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(generationsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints a command failure. API failures were already shown as
// a notification, so their raw error is only printed with --verbose.
func reportError(w io.Writer, err error) {
	if pokeapi.IsFetchError(err) && !notify.Suppressed(context.Background(), err) && !verbose {
		return
	}
	fmt.Fprintln(w, err)
}
