package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/partforge/partforge/pkg/config"
	"github.com/partforge/partforge/pkg/resolvers"
	"github.com/partforge/partforge/pkg/workbook"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "partforge",
		Short: "PartForge - Manufacturing Parameter Engine",
		Long: `PartForge resolves manufacturing parameters for fabricated parts and
reconciles them back onto part documents.

Features:
  - Pipe schedule resolution with dimensional tolerances
  - Tube cutting parameter tables (kerf, pierce, feed)
  - Work-center time estimation (roll form, press brake, deburr)
  - Policy-gated property writeback with a full audit trail
  - Baseline comparison reporting`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newEstimateCommand())
	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newCompareCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

// loadConfig loads the engine configuration from the --config flag, or the
// built-in defaults when the flag is unset.
func loadConfig() (*config.EngineConfig, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.NewLoader().Load(configPath)
}

// pipeTableSheet is the sheet holding the pipe schedule rows in an
// external workbook.
const pipeTableSheet = "PipeTable"

// loadTables builds the table provider. When the configuration points at
// an existing pipe-table workbook, its rows replace the built-in pipe
// schedule table; otherwise the built-ins are used as-is.
func loadTables(ctx context.Context, cfg *config.EngineConfig) (*resolvers.TableProvider, error) {
	tables := resolvers.NewTableProvider()

	path := config.FirstExistingPath(cfg.Paths.PipeTableWorkbook)
	if path == "" {
		return tables, nil
	}

	opener := workbook.NewRetryOpener(
		workbook.FileOpener{},
		cfg.Processing.MaxRetries,
		time.Duration(cfg.Processing.RetryBackoffMillis)*time.Millisecond,
		log.Logger,
	)
	wb, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	rows, err := wb.UsedRange(pipeTableSheet)
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", path, err)
	}
	if err := tables.LoadPipeTable(rows); err != nil {
		return nil, fmt.Errorf("workbook %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Pipe table loaded from workbook")
	return tables, nil
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
