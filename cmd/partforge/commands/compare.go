package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/partforge/partforge/pkg/compare"
	"github.com/partforge/partforge/pkg/stores"
)

func newCompareCommand() *cobra.Command {
	var (
		baselinePath string
		actualPath   string
		dbPath       string
		record       bool
		detailed     bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare computed part values against recorded baselines",
		Long: `Compare a set of computed part field values against recorded
baselines and report the differences.

Baselines come from a YAML file (--baseline) or from the SQLite store
(--db). The baseline maps part numbers to expected fields, each with an
optional tolerance, a not-implemented flag, an intentional-deviation
flag, and a note. The actual file maps part numbers to plain field
values. Mismatches are grouped by severity, failures first.

With --record the actual values are written to the store as new
baselines instead of being compared.`,
		Example: `  # Summary report from file baselines
  partforge compare --baseline baseline.yaml --actual actual.yaml

  # Detail report against store baselines
  partforge compare --db partforge.db --actual actual.yaml --detailed

  # Record the current output as the new baseline
  partforge compare --db partforge.db --actual actual.yaml --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			actuals, err := loadActuals(actualPath)
			if err != nil {
				return err
			}

			var store stores.Store
			if dbPath != "" {
				sqlStore, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
				if err != nil {
					return err
				}
				if err := sqlStore.Init(cmd.Context()); err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				defer sqlStore.Close()
				if err := sqlStore.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("failed to migrate store: %w", err)
				}
				store = sqlStore
			}

			if record {
				if store == nil {
					return fmt.Errorf("--record requires --db")
				}
				return recordBaselines(cmd.Context(), store, actuals)
			}

			var baselines []compare.PartBaseline
			switch {
			case baselinePath != "":
				baselines, err = loadBaselineFile(baselinePath)
			case store != nil:
				baselines, err = loadStoreBaselines(cmd.Context(), store)
			default:
				return fmt.Errorf("either --baseline or --db is required")
			}
			if err != nil {
				return err
			}

			log.Debug().
				Int("baselines", len(baselines)).
				Int("actuals", len(actuals)).
				Msg("Comparing against baselines")

			report := compare.NewEngine(log.Logger).Compare(baselines, actuals)

			if jsonOutput {
				return printJSON(report)
			}
			if detailed {
				fmt.Print(compare.Detailed(&report))
			} else {
				fmt.Print(compare.Summary(&report))
			}

			if report.CountByStatus(compare.StatusFail) > 0 {
				return fmt.Errorf("%d field comparisons failed", report.CountByStatus(compare.StatusFail))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baselinePath, "baseline", "", "baseline YAML file (part number to expected fields)")
	cmd.Flags().StringVar(&actualPath, "actual", "", "actual YAML file (part number to field values)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database holding recorded baselines")
	cmd.Flags().BoolVar(&record, "record", false, "record the actual values as new baselines")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "print per-part field detail")
	_ = cmd.MarkFlagRequired("actual")

	return cmd
}

// loadBaselineFile reads a baseline file keyed by part number and returns
// the baselines in sorted part order.
func loadBaselineFile(path string) ([]compare.PartBaseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	byPart := make(map[string]map[string]compare.ExpectedField)
	if err := yaml.Unmarshal(data, &byPart); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	return sortedBaselines(byPart), nil
}

// loadStoreBaselines reads every recorded baseline from the store.
func loadStoreBaselines(ctx context.Context, store stores.Store) ([]compare.PartBaseline, error) {
	records, err := store.ListBaselines(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}

	byPart := make(map[string]map[string]compare.ExpectedField, len(records))
	for _, rec := range records {
		var fields map[string]compare.ExpectedField
		if err := json.Unmarshal([]byte(rec.Fields), &fields); err != nil {
			return nil, fmt.Errorf("baseline %s is corrupt: %w", rec.PartNumber, err)
		}
		byPart[rec.PartNumber] = fields
	}
	return sortedBaselines(byPart), nil
}

func sortedBaselines(byPart map[string]map[string]compare.ExpectedField) []compare.PartBaseline {
	parts := make([]string, 0, len(byPart))
	for part := range byPart {
		parts = append(parts, part)
	}
	sort.Strings(parts)

	baselines := make([]compare.PartBaseline, 0, len(parts))
	for _, part := range parts {
		baselines = append(baselines, compare.PartBaseline{
			PartNumber: part,
			Fields:     byPart[part],
		})
	}
	return baselines
}

// recordBaselines persists the actual values as exact-match baselines.
func recordBaselines(ctx context.Context, store stores.Store, actuals map[string]map[string]string) error {
	now := time.Now().UTC()
	for part, values := range actuals {
		fields := make(map[string]compare.ExpectedField, len(values))
		for name, value := range values {
			fields[name] = compare.ExpectedField{Value: value}
		}
		blob, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to encode baseline %s: %w", part, err)
		}

		baseline := &stores.Baseline{
			ID:         uuid.New().String(),
			PartNumber: part,
			Fields:     string(blob),
			RecordedAt: now,
			UpdatedAt:  now,
		}
		if err := store.UpsertBaseline(ctx, baseline); err != nil {
			return fmt.Errorf("failed to record baseline %s: %w", part, err)
		}
		log.Info().Str("part", part).Int("fields", len(fields)).Msg("Baseline recorded")
	}
	return nil
}

// loadActuals reads an actual-values file keyed by part number.
func loadActuals(path string) (map[string]map[string]string, error) {
	if path == "" {
		return nil, fmt.Errorf("--actual is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read actual file: %w", err)
	}

	actuals := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &actuals); err != nil {
		return nil, fmt.Errorf("failed to parse actual file: %w", err)
	}
	return actuals, nil
}
