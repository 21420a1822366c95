package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/partforge/partforge/pkg/config"
	"github.com/partforge/partforge/pkg/document"
	"github.com/partforge/partforge/pkg/engine"
	"github.com/partforge/partforge/pkg/facts"
	"github.com/partforge/partforge/pkg/policy"
	"github.com/partforge/partforge/pkg/stores"
	"github.com/partforge/partforge/pkg/telemetry"
)

func newProcessCommand() *cobra.Command {
	var (
		kind          string
		od            float64
		wall          float64
		material      string
		designator    string
		weight        float64
		length        float64
		thickness     float64
		dbPath        string
		policyDir     string
		traceExporter string
		metricsListen string
	)

	cmd := &cobra.Command{
		Use:   "process <document>",
		Short: "Run the full processing pipeline for one document",
		Long: `Process a part document end to end: validate the facts, resolve
manufacturing parameters, build property suggestions, evaluate them
against policy, and write the approved set to the property cache.

With --db the run, its writeback audit trail, and an event record are
persisted to the SQLite store.`,
		Example: `  # Process a pipe part and persist the run
  partforge process BRKT-1001 --od 2.375 --wall 0.154 --material carbon \
    --designator A36 --weight 150 --length 60 --thickness 0.25 \
    --db ./partforge.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			policies, err := policy.NewEngine(log.Logger)
			if err != nil {
				return fmt.Errorf("failed to create policy engine: %w", err)
			}
			if policyDir != "" {
				if err := policies.LoadPolicies(cmd.Context(), []string{policyDir}); err != nil {
					return fmt.Errorf("failed to load policies: %w", err)
				}
			}

			telCfg := telemetry.DefaultConfig()
			if traceExporter != "" {
				telCfg.Tracing.Enabled = true
				telCfg.Tracing.Exporter = traceExporter
			}
			if metricsListen != "" {
				telCfg.Metrics.Enabled = true
				telCfg.Metrics.ListenAddress = metricsListen
			}
			tel, err := telemetry.NewTelemetry(telCfg)
			if err != nil {
				return err
			}
			defer func() { _ = tel.Shutdown(context.Background()) }()
			if telCfg.Metrics.Enabled {
				if err := tel.StartMetricsServer(); err != nil {
					return err
				}
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

			tables, err := loadTables(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			processor := engine.NewProcessor(cfg, tables, config.NewFormulaEvaluator(0), policies, store, tel.Metrics, log.Logger)

			doc := document.New(args[0], facts.DocKind(kind), cfg.Version)
			f := facts.PartFacts{
				OutsideDiameter:    od,
				WallThickness:      wall,
				Material:           facts.ParseMaterialCategory(material),
				MaterialDesignator: designator,
				Weight:             weight,
				Length:             length,
				FlatThickness:      thickness,
			}

			spanCtx, span := tel.Tracer.StartProcessSpan(cmd.Context(), doc.Name, string(doc.Kind))
			result, err := processor.ProcessDocument(spanCtx, doc, f)
			if err != nil {
				telemetry.RecordError(span, err)
				span.End()
				return err
			}
			telemetry.RecordSuccess(span)
			span.End()

			if jsonOutput {
				return printJSON(result)
			}

			fmt.Printf("Run:         %s\n", result.RunID)
			fmt.Printf("State:       %s\n", result.State)
			if result.Problem != "" {
				fmt.Printf("Problem:     %s\n", result.Problem)
			}
			fmt.Printf("Suggestions: %d (%d rejected)\n", len(result.Suggestions), len(result.Rejected))
			for _, e := range result.Entries {
				line := fmt.Sprintf("  %-14s %-8s %s", e.Name, e.Status, e.NewValue)
				if e.Reason != "" {
					line += " (" + e.Reason + ")"
				}
				fmt.Println(line)
			}
			if result.State == document.StateProblem {
				return fmt.Errorf("document landed in problem state: %s", result.Problem)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "part", "document kind (part, assembly, drawing)")
	cmd.Flags().Float64Var(&od, "od", 0, "outside diameter in inches")
	cmd.Flags().Float64Var(&wall, "wall", 0, "wall thickness in inches")
	cmd.Flags().StringVar(&material, "material", "carbon", "material family")
	cmd.Flags().StringVar(&designator, "designator", "", "alloy designator for pricing lookups")
	cmd.Flags().Float64Var(&weight, "weight", 0, "part weight in pounds")
	cmd.Flags().Float64Var(&length, "length", 0, "part length in inches")
	cmd.Flags().Float64Var(&thickness, "thickness", 0, "flat thickness in inches")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path for run persistence")
	cmd.Flags().StringVar(&policyDir, "policies", "", "directory of additional rego policies")
	cmd.Flags().StringVar(&traceExporter, "trace", "", "enable tracing with the given exporter (otlp, stdout)")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address")

	return cmd
}
