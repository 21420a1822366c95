package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/partforge/partforge/pkg/config"
	"github.com/partforge/partforge/pkg/resolvers"
)

func newEstimateCommand() *cobra.Command {
	var (
		weight    float64
		thickness float64
		length    float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate work-center setup and run hours",
		Long: `Estimate roll-forming, press-braking, and deburring hours for a part.

Roll-form setup follows the weight tier; the press brake only applies
when both the weight and thickness thresholds are met, with setup hours
coming from the configured setup formula.`,
		Example: `  # Estimate a 150 lb part, 1/4" plate, 60" long
  partforge estimate --weight 150 --thickness 0.25 --length 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if weight <= 0 {
				return fmt.Errorf("--weight must be positive")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			estimator := resolvers.NewEstimator(cfg)
			rf := estimator.RollForm(weight, thickness)

			result := map[string]any{
				"roll_form": rf,
			}

			if rf.RequiresPressBrake {
				formulas := config.NewFormulaEvaluator(0)
				setup, err := formulas.Evaluate(cmd.Context(), cfg.Manufacturing.SetupFormula, map[string]float64{
					"weight":    weight,
					"thickness": thickness,
					"length":    length,
				})
				if err != nil {
					return fmt.Errorf("setup formula failed: %w", err)
				}
				result["press_brake"] = estimator.PressBrake(weight, thickness, setup)
			}

			if length > 0 {
				result["deburr"] = estimator.Deburr(length, 0)
			}

			log.Debug().
				Float64("weight", weight).
				Float64("thickness", thickness).
				Float64("length", length).
				Msg("Estimated work centers")

			if jsonOutput {
				return printJSON(result)
			}

			fmt.Printf("Roll form:     setup %.3f h, run %.3f h\n", rf.SetupHours, rf.RunHours)
			if pb, ok := result["press_brake"].(resolvers.WorkCenterTime); ok {
				fmt.Printf("Press brake:   setup %.3f h, run %.3f h\n", pb.SetupHours, pb.RunHours)
			} else {
				fmt.Println("Press brake:   not required")
			}
			if d, ok := result["deburr"].(resolvers.WorkCenterTime); ok {
				fmt.Printf("Deburr:        setup %.3f h, run %.3f h\n", d.SetupHours, d.RunHours)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&weight, "weight", 0, "part weight in pounds")
	cmd.Flags().Float64Var(&thickness, "thickness", 0, "flat thickness in inches")
	cmd.Flags().Float64Var(&length, "length", 0, "part length in inches")
	_ = cmd.MarkFlagRequired("weight")

	return cmd
}
