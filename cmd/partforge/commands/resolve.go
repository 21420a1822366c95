package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/partforge/partforge/pkg/facts"
)

func newResolveCommand() *cobra.Command {
	var (
		od       float64
		wall     float64
		material string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve pipe schedule and cutting parameters",
		Long: `Resolve the pipe schedule and tube cutting parameters for a set of
part dimensions.

Schedule matching tolerates small dimensional deviations (0.010" on
outside diameter, 0.005" on wall). Cutting parameters come from the
banded feed and pierce tables for the material family.`,
		Example: `  # Resolve a 2" schedule 40 carbon steel pipe
  partforge resolve --od 2.375 --wall 0.154 --material carbon

  # JSON output for scripting
  partforge resolve --od 16.0 --wall 0.5 --material stainless --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if od <= 0 || wall <= 0 {
				return fmt.Errorf("both --od and --wall must be positive")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			mat := facts.ParseMaterialCategory(material)
			tables, err := loadTables(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			log.Debug().
				Float64("od", od).
				Float64("wall", wall).
				Str("material", string(mat)).
				Msg("Resolving parameters")

			match, matched := tables.ResolveSchedule(od, wall, string(mat))
			cut := tables.CutParams(mat, wall)

			if jsonOutput {
				return printJSON(map[string]any{
					"matched":    matched,
					"schedule":   match,
					"cut_params": cut,
				})
			}

			if matched {
				fmt.Printf("Pipe size:     %s\n", match.NPS)
				fmt.Printf("Schedule:      %s\n", match.Schedule)
			} else {
				fmt.Println("No pipe schedule match")
			}
			fmt.Printf("Kerf width:    %g in\n", cut.Kerf)
			fmt.Printf("Pierce time:   %g s\n", cut.PierceTime)
			fmt.Printf("Cut speed:     %g in/min\n", cut.CutSpeed)
			return nil
		},
	}

	cmd.Flags().Float64Var(&od, "od", 0, "outside diameter in inches")
	cmd.Flags().Float64Var(&wall, "wall", 0, "wall thickness in inches")
	cmd.Flags().StringVar(&material, "material", "carbon", "material family (carbon, stainless, aluminum)")
	_ = cmd.MarkFlagRequired("od")
	_ = cmd.MarkFlagRequired("wall")

	return cmd
}
