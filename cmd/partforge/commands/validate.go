package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/partforge/partforge/pkg/config"
)

func newValidateCommand() *cobra.Command {
	var schemaCheck bool

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate an engine configuration file",
		Long: `Validate an engine configuration file: YAML syntax, structural
validation, and optionally conformance against the built-in CUE schema.`,
		Example: `  # Validate a config file
  partforge validate ./partforge.yaml

  # Include the CUE schema check
  partforge validate --schema ./partforge.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) > 0 {
				path = args[0]
			}

			var cfg *config.EngineConfig
			var err error
			if path == "" {
				cfg = config.DefaultConfig()
				log.Info().Msg("No config file given, validating built-in defaults")
			} else {
				cfg, err = config.NewLoader().Load(path)
				if err != nil {
					return err
				}
			}

			if schemaCheck {
				if err := config.NewSchemaRegistry().ValidateConfig(cfg); err != nil {
					return fmt.Errorf("schema validation failed: %w", err)
				}
			}

			if jsonOutput {
				return printJSON(map[string]any{
					"valid":      true,
					"version":    cfg.Version,
					"properties": len(cfg.Properties),
				})
			}
			fmt.Printf("Configuration valid (version %s, %d recognized properties)\n", cfg.Version, len(cfg.Properties))
			return nil
		},
	}

	cmd.Flags().BoolVar(&schemaCheck, "schema", false, "also validate against the built-in CUE schema")

	return cmd
}
