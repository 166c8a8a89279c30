package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/pkg/presets"
)

var validateCmd = &cobra.Command{
	Use:   "validate <preset>",
	Short: "Check a preset's grammar for consistency",
	Long:  `Builds the preset with the given parameters and reports unbalanced brackets, unterminated parameter blocks and non-positive weights.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := presets.Default().Get(args[0])
		if err != nil {
			return err
		}
		params, _ := cmd.Flags().GetStringArray("param")
		if err := cli.Validate(p, params); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Grammar %s is valid! ✅\n", p.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringArrayP("param", "p", nil, "Preset parameter as key=value (repeatable)")
}
