package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/pkg/presets"
)

var graphCmd = &cobra.Command{
	Use:   "graph <preset>",
	Short: "Export a preset's rules as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the preset's rules.
With --iterations the grammar runs first and rule sources whose selection
fell back to the first rule are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := presets.Default().Get(args[0])
		if err != nil {
			return err
		}

		var opts cli.GraphOptions
		opts.Seed, _ = cmd.Flags().GetInt64("seed")
		opts.Iterations, _ = cmd.Flags().GetInt("iterations")
		opts.Params, _ = cmd.Flags().GetStringArray("param")

		out, err := cli.Graph(p, opts)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Int64("seed", 0, "Noise seed")
	graphCmd.Flags().IntP("iterations", "n", 0, "Run this many generations and overlay exhausted selections")
	graphCmd.Flags().StringArrayP("param", "p", nil, "Preset parameter as key=value (repeatable)")
}
