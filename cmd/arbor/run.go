package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run <preset>",
	Short: "Generate one result from a preset",
	Long: `Runs a preset grammar and prints a report of the result.
Use --json for the full result, geometry included.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{Preset: args[0]}
		opts.Seed, _ = cmd.Flags().GetInt64("seed")
		opts.Iterations, _ = cmd.Flags().GetInt("iterations")
		opts.Params, _ = cmd.Flags().GetStringArray("param")
		opts.DepthMode, _ = cmd.Flags().GetString("depth-mode")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Pretty = !opts.JSON && cli.IsTerminal(os.Stdout)

		gen, closeFn, err := cli.NewGenerator(cmd.Context(), cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closeFn()

		return cli.Run(cmd.Context(), gen, opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64("seed", 0, "Noise seed")
	runCmd.Flags().IntP("iterations", "n", 0, "Rewriting generations (0 uses the preset default)")
	runCmd.Flags().StringArrayP("param", "p", nil, "Preset parameter as key=value (repeatable)")
	runCmd.Flags().String("depth-mode", "reset-on-close", "Bracket depth accounting: reset-on-close or running-max")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
}
