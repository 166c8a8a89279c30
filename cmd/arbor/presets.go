package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/pkg/presets"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available presets",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tITERATIONS\tDESCRIPTION")
		for _, p := range presets.Default().List() {
			fmt.Fprintf(w, "%s\t%d\t%s\n", p.Name(), p.DefaultIterations(), p.Describe())
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
