package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var graphCmd = &cobra.Command{
	Use:   "graph <session-id>",
	Short: "Export the graph of a session step",
	Long: `Writes the decision graph of one step (the latest by default) as DOT,
JSON or a Mermaid diagram highlighting the visited decisions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, _ := cmd.Flags().GetInt("step")
		format, _ := cmd.Flags().GetString("format")
		return cli.ExportGraph(cmd.Context(), cli.GraphOptions{
			Options:   commonOptions(cmd),
			SessionID: args[0],
			Step:      step,
			Format:    format,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Int("step", -1, "Step index; negative values count from the end")
	graphCmd.Flags().StringP("format", "f", cli.FormatDOT, "Output format: dot, json or mermaid")
}
