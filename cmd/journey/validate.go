package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <graph-file>",
	Short: "Check a decision graph for consistency",
	Long:  `Reports broken reciprocals, inconsistent zone membership and malformed effects.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			var err error
			if format, err = cli.DetectFormat(args[0]); err != nil {
				return err
			}
		}
		input, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		g, err := cli.Validate(strings.NewReader(input), format)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Graph is valid: %d decisions, %d transitions.\n", g.Len(), len(g.AllTransitions()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("format", "", "Input format: json or dot (default from extension)")
}
