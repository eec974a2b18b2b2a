package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/journey"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of journey",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "journey version %s\n", strings.TrimSpace(journey.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
