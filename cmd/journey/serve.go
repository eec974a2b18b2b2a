package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the session API over HTTP, with Prometheus metrics at /metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return cli.Serve(cmd.Context(), cli.ServeOptions{
			Options: commonOptions(cmd),
			Addr:    addr,
			Out:     cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
