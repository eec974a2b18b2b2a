package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/journey/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes sessions to AI agents as MCP tools (start_session, exec, snapshot)
and each session's graph as the resource journey://sessions/{id}/graph.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		return cli.MCP(cmd.Context(), cli.MCPOptions{
			Options:   commonOptions(cmd),
			Transport: transport,
			Addr:      addr,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "", "Address to listen on for sse (default from config, :8080)")
}
