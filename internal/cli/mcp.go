package cli

import (
	"context"
	"fmt"
	"strings"

	mcpAdapter "github.com/aretw0/journey/pkg/adapters/mcp"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Options
	// Transport is stdio (default) or sse.
	Transport string
	// Addr is the SSE listen address.
	Addr string
}

// MCP serves the engine over the Model Context Protocol until the transport
// closes or ctx is cancelled.
func MCP(ctx context.Context, opts MCPOptions) error {
	transport := strings.ToLower(strings.TrimSpace(opts.Transport))
	if transport == "" {
		transport = TransportStdio
	}
	if transport != TransportStdio && transport != TransportSSE {
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", opts.Transport)
	}

	cfg, err := loadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger := cfg.Logger()
	eng, closeStore, err := createEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcpAdapter.NewServer(eng, mcpAdapter.WithLogger(logger))
	switch transport {
	case TransportSSE:
		addr := opts.Addr
		if addr == "" {
			addr = cfg.HTTP.Addr
		}
		logger.Info("Starting journey MCP server (SSE)", "addr", addr)
		return srv.ServeSSE(ctx, addr, baseURL(addr))
	default:
		// Logs go to stderr, leaving stdout to JSON-RPC.
		logger.Info("Starting journey MCP server (stdio)")
		return srv.ServeStdio()
	}
}

// baseURL turns a listen address into the URL clients reach it on.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
