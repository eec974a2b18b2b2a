// Package mcp exposes an Engine as a Model Context Protocol server, so that
// agents can start sessions, run scripts and read session graphs.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/format/dot"
)

// GraphURITemplate names the DOT graph of a session's latest step.
const GraphURITemplate = "journey://sessions/{id}/graph"

// Engine is the part of journey.Engine the MCP server drives.
type Engine interface {
	Start(ctx context.Context, sessionID, decision string, opts exploration.StartOptions) (string, *exploration.Exploration, error)
	Exec(ctx context.Context, sessionID, script string) (*journey.Result, error)
	Snapshot(ctx context.Context, sessionID string) (*exploration.Exploration, error)
}

// StartArgs are the arguments of the start_session tool.
type StartArgs struct {
	ID       string   `json:"id,omitempty"`
	Decision string   `json:"decision,omitempty"`
	Zone     string   `json:"zone,omitempty"`
	Exits    []string `json:"exits,omitempty"`
	Map      string   `json:"map,omitempty"`
}

// ExecArgs are the arguments of the exec tool.
type ExecArgs struct {
	SessionID string `json:"session_id"`
	Script    string `json:"script"`
}

// SnapshotArgs are the arguments of the snapshot tool.
type SnapshotArgs struct {
	SessionID string `json:"session_id"`
}

// SessionSummary mirrors the HTTP API's summary of a session.
type SessionSummary struct {
	ID       string `json:"id" jsonschema_description:"Session ID"`
	Steps    int    `json:"steps" jsonschema_description:"Number of recorded steps"`
	Position string `json:"position,omitempty" jsonschema_description:"Current decision, empty before the first step"`
}

// ExecResponse reports a finished script.
type ExecResponse struct {
	SessionSummary
	Value  json.RawMessage `json:"value" jsonschema_description:"Final value of $_ in the codec encoding"`
	Output string          `json:"output,omitempty" jsonschema_description:"Text the script printed"`
}

// Server wraps an Engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server for engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("journey-mcp", strings.TrimSpace(journey.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin and stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over Server-Sent Events on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: start_session
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Create a session. With a decision, its exploration starts there."),
		mcp.WithString("id", mcp.Description("Session ID (a fresh UUID when omitted)")),
		mcp.WithString("decision", mcp.Description("Starting decision (optional)")),
		mcp.WithString("zone", mcp.Description("Zone the starting decision is placed in (optional)")),
		mcp.WithArray("exits", mcp.Description("Unexplored transitions out of the starting decision"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("map", mcp.Description("DOT graph the session starts on (optional)")),
		mcp.WithOutputSchema[SessionSummary](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: exec
	execTool := mcp.NewTool("exec",
		mcp.WithDescription("Run a command script against a session. The session is saved only when the whole script succeeds."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("script", mcp.Required(), mcp.Description("Command script, one command per line")),
		mcp.WithOutputSchema[ExecResponse](),
	)
	s.mcpServer.AddTool(execTool, mcp.NewStructuredToolHandler(s.handleExec))

	// TOOL: snapshot
	s.mcpServer.AddTool(mcp.NewTool("snapshot",
		mcp.WithDescription("Get the full exploration of a session in codec JSON."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), s.handleSnapshot)
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (SessionSummary, error) {
	start := exploration.StartOptions{Zone: args.Zone, Exits: args.Exits}
	if args.Map != "" {
		m, err := dot.ParseString(args.Map)
		if err != nil {
			return SessionSummary{}, fmt.Errorf("map: %w", err)
		}
		start.Map = m
	}
	id, x, err := s.engine.Start(ctx, args.ID, args.Decision, start)
	if err != nil {
		return SessionSummary{}, err
	}
	s.logger.Debug("MCP session started", "session_id", id)
	return summarize(id, x), nil
}

func (s *Server) handleExec(ctx context.Context, request mcp.CallToolRequest, args ExecArgs) (ExecResponse, error) {
	if args.SessionID == "" {
		return ExecResponse{}, errors.New("session_id is required")
	}
	res, err := s.engine.Exec(ctx, args.SessionID, args.Script)
	if err != nil {
		s.logger.Debug("MCP exec failed", "session_id", args.SessionID, "err", err)
		return ExecResponse{}, err
	}
	value, err := codec.Marshal(res.Value)
	if err != nil {
		return ExecResponse{}, err
	}
	return ExecResponse{
		SessionSummary: SessionSummary{ID: args.SessionID, Steps: res.Steps, Position: res.Position},
		Value:          value,
		Output:         res.Output,
	}, nil
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, err := s.engine.Snapshot(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	data, err := codec.Marshal(x)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: journey://sessions/{id}/graph
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(GraphURITemplate, "Session Graph",
		mcp.WithTemplateDescription("DOT rendering of the graph at a session's latest step"),
		mcp.WithTemplateMIMEType("text/vnd.graphviz"),
	), s.handleGraph)
}

func (s *Server) handleGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, err := sessionFromURI(uri)
	if err != nil {
		return nil, err
	}
	x, err := s.engine.Snapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %q: %w", id, err)
	}
	sit, err := x.Situation(-1)
	if err != nil {
		return nil, err
	}
	text, err := dot.RenderString(sit.Graph)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/vnd.graphviz",
			Text:     text,
		},
	}, nil
}

// GraphURI returns the graph resource URI of a session.
func GraphURI(sessionID string) string {
	return "journey://sessions/" + url.PathEscape(sessionID) + "/graph"
}

func sessionFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, "journey://sessions/")
	if ok {
		rest, ok = strings.CutSuffix(rest, "/graph")
	}
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", fmt.Errorf("unknown resource %q", uri)
	}
	return url.PathUnescape(rest)
}

func summarize(id string, x *exploration.Exploration) SessionSummary {
	sum := SessionSummary{ID: id, Steps: x.Len()}
	if x.Len() > 0 {
		sum.Position, _ = x.Position()
	}
	return sum
}
