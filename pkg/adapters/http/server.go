// Package http exposes an Engine over a JSON and Server-Sent Events API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/command"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
	"github.com/aretw0/journey/pkg/format/dot"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// maxScriptBytes caps request bodies.
const maxScriptBytes = 1 << 20

// Engine is the part of journey.Engine the server drives.
type Engine interface {
	Start(ctx context.Context, sessionID, decision string, opts exploration.StartOptions) (string, *exploration.Exploration, error)
	Exec(ctx context.Context, sessionID, script string) (*journey.Result, error)
	Snapshot(ctx context.Context, sessionID string) (*exploration.Exploration, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server implements the generated ServerInterface.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	logger  *slog.Logger
	metrics http.Handler
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts handler at /metrics.
func WithMetrics(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	if router, err := newRouter(); err != nil {
		s.logger.Error("OpenAPI validation disabled", "err", err)
	} else {
		r.Use(s.validateRequests(router))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			s.logger.Error("Failed to load OpenAPI spec", "err", err)
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, swaggerHTML)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			s.badRequest(w, err)
		},
	})
}

func newRouter() (routers.Router, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return legacyrouter.NewRouter(doc)
}

// validateRequests checks parameters and bodies of the routes the OpenAPI
// document describes. Other paths pass through untouched.
func (s *Server) validateRequests(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxScriptBytes)
			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			})
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
					return
				}
				s.badRequest(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Journey API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := InfoResponse{
		App:     "journey-http",
		Version: strings.TrimSpace(journey.Version),
	}
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		info.ApiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, info)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// StartSession handles the POST /sessions request.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartSessionJSONRequestBody
	if err := decodeBody(r, &body); err != nil {
		s.badRequest(w, err)
		return
	}

	start := exploration.StartOptions{Zone: body.Zone, Exits: body.Exits}
	if body.Map != "" {
		m, err := dot.ParseString(body.Map)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		start.Map = m
	}

	id, x, err := s.Engine.Start(r.Context(), body.ID, body.Decision, start)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, summarize(id, x))
}

// GetSession handles the GET /sessions/{id} request with the full
// codec-encoded exploration.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id SessionID) {
	x, err := s.Engine.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := codec.Marshal(x)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id SessionID) {
	if err := s.Engine.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Exec handles the POST /sessions/{id}/exec request. The script is read
// from a JSON body, or taken verbatim from a text/plain body.
func (s *Server) Exec(w http.ResponseWriter, r *http.Request, id SessionID) {
	var script ExecTextRequestBody
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxScriptBytes))
		if err != nil {
			s.badRequest(w, err)
			return
		}
		script = string(data)
	} else {
		var body ExecJSONRequestBody
		if err := decodeBody(r, &body); err != nil {
			s.badRequest(w, err)
			return
		}
		script = body.Script
	}

	res, err := s.Engine.Exec(r.Context(), id, script)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	value, err := codec.Marshal(res.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary := SessionSummary{ID: id, Steps: res.Steps, Position: res.Position}
	if msg, err := json.Marshal(summary); err == nil {
		s.Streams.Broadcast(id, string(msg))
	}
	s.writeJSON(w, http.StatusOK, ExecResponse{
		ID:       summary.ID,
		Steps:    summary.Steps,
		Position: summary.Position,
		Value:    value,
		Output:   res.Output,
	})
}

// GetGraph handles the GET /sessions/{id}/graph request. It renders the
// graph of the latest step, or of ?step=N, as DOT by default or as JSON
// with ?format=json.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, id SessionID, params GetGraphParams) {
	x, err := s.Engine.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	index := -1
	if params.Step != nil {
		index = *params.Step
	}
	sit, err := x.Situation(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := Dot
	if params.Format != nil {
		format = *params.Format
	}
	switch format {
	case Dot:
		text, err := dot.RenderString(sit.Graph)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = io.WriteString(w, text)
	case Json:
		data, err := codec.Marshal(sit.Graph)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	default:
		s.badRequest(w, fmt.Errorf("unknown format %q", format))
	}
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE). A
// SessionSummary is sent after every successful exec.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, sessionID SessionID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	if _, err := s.Engine.Snapshot(r.Context(), sessionID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.logger.Info("SSE: Subscribing to session updates", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func summarize(id string, x *exploration.Exploration) SessionSummary {
	sum := SessionSummary{ID: id, Steps: x.Len()}
	if x.Len() > 0 {
		sum.Position, _ = x.Position()
	}
	return sum
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxScriptBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Warn("Invalid request", "err", err)
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// writeError maps engine errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var parseErr *command.ParseError
	var cmdErr *command.CommandError
	var stepErr *exploration.StepIndexError
	var startErr *exploration.BadStartError
	var mapErr *dot.ParseError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists):
		status = http.StatusConflict
	case errors.As(err, &parseErr):
		status = http.StatusUnprocessableEntity
		resp.Line = parseErr.Line
	case errors.As(err, &cmdErr):
		status = http.StatusUnprocessableEntity
		resp.Line = cmdErr.Line
	case errors.As(err, &stepErr), errors.Is(err, exploration.ErrEmpty):
		status = http.StatusNotFound
	case errors.Is(err, command.ErrScriptTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, command.ErrInvalidUTF8):
		status = http.StatusBadRequest
	case errors.As(err, &startErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &mapErr):
		status = http.StatusUnprocessableEntity
		resp.Line = mapErr.Line
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("Request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, resp)
}
