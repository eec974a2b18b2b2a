package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/format/codec"
)

const exploreStairs = `val stairs
assign transition
val Cellar
assign destination
call explore`

func startOptions() exploration.StartOptions {
	return exploration.StartOptions{Exits: []string{"stairs"}}
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestServer_SessionTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(journey.New())

	sum, err := s.handleStart(ctx, callTool("start_session", nil), StartArgs{ID: "s", Decision: "Hall", Exits: []string{"stairs"}})
	require.NoError(t, err)
	assert.Equal(t, SessionSummary{ID: "s", Steps: 1, Position: "Hall"}, sum)

	res, err := s.handleExec(ctx, callTool("exec", nil), ExecArgs{SessionID: "s", Script: exploreStairs + `
call position
assign here
empty list
append $here
assign values
call print
load here`})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, "Cellar", res.Position)
	assert.JSONEq(t, `"Cellar"`, string(res.Value))
	assert.Equal(t, "Cellar\n", res.Output)

	snap, err := s.handleSnapshot(ctx, callTool("snapshot", map[string]any{"session_id": "s"}))
	require.NoError(t, err)
	require.False(t, snap.IsError)
	require.Len(t, snap.Content, 1)
	text, ok := snap.Content[0].(mcp.TextContent)
	require.True(t, ok)
	x, err := codec.DecodeExploration([]byte(text.Text))
	require.NoError(t, err)
	assert.Equal(t, 2, x.Len())
}

func TestServer_ToolErrors(t *testing.T) {
	s := NewServer(journey.New())
	ctx := context.Background()
	_, _, err := s.engine.Start(ctx, "s", "Hall", startOptions())
	require.NoError(t, err)

	start := mcp.NewStructuredToolHandler(s.handleStart)
	exec := mcp.NewStructuredToolHandler(s.handleExec)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		req     mcp.CallToolRequest
	}{
		{"session exists", start, callTool("start_session", map[string]any{"id": "s"})},
		{"bad map", start, callTool("start_session", map[string]any{"decision": "A", "map": "digraph {\n A -> B\n}"})},
		{"unknown session", exec, callTool("exec", map[string]any{"session_id": "nope", "script": "val 1"})},
		{"missing session", exec, callTool("exec", map[string]any{"script": "val 1"})},
		{"failing script", exec, callTool("exec", map[string]any{"session_id": "s", "script": "call nothingHere"})},
		{"snapshot without id", s.handleSnapshot, callTool("snapshot", nil)},
		{"snapshot unknown", s.handleSnapshot, callTool("snapshot", map[string]any{"session_id": "nope"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, tt.req)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}

	x, err := s.engine.Snapshot(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, x.Len())
}

func TestServer_GraphResource(t *testing.T) {
	ctx := context.Background()
	s := NewServer(journey.New())
	_, _, err := s.engine.Start(ctx, "a b", "Hall", startOptions())
	require.NoError(t, err)
	_, err = s.engine.Exec(ctx, "a b", exploreStairs)
	require.NoError(t, err)

	read := func(uri string) ([]mcp.ResourceContents, error) {
		return s.handleGraph(ctx, mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: uri}})
	}

	contents, err := read(GraphURI("a b"))
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "text/vnd.graphviz", text.MIMEType)
	assert.Contains(t, text.Text, "Hall -> Cellar")

	_, err = read(GraphURI("ghost"))
	assert.Error(t, err)
	_, err = read("journey://sessions/a/b/graph")
	assert.Error(t, err)
}

func TestSessionFromURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"journey://sessions/s1/graph", "s1", false},
		{GraphURI("with space"), "with space", false},
		{"journey://sessions//graph", "", true},
		{"journey://sessions/s1", "", true},
		{"file:///etc/passwd", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := sessionFromURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServer_ListsTools(t *testing.T) {
	s := NewServer(journey.New())
	resp := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var out struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	var names []string
	for _, tool := range out.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"start_session", "exec", "snapshot"}, names)
}
