package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/format/codec"
)

const exploreStairs = `val stairs
assign transition
val Cellar
assign destination
call explore
empty list
append "in the cellar"
assign values
call print`

// fileOptions writes a config that keeps sessions under a temp dir.
func fileOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.yaml")
	cfg := fmt.Sprintf("log:\n  level: error\nstore:\n  kind: file\n  path: %q\n", filepath.Join(dir, "sessions"))
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return Options{ConfigPath: path}
}

func TestExecute_ResumesSession(t *testing.T) {
	ctx := context.Background()
	opts := fileOptions(t)

	var out bytes.Buffer
	err := Execute(ctx, RunOptions{
		Options:   opts,
		SessionID: "cave",
		Decision:  "Hall",
		Exits:     []string{"stairs"},
		Script:    exploreStairs,
		Out:       &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "in the cellar\n")
	assert.Contains(t, out.String(), ">>> Session 'cave' created.")
	assert.Contains(t, out.String(), ">>> At 'Cellar' after 2 steps.")

	out.Reset()
	err = Execute(ctx, RunOptions{
		Options:   opts,
		SessionID: "cave",
		Script:    "call stepCount",
		JSON:      true,
		Out:       &out,
	})
	require.NoError(t, err)
	var report RunReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.Created)
	assert.Equal(t, 2, report.Steps)
	assert.Equal(t, "Cellar", report.Position)
	assert.JSONEq(t, "2", string(report.Value))

	out.Reset()
	err = Execute(ctx, RunOptions{Options: opts, SessionID: "cave", Decision: "Attic", Fresh: true, JSON: true, Out: &out})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Created)
	assert.Equal(t, "Attic", report.Position)
}

func TestExecute_StartsOnMap(t *testing.T) {
	opts := fileOptions(t)
	mapPath := filepath.Join(t.TempDir(), "house.dot")
	require.NoError(t, os.WriteFile(mapPath, []byte("digraph {\n Hall -> Cellar [fullLabel=stairs]\n}\n"), 0o644))

	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Options:  opts,
		Decision: "Hall",
		MapPath:  mapPath,
		Script:   "val stairs\nassign transition\ncall retrace",
		JSON:     true,
		Out:      &out,
	})
	require.NoError(t, err)
	var report RunReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "Cellar", report.Position)
	assert.Equal(t, 2, report.Steps)
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()
	opts := fileOptions(t)

	tests := []struct {
		name string
		opts RunOptions
	}{
		{"bad script", RunOptions{Options: opts, Decision: "Hall", Script: "nonsense here"}},
		{"missing config", RunOptions{Options: Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")}}},
		{"unknown store", RunOptions{Options: Options{ConfigPath: opts.ConfigPath, StoreKind: "floppy"}}},
		{"missing map", RunOptions{Options: opts, Decision: "Hall", MapPath: filepath.Join(t.TempDir(), "none.dot")}},
		{"map without format", RunOptions{Options: opts, Decision: "Hall", MapPath: "house.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Out = &bytes.Buffer{}
			assert.Error(t, Execute(ctx, tt.opts))
		})
	}
}

func TestExecute_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.yaml")
	cfg := fmt.Sprintf("log:\n  level: error\nstore:\n  kind: redis\n  redis:\n    addr: %s\n    ttl: 1h\n", mr.Addr())
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Options:   Options{ConfigPath: path},
		SessionID: "r1",
		Decision:  "Hall",
		Exits:     []string{"stairs"},
		Script:    exploreStairs,
		Out:       &out,
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("journey:session:r1"))
	assert.False(t, mr.Exists("journey:session:lock:r1"))
}

func TestExecute_EncryptedStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.yaml")
	cfg := fmt.Sprintf("log:\n  level: error\nstore:\n  kind: file\n  path: %q\n  encryption_key: %s\n",
		filepath.Join(dir, "sessions"), base64.StdEncoding.EncodeToString(make([]byte, 32)))
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	opts := Options{ConfigPath: path}

	ctx := context.Background()
	require.NoError(t, Execute(ctx, RunOptions{
		Options:   opts,
		SessionID: "sealed",
		Decision:  "Hall",
		Exits:     []string{"stairs"},
		Script:    exploreStairs,
		Out:       &bytes.Buffer{},
	}))

	raw, err := os.ReadFile(filepath.Join(dir, "sessions", "sealed.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Cellar")

	var out bytes.Buffer
	require.NoError(t, Execute(ctx, RunOptions{Options: opts, SessionID: "sealed", Script: "call stepCount", JSON: true, Out: &out}))
	var report RunReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "Cellar", report.Position)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	opts := fileOptions(t)
	for _, id := range []string{"b", "a"} {
		require.NoError(t, Execute(ctx, RunOptions{
			Options: opts, SessionID: id, Decision: "Hall", Exits: []string{"stairs"}, Script: exploreStairs, Out: &bytes.Buffer{},
		}))
	}

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, opts, &out))
	assert.Equal(t, "- a\n- b\n", out.String())

	out.Reset()
	require.NoError(t, InspectSession(ctx, opts, "a", &out))
	x, err := codec.DecodeExploration(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, x.Len())

	out.Reset()
	require.NoError(t, ShowSession(ctx, opts, "a", true, &out))
	assert.Contains(t, out.String(), "| 1 | stairs | Cellar |")

	out.Reset()
	require.NoError(t, ShowSession(ctx, opts, "a", false, &out))
	assert.Contains(t, out.String(), "Cellar")

	out.Reset()
	require.NoError(t, ExportGraph(ctx, GraphOptions{Options: opts, SessionID: "a", Step: -1, Format: FormatMermaid}, &out))
	assert.Contains(t, out.String(), "class d1 current;")

	out.Reset()
	require.NoError(t, ExportGraph(ctx, GraphOptions{Options: opts, SessionID: "a", Step: 0, Format: FormatDOT}, &out))
	assert.NotContains(t, out.String(), "Cellar")

	assert.Error(t, ExportGraph(ctx, GraphOptions{Options: opts, SessionID: "a", Step: 5, Format: FormatDOT}, &out))

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, opts, []string{"a"}, &out))
	assert.Equal(t, "Removed session 'a'\n", out.String())
	assert.Error(t, InspectSession(ctx, opts, "a", &out))
}

func TestConvert(t *testing.T) {
	const source = `digraph {
	A -> B [fullLabel=on reciprocal=off]
	B -> A [fullLabel=off reciprocal=on]
}`
	var asJSON bytes.Buffer
	require.NoError(t, Convert(strings.NewReader(source), &asJSON, FormatDOT, FormatJSON))

	var asDOT bytes.Buffer
	require.NoError(t, Convert(&asJSON, &asDOT, FormatJSON, FormatDOT))
	assert.Contains(t, asDOT.String(), "A -> B")

	var asMermaid bytes.Buffer
	require.NoError(t, Convert(strings.NewReader(source), &asMermaid, FormatDOT, FormatMermaid))
	assert.Contains(t, asMermaid.String(), `d0 -- "on" --> d1`)

	assert.Error(t, Convert(strings.NewReader(source), &bytes.Buffer{}, FormatMermaid, FormatDOT))
	assert.Error(t, Convert(strings.NewReader(source), &bytes.Buffer{}, FormatDOT, "svg"))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"world.json", FormatJSON, false},
		{"world.DOT", FormatDOT, false},
		{"world.gv", FormatDOT, false},
		{"out.mmd", FormatMermaid, false},
		{"world.txt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	g, err := Validate(strings.NewReader("digraph { A -> B [fullLabel=on] }"), FormatDOT)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	_, err = Validate(strings.NewReader("digraph { A -> }"), FormatDOT)
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var out bytes.Buffer
	go func() {
		done <- Serve(ctx, ServeOptions{Options: fileOptions(t), Listener: ln, Out: &out})
	}()

	base := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/sessions", "application/json", strings.NewReader(`{"id":"s","decision":"Hall"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), `journey_steps_total{op="start"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMCP(t *testing.T) {
	err := MCP(context.Background(), MCPOptions{Options: fileOptions(t), Transport: "websocket"})
	assert.ErrorContains(t, err, `unknown transport "websocket"`)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err = MCP(ctx, MCPOptions{Options: fileOptions(t), Transport: "SSE", Addr: "127.0.0.1:0"})
	assert.NoError(t, err)
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, baseURL(tt.addr))
		})
	}
}
