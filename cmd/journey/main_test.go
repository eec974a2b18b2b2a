package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey"
)

// run executes the root command with args, capturing stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "journey.yaml")
	cfg := fmt.Sprintf("log:\n  level: error\nstore:\n  kind: file\n  path: %q\n", filepath.Join(dir, "sessions"))
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path, dir
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "journey version "+strings.TrimSpace(journey.Version)+"\n", out)
}

func TestRunAndSession(t *testing.T) {
	cfg, dir := writeConfig(t)
	script := filepath.Join(dir, "walk.txt")
	require.NoError(t, os.WriteFile(script, []byte("val stairs\nassign transition\nval Cellar\nassign destination\ncall explore\n"), 0o644))

	out, err := run(t, "", "run", "--config", cfg, "--session", "cave", "--start", "Hall", "--exit", "stairs", script)
	require.NoError(t, err)
	assert.Contains(t, out, ">>> At 'Cellar' after 2 steps.")

	out, err = run(t, "call stepCount\n", "run", "--config", cfg, "--session", "cave", "--json", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"steps":2`)
	assert.Contains(t, out, `"value":2`)

	out, err = run(t, "", "session", "ls", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "- cave\n", out)

	out, err = run(t, "", "session", "show", "cave", "--markdown", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "# Session `cave`")

	out, err = run(t, "", "graph", "cave", "--config", cfg, "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")

	out, err = run(t, "", "session", "rm", "cave", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'cave'")

	_, err = run(t, "", "session", "inspect", "cave", "--config", cfg)
	assert.Error(t, err)
}

func TestRun_ExecAndFileConflict(t *testing.T) {
	cfg, _ := writeConfig(t)
	_, err := run(t, "", "run", "--config", cfg, "--exec", "val 1", "script.txt")
	assert.ErrorContains(t, err, "cannot be used together")
	// Flag values persist on the shared command; clear them.
	require.NoError(t, runCmd.Flags().Set("exec", ""))
}

func TestConvertAndValidate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "world.dot")
	require.NoError(t, os.WriteFile(src, []byte("digraph { A -> B [fullLabel=on] }"), 0o644))

	dst := filepath.Join(dir, "world.json")
	_, err := run(t, "", "convert", src, dst)
	require.NoError(t, err)

	out, err := run(t, "", "validate", dst)
	require.NoError(t, err)
	assert.Equal(t, "Graph is valid: 2 decisions, 1 transitions.\n", out)

	out, err = run(t, "", "convert", "--to", "mermaid", dst, "-")
	require.NoError(t, err)
	assert.Contains(t, out, `d0 -- "on" --> d1`)
	require.NoError(t, convertCmd.Flags().Set("to", ""))

	_, err = run(t, "", "convert", src, filepath.Join(dir, "world.txt"))
	assert.Error(t, err)
}
