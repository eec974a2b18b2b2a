package tui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/exploration"
)

func sampleExploration(t *testing.T) *exploration.Exploration {
	t.Helper()
	ctx := context.Background()
	x := exploration.New()
	require.NoError(t, x.Start(ctx, "Hall", exploration.StartOptions{Exits: []string{"stairs"}}))
	_, err := x.Explore(ctx, "stairs", "Cellar")
	require.NoError(t, err)
	require.NoError(t, x.TagStep("dark", true))
	require.NoError(t, x.AnnotateStep("smells | damp"))
	cur, err := x.Current()
	require.NoError(t, err)
	cur.State.GainPower("sight")
	cur.State.AdjustTokens("coin", 3)
	return x
}

func TestSessionReport(t *testing.T) {
	md := SessionReport("cave", sampleExploration(t))

	assert.Contains(t, md, "# Session `cave`")
	assert.Contains(t, md, "**Position:** Cellar | **Steps:** 2 | **Decisions:** 2")
	assert.Contains(t, md, "| 0 |  | Hall |  |  |  |")
	assert.Contains(t, md, "| 1 | stairs | Cellar | sight | coin:3 | dark=true |")
	assert.Contains(t, md, "- smells | damp")
}

func TestSessionReport_NotStarted(t *testing.T) {
	md := SessionReport("empty", exploration.New())
	assert.Contains(t, md, "_Not started._")
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer()
	require.NoError(t, err)

	out, err := render(SessionReport("cave", sampleExploration(t)))
	require.NoError(t, err)
	assert.Contains(t, out, "Cellar")
	assert.Contains(t, out, "stairs")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[", "no colors outside a terminal")
}
