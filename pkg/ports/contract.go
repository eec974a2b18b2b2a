package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/graph"
)

// RunExplorationStoreContract verifies that an ExplorationStore behaves as
// the interface documents.
func RunExplorationStoreContract(t *testing.T, store ExplorationStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		x := sampleExploration(t)

		require.NoError(t, store.Save(ctx, sessionID, x))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		require.Equal(t, x.Len(), loaded.Len())
		for i := range x.Len() {
			want, _ := x.Situation(i)
			got, _ := loaded.Situation(i)
			assert.True(t, want.Equal(got), "step %d differs", i)
		}
		pos, err := loaded.Position()
		require.NoError(t, err)
		assert.Equal(t, "Cellar", pos)
	})

	t.Run("Load is isolated", func(t *testing.T) {
		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		_, err = first.Observe(ctx, "crack", graph.UnexploredOptions{})
		require.NoError(t, err)

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, first.Len()-1, second.Len())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, exploration.New()))

		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, exploration.New()))
		require.NoError(t, store.Save(ctx, id2, exploration.New()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

func sampleExploration(t *testing.T) *exploration.Exploration {
	t.Helper()
	ctx := context.Background()
	x := exploration.New()
	require.NoError(t, x.Start(ctx, "Hall", exploration.StartOptions{}))
	_, err := x.Observe(ctx, "stairs", graph.UnexploredOptions{})
	require.NoError(t, err)
	_, err = x.Explore(ctx, "stairs", "Cellar", exploration.Connection{Transition: "up", Destination: "Hall"})
	require.NoError(t, err)
	require.NoError(t, x.TagStep("dark", true))
	require.NoError(t, x.AnnotateStep("smells damp"))
	return x
}
