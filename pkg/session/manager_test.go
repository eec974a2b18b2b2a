package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/adapters/redis"
	"github.com/aretw0/journey/pkg/domain"
	"github.com/aretw0/journey/pkg/exploration"
	"github.com/aretw0/journey/pkg/graph"
	"github.com/aretw0/journey/pkg/ports"
	"github.com/aretw0/journey/pkg/session"
)

// slowStore adds latency so missing locks would lose updates.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Load(ctx context.Context, id string) (*exploration.Exploration, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s slowStore) Save(ctx context.Context, id string, x *exploration.Exploration) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, id, x)
}

func observe(name string) func(context.Context, *exploration.Exploration) error {
	return func(ctx context.Context, x *exploration.Exploration) error {
		_, err := x.Observe(ctx, name, graph.UnexploredOptions{})
		return err
	}
}

func TestManager_UpdateSerialises(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, err := manager.LoadOrStart(ctx, id, "Hall")
	require.NoError(t, err)

	var wg sync.WaitGroup
	const writers = 10
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, observe(fmt.Sprintf("door%d", i)))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	x, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1+writers, x.Len(), "every update must survive")
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x, err := manager.LoadOrStart(ctx, id, "start")
			assert.NoError(t, err)
			assert.Equal(t, 1, x.Len())
		}()
	}
	wg.Wait()

	x, err := manager.Load(ctx, id)
	require.NoError(t, err)
	pos, err := x.Position()
	require.NoError(t, err)
	assert.Equal(t, "start", pos)

	empty, err := manager.LoadOrStart(ctx, "blank", "")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestManager_UpdateFailureSavesNothing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	_, err := manager.LoadOrStart(ctx, "s", "Hall")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = manager.Update(ctx, "s", func(ctx context.Context, x *exploration.Exploration) error {
		if err := observe("door")(ctx, x); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	x, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, x.Len())

	_, err = manager.Update(ctx, "missing", observe("door"))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_Create(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	start := func(ctx context.Context, x *exploration.Exploration) error {
		return x.Start(ctx, "Hall", exploration.StartOptions{})
	}
	x, err := manager.Create(ctx, "s", start)
	require.NoError(t, err)
	assert.Equal(t, 1, x.Len())

	_, err = manager.Create(ctx, "s", start)
	assert.ErrorIs(t, err, domain.ErrSessionExists)

	boom := errors.New("boom")
	_, err = manager.Create(ctx, "failed", func(context.Context, *exploration.Exploration) error { return boom })
	assert.ErrorIs(t, err, boom)
	_, err = manager.Load(ctx, "failed")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	blank, err := manager.Create(ctx, "blank", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, blank.Len())
}

func TestManager_AppliesExplorationOptions(t *testing.T) {
	var steps []string
	hooks := domain.LifecycleHooks{
		OnStep: func(_ context.Context, ev *domain.StepEvent) { steps = append(steps, ev.Op) },
	}
	manager := session.NewManager(memory.NewStore(),
		session.WithExplorationOptions(exploration.WithLifecycleHooks(hooks)))
	ctx := context.Background()

	_, err := manager.LoadOrStart(ctx, "s", "Hall")
	require.NoError(t, err)
	_, err = manager.Update(ctx, "s", observe("door"))
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "observe"}, steps)
}

type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	ttls []time.Duration
}

func (l *recordingLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	return func(context.Context) error { return errors.New("already expired") }, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(locker), session.WithLockTTL(time.Minute))

	require.NoError(t, manager.Save(context.Background(), "s", exploration.New()))
	assert.Equal(t, []string{"s"}, locker.keys)
	assert.Equal(t, []time.Duration{time.Minute}, locker.ttls)
}

func TestManager_RedisLockAcrossManagers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	a := session.NewManager(store, session.WithLocker(redis.NewLocker(client, "test:")))
	b := session.NewManager(store, session.WithLocker(redis.NewLocker(client, "test:")))
	ctx := context.Background()

	_, err := a.LoadOrStart(ctx, "shared", "Hall")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i, m := range []*session.Manager{a, b, a, b} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Update(ctx, "shared", observe(fmt.Sprintf("door%d", i)))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	x, err := a.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, 5, x.Len())
	assert.False(t, mr.Exists("test:lock:shared"))
}
