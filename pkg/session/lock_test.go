package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/exploration"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := range 1000 {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, exploration.New())
		_ = mgr.Delete(ctx, sid)
	}

	assert.Empty(t, mgr.locks, "locks must be dropped once unused")
}
