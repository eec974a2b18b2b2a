package memory_test

import (
	"testing"

	"github.com/aretw0/journey/pkg/adapters/memory"
	"github.com/aretw0/journey/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunExplorationStoreContract(t, store)
}
