// Package middleware decorates exploration stores.
package middleware

import "github.com/aretw0/journey/pkg/ports"

// Middleware allows wrapping an ExplorationStore to add behavior.
type Middleware func(ports.ExplorationStore) ports.ExplorationStore

// Chain wraps store with mws, the first one outermost.
func Chain(store ports.ExplorationStore, mws ...Middleware) ports.ExplorationStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
