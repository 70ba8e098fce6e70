// Package middleware wraps a ports.StateStore with cross-cutting persistence behavior:
// encryption at rest and redaction of personal data in stored messages.
package middleware

import "github.com/aretw0/concierge/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.StateStore, mws ...Middleware) ports.StateStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
