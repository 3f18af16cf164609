// Package store holds the console's client-side state: the datasource
// catalog with its cascading selection state, and the query state with its
// history and remote-object catalogs. Stores are explicit state containers;
// views subscribe for change notification and read state through accessors.
package store

import (
	"errors"
	"sync"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

// Listener is invoked after a store mutation. Callbacks run on the mutating
// goroutine and must not call back into the store.
type Listener func()

type notifier struct {
	lmu       sync.Mutex
	listeners []Listener
}

// Subscribe registers a change listener. Listeners cannot be removed; stores
// are process-wide singletons that live for the whole run.
func (n *notifier) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	n.lmu.Lock()
	n.listeners = append(n.listeners, fn)
	n.lmu.Unlock()
}

func (n *notifier) notify() {
	n.lmu.Lock()
	fns := make([]Listener, len(n.listeners))
	copy(fns, n.listeners)
	n.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// errMessage normalizes a client error into the single message string stores
// expose. Server-provided detail wins; fallback covers ops whose contract
// asks for a generic message instead of the raw transport error.
func errMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
