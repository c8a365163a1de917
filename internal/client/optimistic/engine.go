// Package optimistic implements the apply/confirm/rollback protocol behind
// every "instant feedback, eventual consistency" interaction of the client:
// the local mutation is applied before the network call resolves, kept when
// the server confirms, and reverted to the exact captured prior value when
// the server rejects or the transport fails.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when a mutation for the same resource key is
// already outstanding. The duplicate is not applied and not queued; callers
// treat it as an ignored repeat click.
var ErrInFlight = errors.New("mutation already in flight")

// Mutation describes one optimistic state change.
//
// Apply performs the local mutation synchronously. Restore must put back the
// exact value captured before Apply ran (not a recomputed default), so that
// a rollback never disturbs unrelated state. Commit issues the network call;
// any non-nil error triggers Restore.
type Mutation struct {
	Apply   func()
	Restore func()
	Commit  func(ctx context.Context) error
}

// Engine serializes optimistic mutations per resource key. Keys name one
// logical resource, e.g. "follow:42", "notification:7", "trade:t-19".
type Engine struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewEngine() *Engine {
	return &Engine{inFlight: make(map[string]struct{})}
}

// InFlight reports whether a mutation for key is currently outstanding.
// UIs use it to disable the corresponding control.
func (e *Engine) InFlight(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.inFlight[key]
	return ok
}

// Run executes one optimistic mutation for the given key.
//
// The local mutation is applied before Commit is issued, so the next render
// reflects the user's intent without waiting on the network. On commit
// failure the pre-mutation value is restored and the error is returned for
// user-visible messaging; nothing is retried.
//
// At most one mutation per key may be in flight: a concurrent Run for the
// same key returns ErrInFlight without touching state.
func (e *Engine) Run(ctx context.Context, key string, m Mutation) error {
	e.mu.Lock()
	if _, ok := e.inFlight[key]; ok {
		e.mu.Unlock()
		return ErrInFlight
	}
	e.inFlight[key] = struct{}{}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inFlight, key)
		e.mu.Unlock()
	}()

	if m.Apply != nil {
		m.Apply()
	}

	if err := m.Commit(ctx); err != nil {
		if m.Restore != nil {
			m.Restore()
		}
		return err
	}
	return nil
}
