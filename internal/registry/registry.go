// Package registry maps pools to their volatility feed bindings.
package registry

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"volfee/internal/model"
)

// ErrNotConfigured is returned when removing a binding for a pool that
// has none.
var ErrNotConfigured = errors.New("registry: pool not configured")

// Registry holds per-pool feed bindings. A binding is replaced wholesale
// under the lock, so a concurrent reader observes either the old pair or
// the new pair, never a mix.
type Registry struct {
	mu   sync.RWMutex
	data map[common.Address]model.FeedBinding
}

func New() *Registry {
	return &Registry{data: make(map[common.Address]model.FeedBinding)}
}

// Set upserts the binding for a pool, overwriting any existing one.
func (r *Registry) Set(pool common.Address, binding model.FeedBinding) {
	r.mu.Lock()
	r.data[pool] = binding
	r.mu.Unlock()
}

// Get returns the binding for a pool, if configured.
func (r *Registry) Get(pool common.Address) (model.FeedBinding, bool) {
	r.mu.RLock()
	binding, ok := r.data[pool]
	r.mu.RUnlock()
	return binding, ok
}

// Delete removes the binding for a pool. It fails with ErrNotConfigured if
// the pool has no binding.
func (r *Registry) Delete(pool common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[pool]; !ok {
		return ErrNotConfigured
	}
	delete(r.data, pool)
	return nil
}

// Snapshot returns a copy of all bindings keyed by pool.
func (r *Registry) Snapshot() map[common.Address]model.FeedBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[common.Address]model.FeedBinding, len(r.data))
	for pool, binding := range r.data {
		out[pool] = binding
	}
	return out
}
