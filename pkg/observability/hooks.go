// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about map store operations and route queries.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Tracing is separate: [InitTracing] installs an OpenTelemetry tracer
// provider, and instrumented code starts spans via [Tracer].
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&logStoreHooks{logger})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	snap, err := store.Load(ctx, name)
//	observability.Store().OnLoad(ctx, backend, name, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from map store operations.
type StoreHooks interface {
	// OnLoad records a map load.
	OnLoad(ctx context.Context, backend, name string, duration time.Duration, err error)

	// OnSave records a map save of the given number of locations.
	OnSave(ctx context.Context, backend, name string, locations int, duration time.Duration, err error)

	// OnList records a listing of stored maps.
	OnList(ctx context.Context, backend string, count int, duration time.Duration, err error)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from route and resource queries.
type QueryHooks interface {
	// OnPath records a shortest-path query. steps is -1 when no path exists.
	OnPath(ctx context.Context, from, to string, steps int, duration time.Duration)

	// OnNearest records a nearest-resource query. location is "" when
	// nothing was found.
	OnNearest(ctx context.Context, tag, from, location string, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnList(context.Context, string, int, time.Duration, error)         {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnPath(context.Context, string, string, int, time.Duration)       {}
func (NoopQueryHooks) OnNearest(context.Context, string, string, string, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks StoreHooks = NoopStoreHooks{}
	queryHooks QueryHooks = NoopQueryHooks{}
	hooksMu    sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetQueryHooks registers custom query hooks.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	queryHooks = NoopQueryHooks{}
}
