// Package observability lets setgrid report what its stages are doing
// without depending on a metrics backend.
//
// The layout, color and cache packages call the registered hooks; the
// defaults do nothing. Binaries choose an implementation at startup, for
// example the logging hooks from [NewLogHooks]:
//
//	observability.Install(observability.NewLogHooks(logger))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout pipeline.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, mode string, entityCount int)
	OnLayoutComplete(ctx context.Context, mode string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Color Hooks
// =============================================================================

// ColorHooks receives events from the color assigner.
type ColorHooks interface {
	// OnAnnealComplete records a finished annealing session.
	OnAnnealComplete(ctx context.Context, entityCount, iterations int, energy float64, duration time.Duration)

	// OnReoptimize records whether a re-run improved on the stored energy.
	OnReoptimize(ctx context.Context, previous, found float64, improved bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopLayoutHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopLayoutHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopColorHooks is a no-op implementation of ColorHooks.
type NoopColorHooks struct{}

func (NoopColorHooks) OnAnnealComplete(context.Context, int, int, float64, time.Duration) {}
func (NoopColorHooks) OnReoptimize(context.Context, float64, float64, bool)               {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	colorHooks  ColorHooks  = NoopColorHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetColorHooks registers custom color hooks.
func SetColorHooks(h ColorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		colorHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Color returns the registered color hooks.
func Color() ColorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return colorHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Install registers h for every hook category it implements and returns
// a function that restores the previous hooks.
func Install(h any) (restore func()) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prevLayout, prevColor, prevCache := layoutHooks, colorHooks, cacheHooks
	if l, ok := h.(LayoutHooks); ok {
		layoutHooks = l
	}
	if c, ok := h.(ColorHooks); ok {
		colorHooks = c
	}
	if c, ok := h.(CacheHooks); ok {
		cacheHooks = c
	}
	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		layoutHooks, colorHooks, cacheHooks = prevLayout, prevColor, prevCache
	}
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	colorHooks = NoopColorHooks{}
	cacheHooks = NoopCacheHooks{}
}
