// Package registry provides the priority-ordered, lazily discovered working
// set shared by the generator and extractor registries, together with the
// resolution cache that must stay consistent with it.
package registry

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/priority"
)

// Discoverer enumerates the default plugins. It is called lazily on first
// access and again after every Reset.
type Discoverer[T any] func() []T

// Working is a priority-sorted list of plugins plus a memoization table of
// resolutions computed against that exact list. Every mutation clears the
// table inside the same critical section.
type Working[T any, V any] struct {
	mu       sync.RWMutex
	discover Discoverer[T]
	items    []T
	loaded   bool
	cache    map[string]V

	kind   string
	logger *zap.Logger
}

// New creates a working set. kind names the plugin kind in logs and errors.
func New[T any, V any](kind string, discover Discoverer[T], logger *zap.Logger) *Working[T, V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Working[T, V]{
		discover: discover,
		cache:    make(map[string]V),
		kind:     kind,
		logger:   logger,
	}
}

// loadLocked populates the list from discovery. The discovered slice is
// copied so later mutations never touch it. Caller holds the write lock.
func (w *Working[T, V]) loadLocked() {
	if w.loaded {
		return
	}

	var discovered []T
	if w.discover != nil {
		discovered = w.discover()
	}

	items := make([]T, 0, len(discovered))
	for _, item := range discovered {
		if IsNil(item) {
			continue
		}
		items = append(items, item)
	}
	priority.SortStable(items)

	w.items = items
	w.loaded = true
	w.logger.Debug("loaded default plugins",
		zap.String("kind", w.kind),
		zap.Int("count", len(items)),
	)
}

// Snapshot returns a copy of the sorted list.
func (w *Working[T, V]) Snapshot() []T {
	w.mu.RLock()
	if w.loaded {
		out := make([]T, len(w.items))
		copy(out, w.items)
		w.mu.RUnlock()
		return out
	}
	w.mu.RUnlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loadLocked()
	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}

// Resolve returns the cached resolution for key, computing it with build
// against the current list on a miss. Only resolutions build reports as found
// are cached.
func (w *Working[T, V]) Resolve(key string, build func(items []T) (V, bool)) (V, bool) {
	w.mu.RLock()
	if w.loaded {
		if v, ok := w.cache[key]; ok {
			w.mu.RUnlock()
			return v, true
		}
	}
	w.mu.RUnlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loadLocked()

	// Another resolver may have filled the entry while we waited.
	if v, ok := w.cache[key]; ok {
		return v, true
	}

	v, ok := build(w.items)
	if ok {
		w.cache[key] = v
	}
	w.logger.Debug("resolved",
		zap.String("kind", w.kind),
		zap.String("key", key),
		zap.Bool("found", ok),
	)
	return v, ok
}

// Cached reports whether key has a cached resolution. Used by tests and
// diagnostics.
func (w *Working[T, V]) Cached(key string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.cache[key]
	return ok
}

// Add appends items and re-sorts. A nil collection or any nil element fails
// without changing anything; an empty collection is a no-op.
func (w *Working[T, V]) Add(items []T) error {
	if items == nil {
		return errors.IllegalArgument("%s collection is nil", w.kind)
	}
	if err := w.checkElements(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loadLocked()

	next := make([]T, 0, len(w.items)+len(items))
	next = append(next, w.items...)
	next = append(next, items...)
	priority.SortStable(next)

	w.items = next
	w.invalidateLocked("register")
	return nil
}

// Remove drops one matching entry per item. Matching is by dynamic type, see
// Same. Items not present are ignored.
func (w *Working[T, V]) Remove(items []T) error {
	if items == nil {
		return errors.IllegalArgument("%s collection is nil", w.kind)
	}
	if err := w.checkElements(items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loadLocked()

	next := make([]T, len(w.items))
	copy(next, w.items)
	for _, item := range items {
		for i, existing := range next {
			if Same(existing, item) {
				next = append(next[:i], next[i+1:]...)
				break
			}
		}
	}

	w.items = next
	w.invalidateLocked("remove")
	return nil
}

// Reset discards registrations and cached resolutions. Defaults are
// rediscovered on next access.
func (w *Working[T, V]) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = nil
	w.loaded = false
	w.invalidateLocked("reset")
}

func (w *Working[T, V]) invalidateLocked(reason string) {
	w.cache = make(map[string]V)
	w.logger.Debug("cache invalidated",
		zap.String("kind", w.kind),
		zap.String("reason", reason),
		zap.Int("plugins", len(w.items)),
	)
}

func (w *Working[T, V]) checkElements(items []T) error {
	for i, item := range items {
		if IsNil(item) {
			return errors.IllegalArgument("%s at index %d is nil", w.kind, i)
		}
	}
	return nil
}

// Identifier lets plugins sharing a Go type tell themselves apart.
type Identifier interface {
	Identity() string
}

// Same reports whether a and b denote the same plugin: equal dynamic types,
// and equal identities when both declare one.
func Same(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	ia, okA := a.(Identifier)
	ib, okB := b.(Identifier)
	if okA && okB {
		return ia.Identity() == ib.Identity()
	}
	return true
}

// IsNil reports whether v is nil or a typed nil pointer, map, slice, func or
// channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
