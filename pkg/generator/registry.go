package generator

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/internal/registry"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Discoverer enumerates the default generators.
type Discoverer func() []Generator

// Registry holds the working set of generators, sorted by descending
// priority, and memoizes the generator chosen for each value type.
type Registry struct {
	working *registry.Working[Generator, Generator]
	logger  *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger; the default discards.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry whose defaults come from discover. Discovery
// runs on first use and again after Reset.
func NewRegistry(discover Discoverer, opts ...RegistryOption) *Registry {
	r := &Registry{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.working = registry.New[Generator, Generator]("generator", registry.Discoverer[Generator](discover), r.logger)
	return r
}

// Resolve returns the highest priority generator supporting t. When none
// does, it returns a generator whose every operation fails with
// ErrGeneratorNotFound.
func (r *Registry) Resolve(t valuetype.Type) Generator {
	if g, ok := r.Lookup(t); ok {
		return g
	}
	return &missing{t: t}
}

// Lookup is Resolve without the failing placeholder.
func (r *Registry) Lookup(t valuetype.Type) (Generator, bool) {
	if t.IsZero() {
		return nil, false
	}

	g, ok := r.working.Resolve(t.ID(), func(items []Generator) (Generator, bool) {
		for _, g := range items {
			if g.Supports(t) {
				return g, true
			}
		}
		return nil, false
	})
	if !ok {
		r.logger.Debug("no generator supports type", zap.Stringer("type", t))
	}
	return g, ok
}

// Register adds generators. Nil elements fail with ErrIllegalArgument; no
// arguments is a no-op.
func (r *Registry) Register(generators ...Generator) error {
	if generators == nil {
		generators = []Generator{}
	}
	return r.RegisterAll(generators)
}

// RegisterAll adds generators. A nil slice or nil element fails with
// ErrIllegalArgument; an empty slice is a no-op.
func (r *Registry) RegisterAll(generators []Generator) error {
	return r.working.Add(generators)
}

// Remove drops one registered copy per argument, matched by dynamic type.
func (r *Registry) Remove(generators ...Generator) error {
	if generators == nil {
		generators = []Generator{}
	}
	return r.RemoveAll(generators)
}

// RemoveAll is Remove with an explicit collection; nil fails.
func (r *Registry) RemoveAll(generators []Generator) error {
	return r.working.Remove(generators)
}

// Reset drops registrations and cached resolutions; defaults are
// rediscovered on next use.
func (r *Registry) Reset() {
	r.working.Reset()
}

// Generators returns a read-only view of the working set in resolution
// order.
func (r *Registry) Generators() List {
	return List{items: r.working.Snapshot()}
}

// Cached reports whether a resolution for t is memoized.
func (r *Registry) Cached(t valuetype.Type) bool {
	return r.working.Cached(t.ID())
}

// List is a read-only view of generators.
type List struct {
	items []Generator
}

// Len returns the number of generators.
func (l List) Len() int { return len(l.items) }

// At returns the i-th generator.
func (l List) At(i int) Generator { return l.items[i] }

// All iterates the generators in order.
func (l List) All() func(yield func(int, Generator) bool) {
	return func(yield func(int, Generator) bool) {
		for i, g := range l.items {
			if !yield(i, g) {
				return
			}
		}
	}
}

// missing stands in for an unresolvable type.
type missing struct {
	t valuetype.Type
}

// IsMissing reports whether g is the placeholder Resolve returns for
// unsupported types.
func IsMissing(g Generator) bool {
	_, ok := g.(*missing)
	return ok
}

func (m *missing) notFound() error {
	return errors.WithHint(
		errors.Wrapf(errors.ErrGeneratorNotFound, "no generator supports %s", m.t),
		"register a generator whose Supports accepts this type",
	)
}

func (m *missing) Supports(valuetype.Type) bool { return false }

func (m *missing) Default(*Env, valuetype.Type) (any, error) {
	return nil, m.notFound()
}

func (m *missing) Random(*Env, valuetype.Type) (any, error) {
	return nil, m.notFound()
}
