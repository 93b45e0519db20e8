package extract

import (
	"sort"

	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/internal/registry"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/priority"
)

// Discoverer enumerates the default extractors.
type Discoverer func() []Extractor

// Registry holds the working set of extractors and caches the ordered
// eligible extractors per parameters type.
type Registry struct {
	working *registry.Working[Extractor, []Extractor]
	logger  *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger; the default discards.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry whose defaults come from discover.
func NewRegistry(discover Discoverer, opts ...RegistryOption) *Registry {
	r := &Registry{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.working = registry.New[Extractor, []Extractor]("extractor", registry.Discoverer[Extractor](discover), r.logger)
	return r
}

// ExtractorFor returns the aggregate able to populate instances of ptype,
// bound to ptype and its factory. The extractor order is cached per Go
// parameters type until the set changes.
func (r *Registry) ExtractorFor(ptype params.Type) (*Aggregate, error) {
	if ptype.IsZero() {
		return nil, errors.IllegalArgument("parameters type is not set")
	}

	eligible, _ := r.working.Resolve(ptype.ID(), func(items []Extractor) ([]Extractor, bool) {
		return eligibleFor(ptype, items), true
	})
	return &Aggregate{ptype: ptype, extractors: eligible}, nil
}

// eligibleFor keeps the extractors whose target ptype satisfies, ordered by
// priority, then specificity, then registration order.
func eligibleFor(ptype params.Type, items []Extractor) []Extractor {
	var eligible []Extractor
	for _, e := range items {
		if ptype.AssignableTo(e.TargetType()) {
			eligible = append(eligible, e)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if c := priority.Compare(eligible[i], eligible[j]); c != 0 {
			return c < 0
		}
		return specificity(eligible[i].TargetType()) > specificity(eligible[j].TargetType())
	})

	return eligible
}

// Register adds extractors. Nil elements fail; no arguments is a no-op.
func (r *Registry) Register(extractors ...Extractor) error {
	if extractors == nil {
		extractors = []Extractor{}
	}
	return r.RegisterAll(extractors)
}

// RegisterAll adds extractors. A nil slice or nil element fails with
// ErrIllegalArgument; an empty slice is a no-op.
func (r *Registry) RegisterAll(extractors []Extractor) error {
	return r.working.Add(extractors)
}

// Remove drops one registered copy per argument.
func (r *Registry) Remove(extractors ...Extractor) error {
	if extractors == nil {
		extractors = []Extractor{}
	}
	return r.RemoveAll(extractors)
}

// RemoveAll is Remove with an explicit collection; nil fails.
func (r *Registry) RemoveAll(extractors []Extractor) error {
	return r.working.Remove(extractors)
}

// Reset drops registrations and cached aggregates; defaults are rediscovered
// on next use.
func (r *Registry) Reset() {
	r.working.Reset()
}

// Extractors returns a read-only view of the working set.
func (r *Registry) Extractors() List {
	return List{items: r.working.Snapshot()}
}

// Cached reports whether an aggregate for ptype is cached.
func (r *Registry) Cached(ptype params.Type) bool {
	return r.working.Cached(ptype.ID())
}

// List is a read-only view of extractors. It has no mutating methods.
type List struct {
	items []Extractor
}

// Len returns the number of extractors.
func (l List) Len() int { return len(l.items) }

// At returns the i-th extractor.
func (l List) At(i int) Extractor { return l.items[i] }

// All iterates the extractors in order.
func (l List) All() func(yield func(int, Extractor) bool) {
	return func(yield func(int, Extractor) bool) {
		for i, e := range l.items {
			if !yield(i, e) {
				return
			}
		}
	}
}
