package generator

import (
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/extract"
	"github.com/conduit-lang/fixtures/pkg/nullpolicy"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// DefaultMaxDepth bounds nesting of composite values such as pointers to
// structs that point back to themselves.
const DefaultMaxDepth = 4

// Env is what a generator sees while producing a value: the registries to
// recurse into, the null policy and the random source.
type Env struct {
	Generators   *Registry
	Extractors   *extract.Registry
	Introspector *constraint.Introspector
	Nulls        nullpolicy.Decider
	Rand         *rand.Rand
	Logger       *zap.Logger
	MaxDepth     int
	// MaxSize caps open collection size ranges above their minimum.
	MaxSize int
	// MaxLength caps open string length ranges above their minimum.
	MaxLength int
	// Groups are the validation groups composite generators activate for
	// the elements they fill. Empty means constraint.Default.
	Groups []constraint.Group

	depth int
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithIntrospector sets the constraint introspector.
func WithIntrospector(in *constraint.Introspector) EnvOption {
	return func(e *Env) { e.Introspector = in }
}

// WithNulls sets the null policy.
func WithNulls(d nullpolicy.Decider) EnvOption {
	return func(e *Env) { e.Nulls = d }
}

// WithSeed makes random generation reproducible.
func WithSeed(seed uint64) EnvOption {
	return func(e *Env) { e.Rand = NewRand(seed) }
}

// WithEnvLogger sets the logger.
func WithEnvLogger(logger *zap.Logger) EnvOption {
	return func(e *Env) { e.Logger = logger }
}

// WithGroups sets the validation groups active for nested elements.
func WithGroups(groups ...constraint.Group) EnvOption {
	return func(e *Env) { e.Groups = append([]constraint.Group(nil), groups...) }
}

// WithMaxDepth bounds composite nesting.
func WithMaxDepth(depth int) EnvOption {
	return func(e *Env) { e.MaxDepth = depth }
}

// WithMaxSize caps how far collection sizes may exceed their minimum.
func WithMaxSize(n int) EnvOption {
	return func(e *Env) { e.MaxSize = n }
}

// WithMaxLength caps how far string lengths may exceed their minimum.
func WithMaxLength(n int) EnvOption {
	return func(e *Env) { e.MaxLength = n }
}

// NewEnv creates an environment over the given registries.
func NewEnv(generators *Registry, extractors *extract.Registry, opts ...EnvOption) *Env {
	e := &Env{
		Generators: generators,
		Extractors: extractors,
		Nulls:      nullpolicy.Probability(nullpolicy.DefaultProbability),
		MaxDepth:   DefaultMaxDepth,
		MaxSize:    params.DefaultMaxSize,
		MaxLength:  params.DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Introspector == nil {
		e.Introspector = constraint.NewIntrospector(nil)
	}
	if e.Rand == nil {
		e.Rand = NewRand(rand.Uint64())
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	return e
}

// NewRand returns a random source safe for concurrent use.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)})
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// ShouldBeNull asks the null policy for a decision.
func (e *Env) ShouldBeNull() bool {
	if e.Nulls == nil {
		return false
	}
	return e.Nulls.ShouldBeNull(e.Rand)
}

// Nested returns the environment for generating a component one level down.
func (e *Env) Nested() *Env {
	nested := *e
	nested.depth++
	return &nested
}

// Depth is the current nesting level.
func (e *Env) Depth() int {
	return e.depth
}

// Exhausted reports whether composite generators should stop descending.
func (e *Env) Exhausted() bool {
	return e.MaxDepth > 0 && e.depth >= e.MaxDepth
}

// DefaultValue resolves a generator for t and returns its default value.
// Parameterizable generators receive sources.
func (e *Env) DefaultValue(t valuetype.Type, sources ...any) (any, error) {
	return e.produce(t, false, false, sources)
}

// RandomValue resolves a generator for t and returns a random value.
func (e *Env) RandomValue(t valuetype.Type, sources ...any) (any, error) {
	return e.produce(t, true, false, sources)
}

// NullableDefaultValue is DefaultValue that may return nil when the
// parameters built from sources allow it.
func (e *Env) NullableDefaultValue(t valuetype.Type, sources ...any) (any, error) {
	return e.produce(t, false, true, sources)
}

// NullableRandomValue is RandomValue that may return nil.
func (e *Env) NullableRandomValue(t valuetype.Type, sources ...any) (any, error) {
	return e.produce(t, true, true, sources)
}

func (e *Env) produce(t valuetype.Type, random, nullable bool, sources []any) (any, error) {
	if e.Generators == nil {
		return nil, errors.IllegalArgument("environment has no generator registry")
	}
	return invoke(e, e.Generators.Resolve(t), t, random, nullable, sources)
}

// invoke runs g for t, building parameters from sources when g is
// parameterizable. Simple generators ignore sources; their nullability is
// read from params.BasicType folded from the same sources.
func invoke(env *Env, g Generator, t valuetype.Type, random, nullable bool, sources []any) (any, error) {
	if m, ok := g.(*missing); ok {
		return nil, m.notFound()
	}

	pg, parameterizable := g.(Parameterizable)

	if !parameterizable {
		if nullable {
			p, err := BuildParameters(env, params.BasicType, sources...)
			if err != nil {
				return nil, err
			}
			if AllowsNull(p) && env.ShouldBeNull() {
				return nil, nil
			}
		}
		if random {
			return g.Random(env, t)
		}
		return g.Default(env, t)
	}

	p, err := BuildParameters(env, pg.ParametersType(), sources...)
	if err != nil {
		return nil, err
	}
	switch {
	case nullable && random:
		return NullableRandomWith(env, pg, t, p)
	case nullable:
		return NullableDefaultWith(env, pg, t, p)
	case random:
		return pg.RandomWith(env, t, p)
	default:
		return pg.DefaultWith(env, t, p)
	}
}
