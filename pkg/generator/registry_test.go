package generator

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/priority"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

type token string

var tokenType = valuetype.Of[token]()

// tokenGen supports token and reports its label as the value.
type tokenGen struct {
	label string
	p     int
	calls atomic.Int32
}

func (g *tokenGen) Supports(t valuetype.Type) bool { return t.Equal(tokenType) }
func (g *tokenGen) Priority() int                  { return g.p }

func (g *tokenGen) Default(env *Env, t valuetype.Type) (any, error) {
	g.calls.Add(1)
	return token(g.label), nil
}

func (g *tokenGen) Random(env *Env, t valuetype.Type) (any, error) {
	g.calls.Add(1)
	return token(g.label + "!"), nil
}

// urgentGen is a distinct dynamic type so it does not collide with tokenGen
// on removal.
type urgentGen struct{ tokenGen }

type anyGen struct{}

func (anyGen) Supports(valuetype.Type) bool              { return true }
func (anyGen) Priority() int                             { return priority.Min }
func (anyGen) Default(*Env, valuetype.Type) (any, error) { return "any", nil }
func (anyGen) Random(*Env, valuetype.Type) (any, error)  { return "any", nil }

func TestResolve(t *testing.T) {
	t.Run("highest priority wins", func(t *testing.T) {
		low := &tokenGen{label: "low"}
		high := &urgentGen{tokenGen{label: "high", p: priority.Max}}
		r := NewRegistry(func() []Generator { return []Generator{low, high} })

		assert.Same(t, high, r.Resolve(tokenType))
	})

	t.Run("ties resolve to first registered", func(t *testing.T) {
		first := &tokenGen{label: "first"}
		second := &urgentGen{tokenGen{label: "second"}}
		r := NewRegistry(nil)
		require.NoError(t, r.Register(first, second))

		assert.Same(t, first, r.Resolve(tokenType))
	})

	t.Run("unsupported generators are skipped", func(t *testing.T) {
		g := &tokenGen{label: "t"}
		r := NewRegistry(func() []Generator { return []Generator{anyGen{}, g} })

		assert.Same(t, g, r.Resolve(tokenType))
		assert.Equal(t, anyGen{}, r.Resolve(valuetype.Of[int]()))
	})

	t.Run("zero type is missing", func(t *testing.T) {
		r := NewRegistry(func() []Generator { return []Generator{anyGen{}} })
		_, ok := r.Lookup(valuetype.Type{})
		assert.False(t, ok)
		assert.True(t, IsMissing(r.Resolve(valuetype.Type{})))
	})
}

func TestRegisterThenRemoveRestores(t *testing.T) {
	g1 := &tokenGen{label: "g1"}
	g2 := &urgentGen{tokenGen{label: "g2", p: priority.Max}}
	r := NewRegistry(nil, WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, r.Register(g1))
	assert.Same(t, g1, r.Resolve(tokenType))

	require.NoError(t, r.Register(g2))
	assert.Same(t, g2, r.Resolve(tokenType))

	require.NoError(t, r.Remove(g2))
	assert.Same(t, g1, r.Resolve(tokenType))
}

func TestRemoveIsMultiset(t *testing.T) {
	base := &tokenGen{label: "base"}
	extra := &urgentGen{tokenGen{label: "extra", p: priority.Max}}
	r := NewRegistry(func() []Generator { return []Generator{base} })

	require.NoError(t, r.Register(extra, extra))
	require.NoError(t, r.Remove(extra))
	assert.Same(t, extra, r.Resolve(tokenType), "one copy remains")
	assert.Equal(t, 2, r.Generators().Len())

	require.NoError(t, r.Remove(extra))
	assert.Same(t, base, r.Resolve(tokenType))
}

func TestRemoveMatchesDynamicType(t *testing.T) {
	r := NewRegistry(func() []Generator { return nil })
	require.NoError(t, r.Register(Constant(1)))

	require.NoError(t, r.Remove(Constant(2)))
	assert.Equal(t, 0, r.Generators().Len())
	assert.True(t, IsMissing(r.Resolve(valuetype.Of[int]())))
}

func TestMutationClearsCache(t *testing.T) {
	base := &tokenGen{label: "base"}
	r := NewRegistry(func() []Generator { return []Generator{base} })

	r.Resolve(tokenType)
	require.True(t, r.Cached(tokenType))

	override := &urgentGen{tokenGen{label: "override", p: priority.Max}}
	require.NoError(t, r.Register(override))
	assert.False(t, r.Cached(tokenType))
	assert.Same(t, override, r.Resolve(tokenType))

	r.Reset()
	assert.False(t, r.Cached(tokenType))
	assert.Same(t, base, r.Resolve(tokenType))

	require.NoError(t, r.Remove(base))
	assert.True(t, IsMissing(r.Resolve(tokenType)))
}

func TestNotFound(t *testing.T) {
	r := NewRegistry(nil)
	env := NewEnv(r, newExtractors())

	g := r.Resolve(tokenType)
	require.True(t, IsMissing(g))
	assert.False(t, g.Supports(tokenType))

	_, err := g.Default(env, tokenType)
	assert.True(t, errors.Is(err, errors.ErrGeneratorNotFound))
	assert.NotEmpty(t, errors.GetAllHints(err))
	_, err = g.Random(env, tokenType)
	assert.True(t, errors.Is(err, errors.ErrGeneratorNotFound))

	_, err = env.NullableRandomValue(tokenType)
	assert.True(t, errors.Is(err, errors.ErrGeneratorNotFound))
	assert.False(t, r.Cached(tokenType), "misses are not cached")

	later := &tokenGen{label: "later"}
	require.NoError(t, r.Register(later))
	assert.False(t, r.Cached(tokenType), "registration alone does not populate the cache")
	assert.Same(t, later, r.Resolve(tokenType))
}

func TestRegistryArguments(t *testing.T) {
	r := NewRegistry(nil)

	assert.NoError(t, r.Register())
	assert.NoError(t, r.RegisterAll([]Generator{}))
	assert.True(t, errors.Is(r.RegisterAll(nil), errors.ErrIllegalArgument))
	assert.True(t, errors.Is(r.Register(&tokenGen{}, nil), errors.ErrIllegalArgument))
	assert.True(t, errors.Is(r.RemoveAll(nil), errors.ErrIllegalArgument))
	assert.True(t, errors.Is(r.Remove(nil), errors.ErrIllegalArgument))
	assert.Equal(t, 0, r.Generators().Len())
}

func TestGeneratorsView(t *testing.T) {
	low := &tokenGen{label: "low"}
	r := NewRegistry(func() []Generator { return []Generator{anyGen{}, low} })

	var order []Generator
	for _, g := range r.Generators().All() {
		order = append(order, g)
	}
	assert.Equal(t, []Generator{low, anyGen{}}, order)
	assert.Same(t, low, r.Generators().At(0))
}

func TestConcurrentResolveAndMutate(t *testing.T) {
	base := &tokenGen{label: "base"}
	r := NewRegistry(func() []Generator { return []Generator{base} })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.False(t, IsMissing(r.Resolve(tokenType)))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g := &urgentGen{tokenGen{label: "tmp", p: priority.Max}}
				assert.NoError(t, r.Register(g))
				assert.NoError(t, r.Remove(g))
			}
		}()
	}
	wg.Wait()

	assert.Same(t, base, r.Resolve(tokenType))
}

func localModelA() valuetype.Type {
	type Model struct{ A int }
	return valuetype.Of[Model]()
}

func localModelB() valuetype.Type {
	type Model struct{ B string }
	return valuetype.Of[Model]()
}

// onlyGen supports a single type.
type onlyGen struct{ t valuetype.Type }

func (g onlyGen) Supports(t valuetype.Type) bool            { return t.Equal(g.t) }
func (g onlyGen) Default(*Env, valuetype.Type) (any, error) { return nil, nil }
func (g onlyGen) Random(*Env, valuetype.Type) (any, error)  { return nil, nil }

func TestResolveSameNamedTypes(t *testing.T) {
	a, b := localModelA(), localModelB()
	r := NewRegistry(func() []Generator { return []Generator{onlyGen{t: a}} })

	_, ok := r.Lookup(a)
	require.True(t, ok)

	g, ok := r.Lookup(b)
	assert.False(t, ok, "cached %v for %s", g, b)
	assert.False(t, r.Cached(b))
	assert.True(t, r.Cached(a))
}
