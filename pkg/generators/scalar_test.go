package generators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/extract"
	"github.com/conduit-lang/fixtures/pkg/extractors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/nullpolicy"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// newEnv wires the built-in generators and extractors with a fixed seed and
// no nulls unless opts say otherwise.
func newEnv(t *testing.T, opts ...generator.EnvOption) *generator.Env {
	t.Helper()
	logger := zaptest.NewLogger(t)
	gens := generator.NewRegistry(Defaults, generator.WithLogger(logger))
	exts := extract.NewRegistry(extractors.Defaults, extract.WithLogger(logger))

	opts = append([]generator.EnvOption{
		generator.WithSeed(1),
		generator.WithNulls(nullpolicy.Never),
		generator.WithEnvLogger(logger),
	}, opts...)
	return generator.NewEnv(gens, exts, opts...)
}

type celsius float64

type level int8

type flag bool

func TestBool(t *testing.T) {
	env := newEnv(t)

	v, err := env.DefaultValue(valuetype.Of[bool]())
	require.NoError(t, err)
	assert.Equal(t, false, v)

	seen := map[any]bool{}
	for i := 0; i < 64; i++ {
		v, err := env.RandomValue(valuetype.Of[flag]())
		require.NoError(t, err)
		seen[v] = true
	}
	assert.Equal(t, map[any]bool{flag(true): true, flag(false): true}, seen)
}

func TestInt(t *testing.T) {
	env := newEnv(t)

	t.Run("default is zero", func(t *testing.T) {
		v, err := env.DefaultValue(valuetype.Of[int]())
		require.NoError(t, err)
		assert.Equal(t, 0, v)
	})

	t.Run("default clamps into bounds", func(t *testing.T) {
		v, err := env.DefaultValue(valuetype.Of[int32](), constraint.Min{Value: 7})
		require.NoError(t, err)
		assert.Equal(t, int32(7), v)
	})

	t.Run("random within bounds", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			v, err := env.RandomValue(valuetype.Of[int64](), constraint.Min{Value: -3}, constraint.Max{Value: 3})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v.(int64), int64(-3))
			assert.LessOrEqual(t, v.(int64), int64(3))
		}
	})

	t.Run("kind range caps bounds", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			v, err := env.RandomValue(valuetype.Of[level](), constraint.Min{Value: 100})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v.(level), level(100))
		}
	})

	t.Run("empty range fails", func(t *testing.T) {
		_, err := env.RandomValue(valuetype.Of[int8](), constraint.Min{Value: 200})
		assert.True(t, errors.Is(err, errors.ErrGenerationFailure))

		_, err = env.RandomValue(valuetype.Of[int](), constraint.Min{Value: 5}, constraint.Max{Value: 4})
		assert.True(t, errors.Is(err, errors.ErrGenerationFailure))
	})

	t.Run("full int64 range", func(t *testing.T) {
		_, err := env.RandomValue(valuetype.Of[int64]())
		assert.NoError(t, err)
	})
}

func TestUint(t *testing.T) {
	env := newEnv(t)

	v, err := env.DefaultValue(valuetype.Of[uint16](), constraint.Min{Value: -10})
	require.NoError(t, err)
	assert.Equal(t, uint16(0), v)

	for i := 0; i < 100; i++ {
		v, err := env.RandomValue(valuetype.Of[uint8]())
		require.NoError(t, err)
		assert.LessOrEqual(t, v.(uint8), uint8(math.MaxUint8))
	}

	v, err = env.RandomValue(valuetype.Of[uint64](), constraint.Min{Value: 9}, constraint.Max{Value: 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), v)
}

func TestFloat(t *testing.T) {
	env := newEnv(t)

	v, err := env.DefaultValue(valuetype.Of[float64]())
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	for i := 0; i < 100; i++ {
		v, err := env.RandomValue(valuetype.Of[celsius](), constraint.Min{Value: -40}, constraint.Max{Value: 50})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, float64(v.(celsius)), -40.0)
		assert.Less(t, float64(v.(celsius)), 50.0)
	}

	v, err = env.RandomValue(valuetype.Of[float32](), constraint.Min{Value: 2}, constraint.Max{Value: 2})
	require.NoError(t, err)
	assert.Equal(t, float32(2), v)
}

func TestUnsupportedKind(t *testing.T) {
	env := newEnv(t)

	_, err := NewInt().DefaultWith(env, valuetype.Of[string](), nil)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedValueType))

	_, err = env.DefaultValue(valuetype.Of[chan int]())
	assert.True(t, errors.Is(err, errors.ErrGeneratorNotFound))
}
