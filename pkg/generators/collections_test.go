package generators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/nullpolicy"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

type basket struct {
	Items  []string       `fixture:"size=2..3;elem:size=4..4"`
	Counts map[string]int `fixture:"size=1..2;key:size=3..3;value:min=5;value:max=6"`
	Grid   [][]int8       `fixture:"size=1..1;elem:size=2..2;elem:elem:min=1;elem:elem:max=1"`
}

type node struct {
	Value int
	Next  *node
}

func TestSlice(t *testing.T) {
	env := newEnv(t)

	t.Run("default has the minimum length", func(t *testing.T) {
		v, err := env.DefaultValue(valuetype.Of[[]int](), constraint.Size{Min: 2, Max: 5})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 0}, v)
	})

	t.Run("random length within bounds", func(t *testing.T) {
		for i := 0; i < 30; i++ {
			v, err := env.RandomValue(valuetype.Of[[]bool](), constraint.Size{Min: 1, Max: 4})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(v.([]bool)), 1)
			assert.LessOrEqual(t, len(v.([]bool)), 4)
		}
	})

	t.Run("arrays keep their length", func(t *testing.T) {
		v, err := env.DefaultValue(valuetype.Of[[2]string]())
		require.NoError(t, err)
		assert.Equal(t, [2]string{"", ""}, v)

		v, err = env.RandomValue(valuetype.Of[[3]int]())
		require.NoError(t, err)
		assert.Len(t, v.([3]int), 3)
	})

	t.Run("empty size range fails", func(t *testing.T) {
		_, err := env.RandomValue(valuetype.Of[[]int](), constraint.Size{Min: 3, Max: 1})
		assert.True(t, errors.Is(err, errors.ErrGenerationFailure))
	})
}

func TestMap(t *testing.T) {
	env := newEnv(t)

	t.Run("distinct keys within bounds", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			v, err := env.RandomValue(valuetype.Of[map[int]string](), constraint.Size{Min: 3, Max: 6})
			require.NoError(t, err)
			m := v.(map[int]string)
			assert.GreaterOrEqual(t, len(m), 3)
			assert.LessOrEqual(t, len(m), 6)
		}
	})

	t.Run("default has the minimum size", func(t *testing.T) {
		v, err := env.DefaultValue(valuetype.Of[map[string]int](), constraint.Size{Min: 2, Max: 2})
		require.NoError(t, err)
		m := v.(map[string]int)
		assert.Len(t, m, 2)
		for _, value := range m {
			assert.Equal(t, 0, value)
		}
	})

	t.Run("too few distinct keys fails", func(t *testing.T) {
		_, err := env.RandomValue(valuetype.Of[map[bool]int](), constraint.Size{Min: 3, Max: 5})
		assert.True(t, errors.Is(err, errors.ErrGenerationFailure))
	})
}

func TestPointer(t *testing.T) {
	t.Run("points at a generated value", func(t *testing.T) {
		env := newEnv(t)
		v, err := env.DefaultValue(valuetype.Of[*int]())
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, 0, *v.(*int))

		v, err = env.RandomValue(valuetype.Of[*int64](), constraint.Min{Value: 8}, constraint.Max{Value: 8})
		require.NoError(t, err)
		assert.Equal(t, int64(8), *v.(*int64))
	})

	t.Run("nullable follows the policy", func(t *testing.T) {
		env := newEnv(t, generator.WithNulls(nullpolicy.Always))
		v, err := env.NullableRandomValue(valuetype.Of[*int]())
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = env.NullableRandomValue(valuetype.Of[*int](), constraint.NotNull{})
		require.NoError(t, err)
		assert.NotNil(t, v)
	})
}

func TestTypeArgumentConstraints(t *testing.T) {
	env := newEnv(t)

	for i := 0; i < 20; i++ {
		v, err := env.RandomValue(valuetype.Of[basket]())
		require.NoError(t, err)
		b := v.(basket)

		assert.GreaterOrEqual(t, len(b.Items), 2)
		assert.LessOrEqual(t, len(b.Items), 3)
		for _, item := range b.Items {
			assert.Len(t, item, 4)
		}

		assert.GreaterOrEqual(t, len(b.Counts), 1)
		assert.LessOrEqual(t, len(b.Counts), 2)
		for k, v := range b.Counts {
			assert.Len(t, k, 3)
			assert.GreaterOrEqual(t, v, 5)
			assert.LessOrEqual(t, v, 6)
		}

		assert.Equal(t, [][]int8{{1, 1}}, b.Grid)
	}
}

func TestDepthLimit(t *testing.T) {
	env := newEnv(t, generator.WithMaxDepth(4))

	v, err := env.RandomValue(valuetype.Of[node]())
	require.NoError(t, err)

	links := 0
	for n := v.(node); n.Next != nil; n = *n.Next {
		links++
	}
	assert.LessOrEqual(t, links, 4)

	_, err = env.RandomValue(valuetype.Of[[][][][][]int](), constraint.Size{Min: 1, Max: 1})
	assert.NoError(t, err)
}
