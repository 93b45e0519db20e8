package extractors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/extract"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/plugin"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

func populate(t *testing.T, ptype params.Type, sources ...any) params.Parameters {
	t.Helper()
	agg, err := extract.NewRegistry(Defaults).ExtractorFor(ptype)
	require.NoError(t, err)
	p, err := agg.Populate(sources...)
	require.NoError(t, err)
	return p
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, plugin.ExtractorProviders(), ProviderName)
	assert.Len(t, plugin.Extractors(), len(Defaults()))
}

func TestNumericBounds(t *testing.T) {
	tests := []struct {
		name    string
		sources []any
		min     int64
		max     int64
	}{
		{"unconstrained", nil, math.MinInt64, math.MaxInt64},
		{"min", []any{constraint.Min{Value: 3}}, 3, math.MaxInt64},
		{"max", []any{constraint.Max{Value: 9}}, math.MinInt64, 9},
		{"stricter min wins", []any{constraint.Min{Value: 3}, constraint.Min{Value: 1}}, 3, math.MaxInt64},
		{"stricter max wins", []any{constraint.Max{Value: 9}, constraint.Max{Value: 12}}, math.MinInt64, 9},
		{"range", []any{constraint.Min{Value: -5}, constraint.Max{Value: 5}}, -5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := populate(t, params.NumberType, tt.sources...).(*params.Number)
			min, max := p.NumericBounds()
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestSizeAndNullability(t *testing.T) {
	p := populate(t, params.StringType,
		constraint.Size{Min: 2, Max: 40},
		constraint.Size{Min: 0, Max: 6},
		constraint.NotNull{},
		constraint.Pattern{Regexp: "[a-z]+"},
		constraint.Pattern{Regexp: "[0-9]+"},
	).(*params.String)

	min, max := p.SizeBounds()
	assert.Equal(t, 2, min)
	assert.Equal(t, 6, max)
	assert.False(t, p.Nullable())
	assert.Equal(t, "[a-z]+", p.Pattern())
}

func TestTypeArguments(t *testing.T) {
	t.Run("collection element", func(t *testing.T) {
		p := populate(t, params.CollectionType, valuetype.Of[[]int]()).(*params.Collection)
		assert.True(t, p.ElementType().Equal(valuetype.Of[int]()))
	})

	t.Run("pointer element", func(t *testing.T) {
		p := populate(t, params.PointerType, valuetype.Of[*string]()).(*params.Pointer)
		assert.True(t, p.ElementType().Equal(valuetype.Of[string]()))
	})

	t.Run("map key and value", func(t *testing.T) {
		p := populate(t, params.MapType, valuetype.Of[map[string]bool]()).(*params.Map)
		assert.True(t, p.KeyType().Equal(valuetype.Of[string]()))
		assert.True(t, p.ValueType().Equal(valuetype.Of[bool]()))
	})

	t.Run("scalar type is ignored", func(t *testing.T) {
		p := populate(t, params.CollectionType, valuetype.Of[int]()).(*params.Collection)
		assert.True(t, p.ElementType().IsZero())
	})

	t.Run("argument sources", func(t *testing.T) {
		p := populate(t, params.MapType,
			params.ArgumentSources{Index: 1, Sources: []any{constraint.NotNull{}}},
		).(*params.Map)
		assert.Equal(t, []any{constraint.NotNull{}}, p.ArgumentSources(1))
		assert.Empty(t, p.ArgumentSources(0))
	})
}

func TestMergeParameters(t *testing.T) {
	src := params.NewString()
	src.SetNullable(false)
	src.SetSizeBounds(3, 5)
	src.SetPattern("x+")

	p := populate(t, params.StringType, src).(*params.String)
	min, max := p.SizeBounds()
	assert.Equal(t, 3, min)
	assert.Equal(t, 5, max)
	assert.False(t, p.Nullable())
	assert.Equal(t, "x+", p.Pattern())

	t.Run("foreign capabilities are ignored", func(t *testing.T) {
		n := params.NewNumber()
		n.SetNumericBounds(1, 2)
		p := populate(t, params.StringType, n).(*params.String)
		assert.True(t, p.Nullable())
	})

	t.Run("only the stricter bound survives", func(t *testing.T) {
		a := params.NewNumber()
		a.SetNumericBounds(0, 100)
		b := params.NewNumber()
		b.SetNumericBounds(50, 200)

		p := populate(t, params.NumberType, a, b).(*params.Number)
		min, max := p.NumericBounds()
		assert.Equal(t, int64(50), min)
		assert.Equal(t, int64(100), max)
	})
}

func TestComposedConstraintsAreSkipped(t *testing.T) {
	composed := constraint.Compose("Short", constraint.Size{Max: 3})
	p := populate(t, params.StringType, composed).(*params.String)
	_, max := p.SizeBounds()
	assert.Equal(t, params.DefaultMaxLength, max, "parts are folded only when listed on their own")
}
