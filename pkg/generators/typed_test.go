package generators

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

func TestTime(t *testing.T) {
	env := newEnv(t)

	v, err := env.DefaultValue(valuetype.Of[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, Epoch, v)

	for i := 0; i < 50; i++ {
		v, err := env.RandomValue(valuetype.Of[time.Time]())
		require.NoError(t, err)
		ts := v.(time.Time)
		assert.False(t, ts.Before(Epoch))
		assert.True(t, ts.Before(Epoch.AddDate(1, 0, 1)))
		assert.Equal(t, ts, ts.Truncate(time.Second))
	}
}

func TestUUID(t *testing.T) {
	t.Run("default is nil", func(t *testing.T) {
		v, err := newEnv(t).DefaultValue(valuetype.Of[uuid.UUID]())
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, v)
	})

	t.Run("random is version 4", func(t *testing.T) {
		env := newEnv(t)
		seen := make(map[uuid.UUID]bool)
		for i := 0; i < 20; i++ {
			v, err := env.RandomValue(valuetype.Of[uuid.UUID]())
			require.NoError(t, err)
			id := v.(uuid.UUID)
			assert.Equal(t, uuid.Version(4), id.Version())
			assert.Equal(t, uuid.RFC4122, id.Variant())
			seen[id] = true
		}
		assert.Len(t, seen, 20)
	})

	t.Run("seeded runs repeat", func(t *testing.T) {
		a, err := newEnv(t, generator.WithSeed(42)).RandomValue(valuetype.Of[uuid.UUID]())
		require.NoError(t, err)
		b, err := newEnv(t, generator.WithSeed(42)).RandomValue(valuetype.Of[uuid.UUID]())
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
