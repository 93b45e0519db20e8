package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/priority"
)

type plugin interface {
	Label() string
}

type alpha struct {
	label string
	p     int
}

func (a *alpha) Label() string { return a.label }
func (a *alpha) Priority() int { return a.p }

type beta struct{ label string }

func (b *beta) Label() string { return b.label }

type named struct{ id string }

func (n *named) Label() string    { return n.id }
func (n *named) Identity() string { return n.id }

func labels(items []plugin) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label()
	}
	return out
}

func newWorking(t *testing.T, discovered ...plugin) (*Working[plugin, string], *int) {
	calls := 0
	w := New[plugin, string]("plugin", func() []plugin {
		calls++
		return discovered
	}, zaptest.NewLogger(t))
	return w, &calls
}

func TestWorkingDiscovery(t *testing.T) {
	t.Run("lazy and sorted", func(t *testing.T) {
		w, calls := newWorking(t, &beta{"b"}, &alpha{"a", priority.Max}, nil)
		assert.Equal(t, 0, *calls)

		assert.Equal(t, []string{"a", "b"}, labels(w.Snapshot()))
		w.Snapshot()
		assert.Equal(t, 1, *calls)
	})

	t.Run("discovered slice is not mutated", func(t *testing.T) {
		discovered := []plugin{&beta{"b"}}
		w := New[plugin, string]("plugin", func() []plugin { return discovered }, nil)

		require.NoError(t, w.Add([]plugin{&alpha{"a", priority.Max}}))
		require.NoError(t, w.Remove([]plugin{&beta{}}))

		assert.Equal(t, []string{"a"}, labels(w.Snapshot()))
		assert.Equal(t, "b", discovered[0].Label())
	})

	t.Run("reset rediscovers", func(t *testing.T) {
		w, calls := newWorking(t, &beta{"b"})
		require.NoError(t, w.Add([]plugin{&alpha{"a", 0}}))
		w.Reset()

		assert.Equal(t, []string{"b"}, labels(w.Snapshot()))
		assert.Equal(t, 2, *calls)
	})

	t.Run("nil discoverer", func(t *testing.T) {
		w := New[plugin, string]("plugin", nil, nil)
		assert.Empty(t, w.Snapshot())
	})
}

func TestWorkingMutationArguments(t *testing.T) {
	w, _ := newWorking(t)

	err := w.Add(nil)
	assert.True(t, errors.Is(err, errors.ErrIllegalArgument))

	err = w.Add([]plugin{&beta{"b"}, nil})
	assert.True(t, errors.Is(err, errors.ErrIllegalArgument))

	var typedNil *beta
	err = w.Add([]plugin{typedNil})
	assert.True(t, errors.Is(err, errors.ErrIllegalArgument))

	assert.NoError(t, w.Add([]plugin{}))
	assert.Empty(t, w.Snapshot(), "failed adds leave the list untouched")

	assert.True(t, errors.Is(w.Remove(nil), errors.ErrIllegalArgument))
	assert.True(t, errors.Is(w.Remove([]plugin{nil}), errors.ErrIllegalArgument))
	assert.NoError(t, w.Remove([]plugin{}))
}

func TestWorkingMultiset(t *testing.T) {
	w, _ := newWorking(t)

	require.NoError(t, w.Add([]plugin{&beta{"one"}, &beta{"two"}}))
	require.NoError(t, w.Remove([]plugin{&beta{"any"}}))

	assert.Equal(t, []string{"two"}, labels(w.Snapshot()))
}

func TestWorkingIdentity(t *testing.T) {
	w, _ := newWorking(t)
	require.NoError(t, w.Add([]plugin{&named{"x"}, &named{"y"}}))

	require.NoError(t, w.Remove([]plugin{&named{"y"}}))
	assert.Equal(t, []string{"x"}, labels(w.Snapshot()))

	assert.True(t, Same(&beta{"a"}, &beta{"b"}))
	assert.False(t, Same(&beta{"a"}, &alpha{label: "a"}))
	assert.False(t, Same(&named{"a"}, &named{"b"}))
}

func TestWorkingCache(t *testing.T) {
	w, _ := newWorking(t, &beta{"b"})
	builds := 0
	build := func(items []plugin) (string, bool) {
		builds++
		if len(items) == 0 {
			return "", false
		}
		return items[0].Label(), true
	}

	v, ok := w.Resolve("k", build)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	w.Resolve("k", build)
	assert.Equal(t, 1, builds)
	assert.True(t, w.Cached("k"))

	require.NoError(t, w.Add([]plugin{&alpha{"a", priority.Max}}))
	assert.False(t, w.Cached("k"))

	v, _ = w.Resolve("k", build)
	assert.Equal(t, "a", v)
	assert.Equal(t, 2, builds)

	t.Run("misses are not cached", func(t *testing.T) {
		w.Reset()
		empty := New[plugin, string]("plugin", nil, nil)
		_, ok := empty.Resolve("k", build)
		assert.False(t, ok)
		assert.False(t, empty.Cached("k"))
	})
}

func TestWorkingConcurrentAccess(t *testing.T) {
	w, _ := newWorking(t, &beta{"b"})
	build := func(items []plugin) (string, bool) {
		return labels(items)[0], len(items) > 0
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				w.Resolve("k", build)
			}
		}()
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				p := &alpha{"a", i}
				_ = w.Add([]plugin{p})
				_ = w.Remove([]plugin{p})
			}
		}(i)
	}
	wg.Wait()

	v, ok := w.Resolve("k", build)
	require.True(t, ok)
	assert.Equal(t, "b", v)
}
