package generator

import (
	"fmt"

	"github.com/conduit-lang/fixtures/pkg/priority"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Typed is a generator bound to the single value type T.
type Typed[T any] struct {
	typ      valuetype.Type
	def      func(env *Env) (T, error)
	random   func(env *Env) (T, error)
	priority int
}

// TypedOption configures a Typed generator.
type TypedOption func(*typedOptions)

type typedOptions struct {
	priority int
}

// WithPriority sets the generator's priority.
func WithPriority(p int) TypedOption {
	return func(o *typedOptions) { o.priority = p }
}

// NewTyped binds def and random to T. A nil def returns the zero value; a nil
// random falls back to def.
func NewTyped[T any](def, random func(env *Env) (T, error), opts ...TypedOption) *Typed[T] {
	o := typedOptions{priority: priority.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if def == nil {
		def = func(*Env) (T, error) {
			var zero T
			return zero, nil
		}
	}
	if random == nil {
		random = def
	}
	return &Typed[T]{typ: valuetype.Of[T](), def: def, random: random, priority: o.priority}
}

// Constant returns a Typed generator always producing v.
func Constant[T any](v T, opts ...TypedOption) *Typed[T] {
	fn := func(*Env) (T, error) { return v, nil }
	return NewTyped(fn, fn, opts...)
}

// Type returns the bound value type.
func (g *Typed[T]) Type() valuetype.Type { return g.typ }
func (g *Typed[T]) Priority() int        { return g.priority }

// Supports accepts exactly the bound type.
func (g *Typed[T]) Supports(t valuetype.Type) bool {
	return t.Equal(g.typ)
}

func (g *Typed[T]) Default(env *Env, t valuetype.Type) (any, error) {
	if !g.Supports(t) {
		return nil, Unsupported(g, t)
	}
	v, err := g.def(env)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (g *Typed[T]) Random(env *Env, t valuetype.Type) (any, error) {
	if !g.Supports(t) {
		return nil, Unsupported(g, t)
	}
	v, err := g.random(env)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (g *Typed[T]) String() string {
	return fmt.Sprintf("typed(%s)", g.typ)
}
