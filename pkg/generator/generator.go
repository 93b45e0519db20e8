// Package generator dispatches value generation to pluggable generators.
//
// A Generator produces default and random values for the types it supports.
// Parameterizable generators additionally accept a parameters object that
// is built by folding metadata sources through the extractor registry:
//
//	p, err := generator.BuildParameters(env, g.ParametersType(), sources...)
//	if err != nil {
//		return nil, err
//	}
//	v, err := g.RandomWith(env, t, p)
//
// The Registry picks the highest priority generator supporting a type and
// caches the choice until its working set changes.
package generator

import (
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Generator produces values for the types it supports. Implementations may
// also implement priority.Prioritized; without it they rank at
// priority.Default. Two generators of the same dynamic type are the same
// generator unless they implement Identity() string.
type Generator interface {
	// Supports reports whether the generator can produce values of t.
	Supports(t valuetype.Type) bool
	// Default returns the deterministic default value of t.
	Default(env *Env, t valuetype.Type) (any, error)
	// Random returns a random value of t drawn from env.Rand.
	Random(env *Env, t valuetype.Type) (any, error)
}

// Parameterizable generators consume a parameters object of a declared type.
type Parameterizable interface {
	Generator
	// ParametersType is the parameters type the generator reads.
	ParametersType() params.Type
	// DefaultWith returns the default value of t under p.
	DefaultWith(env *Env, t valuetype.Type, p params.Parameters) (any, error)
	// RandomWith returns a random value of t under p.
	RandomWith(env *Env, t valuetype.Type, p params.Parameters) (any, error)
}

// Base carries the parameters type of a parameterizable generator. Embed it
// and set the type at construction.
type Base struct {
	ptype params.Type
}

// NewBase returns a Base bound to ptype.
func NewBase(ptype params.Type) Base {
	return Base{ptype: ptype}
}

// ParametersType returns the declared parameters type.
func (b Base) ParametersType() params.Type {
	return b.ptype
}

// NewParameters builds an empty parameters instance through the type's
// factory.
func (b Base) NewParameters() (params.Parameters, error) {
	return b.ptype.New()
}

// BuildParameters creates a fresh instance of ptype and folds sources into
// it, in order, through the extractors registered in env.
func BuildParameters(env *Env, ptype params.Type, sources ...any) (params.Parameters, error) {
	if env == nil || env.Extractors == nil {
		return nil, errors.IllegalArgument("environment has no extractor registry")
	}
	agg, err := env.Extractors.ExtractorFor(ptype)
	if err != nil {
		return nil, err
	}
	return agg.Populate(sources...)
}

// DefaultFrom builds g's parameters from sources and returns the default
// value of t under them.
func DefaultFrom(env *Env, g Parameterizable, t valuetype.Type, sources ...any) (any, error) {
	p, err := BuildParameters(env, g.ParametersType(), sources...)
	if err != nil {
		return nil, err
	}
	return g.DefaultWith(env, t, p)
}

// RandomFrom builds g's parameters from sources and returns a random value
// of t under them.
func RandomFrom(env *Env, g Parameterizable, t valuetype.Type, sources ...any) (any, error) {
	p, err := BuildParameters(env, g.ParametersType(), sources...)
	if err != nil {
		return nil, err
	}
	return g.RandomWith(env, t, p)
}

// NullableDefaultWith returns nil when p allows nil and the null policy
// fires; otherwise the default value of t under p.
func NullableDefaultWith(env *Env, g Parameterizable, t valuetype.Type, p params.Parameters) (any, error) {
	if AllowsNull(p) && env.ShouldBeNull() {
		return nil, nil
	}
	return g.DefaultWith(env, t, p)
}

// NullableRandomWith returns nil when p allows nil and the null policy
// fires; otherwise a random value of t under p.
func NullableRandomWith(env *Env, g Parameterizable, t valuetype.Type, p params.Parameters) (any, error) {
	if AllowsNull(p) && env.ShouldBeNull() {
		return nil, nil
	}
	return g.RandomWith(env, t, p)
}

// AllowsNull reports whether p permits nil. Parameters without the
// Nullability capability never do.
func AllowsNull(p params.Parameters) bool {
	n, ok := p.(params.Nullability)
	return ok && n.Nullable()
}

// Unsupported returns the error for invoking g with a type it does not
// support.
func Unsupported(g Generator, t valuetype.Type) error {
	return errors.Wrapf(errors.ErrUnsupportedValueType, "%T does not support %s", g, t)
}

// ParametersOf asserts that p is a P, failing with ErrIllegalArgument
// otherwise.
func ParametersOf[P params.Parameters](p params.Parameters) (P, error) {
	typed, ok := p.(P)
	if !ok {
		var zero P
		return zero, errors.IllegalArgument("parameters %T are not %s", p, reflect.TypeFor[P]())
	}
	return typed, nil
}
