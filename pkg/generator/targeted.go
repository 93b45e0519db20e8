package generator

import (
	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/params"
)

// Targeted binds a delegate generator to a program element, so that the
// constraints declared on the element steer the values produced.
type Targeted struct {
	elem         constraint.Element
	delegate     Generator
	introspector *constraint.Introspector
}

// NewTargeted binds delegate to elem. It fails with ErrUnsupportedValueType
// when delegate does not support the element's type. A nil introspector
// reads struct tags only.
func NewTargeted(elem constraint.Element, delegate Generator, introspector *constraint.Introspector) (*Targeted, error) {
	if delegate == nil {
		return nil, errors.IllegalArgument("delegate generator is nil")
	}
	if IsMissing(delegate) || !delegate.Supports(elem.Type) {
		return nil, errors.Wrapf(errors.ErrUnsupportedValueType,
			"%T cannot generate %s", delegate, elem)
	}
	if introspector == nil {
		introspector = constraint.NewIntrospector(nil)
	}
	return &Targeted{elem: elem, delegate: delegate, introspector: introspector}, nil
}

// For resolves the generator for elem's type in env and binds it to elem.
func For(env *Env, elem constraint.Element) (*Targeted, error) {
	if env == nil || env.Generators == nil {
		return nil, errors.IllegalArgument("environment has no generator registry")
	}
	g := env.Generators.Resolve(elem.Type)
	if m, ok := g.(*missing); ok {
		return nil, m.notFound()
	}
	return NewTargeted(elem, g, env.Introspector)
}

// Element returns the bound element.
func (t *Targeted) Element() constraint.Element {
	return t.elem
}

// Delegate returns the bound generator.
func (t *Targeted) Delegate() Generator {
	return t.delegate
}

// Metadata lists the extraction sources for the element: its declared type,
// the constraints active for groups, then one params.ArgumentSources per
// generic argument that carries constraints of its own.
func (t *Targeted) Metadata(groups ...constraint.Group) ([]any, error) {
	constraints, err := t.introspector.Constraints(t.elem, groups...)
	if err != nil {
		return nil, err
	}

	sources := make([]any, 0, 1+len(constraints))
	sources = append(sources, t.elem.Type)
	for _, c := range constraints {
		sources = append(sources, c)
	}

	args, err := argumentSources(t.introspector, t.elem, groups)
	if err != nil {
		return nil, err
	}
	return append(sources, args...), nil
}

// argumentSources collects, per generic argument of elem, the constraints
// declared on it together with those of its own arguments.
func argumentSources(in *constraint.Introspector, elem constraint.Element, groups []constraint.Group) ([]any, error) {
	var out []any
	for i := 0; i < elem.Type.NumArgs(); i++ {
		arg := elem.TypeArgument(i)

		constraints, err := in.Constraints(arg, groups...)
		if err != nil {
			return nil, err
		}
		nested, err := argumentSources(in, arg, groups)
		if err != nil {
			return nil, err
		}
		if len(constraints) == 0 && len(nested) == 0 {
			continue
		}

		sources := make([]any, 0, len(constraints)+len(nested))
		for _, c := range constraints {
			sources = append(sources, c)
		}
		out = append(out, params.ArgumentSources{Index: i, Sources: append(sources, nested...)})
	}
	return out, nil
}

// Default returns the element's default value under the constraints active
// for groups.
func (t *Targeted) Default(env *Env, groups ...constraint.Group) (any, error) {
	return t.produce(env, false, false, groups)
}

// Random returns a random value for the element.
func (t *Targeted) Random(env *Env, groups ...constraint.Group) (any, error) {
	return t.produce(env, true, false, groups)
}

// NullableDefault returns nil when the effective parameters allow it and the
// null policy fires; otherwise the default value.
func (t *Targeted) NullableDefault(env *Env, groups ...constraint.Group) (any, error) {
	return t.produce(env, false, true, groups)
}

// NullableRandom returns nil when the effective parameters allow it and the
// null policy fires; otherwise a random value.
func (t *Targeted) NullableRandom(env *Env, groups ...constraint.Group) (any, error) {
	return t.produce(env, true, true, groups)
}

func (t *Targeted) produce(env *Env, random, nullable bool, groups []constraint.Group) (any, error) {
	if env == nil {
		return nil, errors.IllegalArgument("environment is nil")
	}
	sources, err := t.Metadata(groups...)
	if err != nil {
		return nil, err
	}

	v, err := invoke(env, t.delegate, t.elem.Type, random, nullable, sources)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", t.elem.Key())
	}
	return v, nil
}
