package generators

import (
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// uniqueKeyAttempts bounds key draws per requested map entry.
const uniqueKeyAttempts = 4

// Slice produces slices and arrays. Slice lengths follow the size bounds;
// arrays keep their declared length.
type Slice struct {
	generator.Base
}

// NewSlice returns the slice and array generator.
func NewSlice() *Slice {
	return &Slice{Base: generator.NewBase(params.CollectionType)}
}

func (g *Slice) Supports(t valuetype.Type) bool {
	k := t.Kind()
	return k == reflect.Slice || k == reflect.Array
}

func (g *Slice) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *Slice) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

func (g *Slice) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *Slice) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *Slice) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	c, err := generator.ParametersOf[*params.Collection](p)
	if err != nil {
		return nil, err
	}

	var out reflect.Value
	if raw.Kind() == reflect.Array {
		out = reflect.New(raw).Elem()
	} else {
		lo, hi := c.SizeBounds()
		lo, hi, err := sizeRange(lo, hi, env.MaxSize)
		if err != nil {
			return nil, err
		}
		if env.Exhausted() {
			hi = lo
		}
		n := lo
		if random {
			n = intBetween(env, lo, hi)
		}
		out = reflect.MakeSlice(raw, n, n)
	}

	elem := elementType(c.ElementType(), t, 0)
	sources := append([]any{elem}, c.ArgumentSources(0)...)
	nested := env.Nested()
	for i := 0; i < out.Len(); i++ {
		v, err := component(nested, elem, random, sources)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d of %s", i, t)
		}
		if err := assign(out.Index(i), v); err != nil {
			return nil, err
		}
	}
	return out.Interface(), nil
}

// Map produces maps with distinct keys, as many as the size bounds ask for.
type Map struct {
	generator.Base
}

// NewMap returns the map generator.
func NewMap() *Map {
	return &Map{Base: generator.NewBase(params.MapType)}
}

func (g *Map) Supports(t valuetype.Type) bool {
	return t.Kind() == reflect.Map
}

func (g *Map) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *Map) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

// DefaultWith returns a map with the minimum number of entries. Keys are
// drawn at random since default keys would collide.
func (g *Map) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *Map) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *Map) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	m, err := generator.ParametersOf[*params.Map](p)
	if err != nil {
		return nil, err
	}

	lo, hi := m.SizeBounds()
	lo, hi, err = sizeRange(lo, hi, env.MaxSize)
	if err != nil {
		return nil, err
	}
	if env.Exhausted() {
		hi = lo
	}
	n := lo
	if random {
		n = intBetween(env, lo, hi)
	}

	keyType := elementType(m.KeyType(), t, 0)
	valueType := elementType(m.ValueType(), t, 1)
	keySources := append([]any{keyType}, m.ArgumentSources(0)...)
	valueSources := append([]any{valueType}, m.ArgumentSources(1)...)

	out := reflect.MakeMapWithSize(raw, n)
	nested := env.Nested()
	for attempts := 0; out.Len() < n && attempts < n*uniqueKeyAttempts; attempts++ {
		k, err := component(nested, keyType, true, keySources)
		if err != nil {
			return nil, errors.Wrapf(err, "key of %s", t)
		}
		key := reflect.New(raw.Key()).Elem()
		if err := assign(key, k); err != nil {
			return nil, err
		}
		if out.MapIndex(key).IsValid() {
			continue
		}

		v, err := component(nested, valueType, random, valueSources)
		if err != nil {
			return nil, errors.Wrapf(err, "value of %s", t)
		}
		value := reflect.New(raw.Elem()).Elem()
		if err := assign(value, v); err != nil {
			return nil, err
		}
		out.SetMapIndex(key, value)
	}

	if out.Len() < lo {
		return nil, errors.GenerationFailure(nil, "%s: found %d distinct keys, need %d", t, out.Len(), lo)
	}
	return out.Interface(), nil
}

// Pointer produces pointers to generated values. The pointer itself is nil
// only through the nullable operations, or once nesting is exhausted.
type Pointer struct {
	generator.Base
}

// NewPointer returns the pointer generator.
func NewPointer() *Pointer {
	return &Pointer{Base: generator.NewBase(params.PointerType)}
}

func (g *Pointer) Supports(t valuetype.Type) bool {
	return t.Kind() == reflect.Pointer
}

func (g *Pointer) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *Pointer) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

func (g *Pointer) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *Pointer) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *Pointer) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	ptr, err := generator.ParametersOf[*params.Pointer](p)
	if err != nil {
		return nil, err
	}
	if env.Exhausted() {
		return reflect.Zero(raw).Interface(), nil
	}

	elem := elementType(ptr.ElementType(), t, 0)
	v, err := component(env.Nested(), elem, random, append([]any{elem}, ptr.ArgumentSources(0)...))
	if err != nil {
		return nil, errors.Wrapf(err, "target of %s", t)
	}

	out := reflect.New(raw.Elem())
	if err := assign(out.Elem(), v); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// elementType prefers the type recorded in the parameters and falls back to
// argument i of t.
func elementType(fromParams valuetype.Type, t valuetype.Type, i int) valuetype.Type {
	if !fromParams.IsZero() {
		return fromParams
	}
	return t.Arg(i)
}

// component generates a nested value. Random nillable components may come
// out nil under the null policy.
func component(env *generator.Env, t valuetype.Type, random bool, sources []any) (any, error) {
	switch {
	case !random:
		return env.DefaultValue(t, sources...)
	case nillable(t.Kind()):
		return env.NullableRandomValue(t, sources...)
	default:
		return env.RandomValue(t, sources...)
	}
}
