package generators

import (
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Struct fills the exported fields of a struct, each through the generator
// resolved for the field's type and steered by the field's constraints.
// Interface, channel and function fields are left zero.
type Struct struct{}

// NewStruct returns the struct generator.
func NewStruct() *Struct {
	return &Struct{}
}

func (g *Struct) Priority() int { return FallbackPriority }

func (g *Struct) Supports(t valuetype.Type) bool {
	return t.Kind() == reflect.Struct
}

func (g *Struct) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return g.produce(env, t, false)
}

func (g *Struct) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return g.produce(env, t, true)
}

func (g *Struct) produce(env *generator.Env, t valuetype.Type, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	out := reflect.New(raw).Elem()
	if env.Exhausted() {
		return out.Interface(), nil
	}

	fields, err := env.Introspector.Fields(raw)
	if err != nil {
		return nil, err
	}
	nested := env.Nested()
	for _, field := range fields {
		if skipped(field.Type.Kind()) {
			continue
		}
		v, err := element(nested, field, random)
		if err != nil {
			return nil, err
		}
		if err := assign(out.Field(field.Index), v); err != nil {
			return nil, errors.Wrapf(err, "field %s", field.Name)
		}
	}
	return out.Interface(), nil
}

// Constructor builds values through the constructor functions declared in a
// catalog. Arguments are generated under the constraints declared for them.
type Constructor struct {
	catalog *constraint.Catalog
}

// NewConstructor returns a generator for the types catalog has constructors
// for.
func NewConstructor(catalog *constraint.Catalog) *Constructor {
	return &Constructor{catalog: catalog}
}

func (g *Constructor) Priority() int { return ConstructorPriority }

func (g *Constructor) Supports(t valuetype.Type) bool {
	return g.catalog != nil && !t.IsZero() && g.catalog.HasConstructor(t.Raw())
}

func (g *Constructor) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return g.produce(env, t, false)
}

func (g *Constructor) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return g.produce(env, t, true)
}

func (g *Constructor) produce(env *generator.Env, t valuetype.Type, random bool) (any, error) {
	if !g.Supports(t) {
		return nil, generator.Unsupported(g, t)
	}
	ctor, _ := g.catalog.Constructor(t.Raw())

	nested := env.Nested()
	args := make([]reflect.Value, len(ctor.Args))
	for i, arg := range ctor.Args {
		v, err := element(nested, arg, random)
		if err != nil {
			return nil, err
		}
		args[i] = reflect.New(arg.Type.Raw()).Elem()
		if err := assign(args[i], v); err != nil {
			return nil, err
		}
	}

	results, err := call(ctor.Func, args)
	if err != nil {
		return nil, errors.GenerationFailure(err, "constructor for %s", t)
	}
	if ctor.ReturnsError && !results[1].IsNil() {
		return nil, errors.GenerationFailure(results[1].Interface().(error), "constructor for %s", t)
	}
	return results[0].Interface(), nil
}

// call invokes fn, turning a panic into an error.
func call(fn reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "constructor panicked")
				return
			}
			err = errors.Newf("constructor panicked: %v", r)
		}
	}()
	return fn.Call(args), nil
}

// element generates the value of a field or argument through a targeted
// generator. Random nillable elements may come out nil.
func element(env *generator.Env, elem constraint.Element, random bool) (any, error) {
	tg, err := generator.For(env, elem)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", elem.Key())
	}
	switch {
	case !random:
		return tg.Default(env, env.Groups...)
	case nillable(elem.Type.Kind()):
		return tg.NullableRandom(env, env.Groups...)
	default:
		return tg.Random(env, env.Groups...)
	}
}

// skipped reports kinds the struct generator leaves zero.
func skipped(k reflect.Kind) bool {
	return k == reflect.Interface || k == reflect.Chan || k == reflect.Func || k == reflect.UnsafePointer
}
