package params

import (
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Type describes a parameters type together with the factory that builds
// empty instances of it. Factories are explicit; nothing is instantiated by
// reflection.
type Type struct {
	rt      reflect.Type
	factory func() Parameters
}

// TypeOf declares the parameters type P with its factory. A nil factory
// yields a Type whose New fails, which is how abstract capability types are
// described.
func TypeOf[P Parameters](factory func() P) Type {
	t := Type{rt: reflect.TypeFor[P]()}
	if factory != nil {
		t.factory = func() Parameters { return factory() }
	}
	return t
}

// Capability declares an abstract capability interface such as SizeBounds.
// It cannot be instantiated.
func Capability[P Parameters]() Type {
	return Type{rt: reflect.TypeFor[P]()}
}

// Built-in parameters types.
var (
	BasicType      = TypeOf(NewBasic)
	StringType     = TypeOf(NewString)
	NumberType     = TypeOf(NewNumber)
	CollectionType = TypeOf(NewCollection)
	MapType        = TypeOf(NewMap)
	PointerType    = TypeOf(NewPointer)
)

// Reflect returns the Go type of the parameters.
func (t Type) Reflect() reflect.Type {
	return t.rt
}

// ID identifies the Go type of the parameters within the process; registries
// key caches by it. Factories are not part of the identity.
func (t Type) ID() string {
	if t.rt == nil {
		return ""
	}
	return valuetype.FromReflect(t.rt).ID()
}

// Name is the Go type of the parameters as printed.
func (t Type) Name() string {
	if t.rt == nil {
		return ""
	}
	return t.rt.String()
}

// String returns the name.
func (t Type) String() string {
	return t.Name()
}

// IsZero reports whether t describes nothing.
func (t Type) IsZero() bool {
	return t.rt == nil
}

// Instantiable reports whether New can succeed.
func (t Type) Instantiable() bool {
	return t.factory != nil && t.rt != nil && t.rt.Kind() != reflect.Interface
}

// New builds an empty parameters instance.
func (t Type) New() (Parameters, error) {
	if t.rt == nil {
		return nil, errors.IllegalArgument("parameters type is not set")
	}
	if t.rt.Kind() == reflect.Interface {
		return nil, errors.IllegalArgument("parameters type %s is an interface", t.rt)
	}
	if t.factory == nil {
		return nil, errors.IllegalArgument("parameters type %s has no factory", t.rt)
	}
	p := t.factory()
	if p == nil {
		return nil, errors.IllegalArgument("factory for %s returned nil", t.rt)
	}
	return p, nil
}

// AssignableTo reports whether instances of t can be used where target is
// expected. Extractors declare targets as capability interfaces or concrete
// types.
func (t Type) AssignableTo(target reflect.Type) bool {
	if t.rt == nil || target == nil {
		return false
	}
	return t.rt.AssignableTo(target)
}

// Accepts reports whether p's runtime type is assignable to t.
func (t Type) Accepts(p Parameters) bool {
	if p == nil || t.rt == nil {
		return false
	}
	return reflect.TypeOf(p).AssignableTo(t.rt)
}
