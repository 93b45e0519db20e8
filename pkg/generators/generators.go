// Package generators provides the built-in generators for Go's predeclared
// kinds, containers, structs, time.Time and uuid.UUID. Importing the package
// registers them with the plugin boundary.
//
// Generators match by kind, so named types such as
//
//	type Celsius float64
//
// are produced by the float generator and converted to the named type.
package generators

import (
	"math"
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/plugin"
	"github.com/conduit-lang/fixtures/pkg/priority"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// ProviderName is the plugin name the built-ins register under.
const ProviderName = "builtin"

// Priorities of the built-ins relative to user generators, which default to
// priority.Default.
const (
	// FallbackPriority ranks generic struct filling below everything else.
	FallbackPriority = priority.Default - 100
	// ConstructorPriority ranks declared constructors above field filling
	// and above default-priority generators.
	ConstructorPriority = priority.Default + 100
)

func init() {
	plugin.RegisterGenerators(ProviderName, Defaults)
}

// Defaults returns a fresh set of built-in generators. Constructor
// generators depend on a catalog and are added by the fixtures context.
func Defaults() []generator.Generator {
	return []generator.Generator{
		NewBool(),
		NewInt(),
		NewUint(),
		NewFloat(),
		NewString(),
		NewTime(),
		NewUUID(),
		NewSlice(),
		NewMap(),
		NewPointer(),
		NewStruct(),
	}
}

// convert returns v as a value of rt. Values of a different but convertible
// type are converted, so generators may produce the underlying kind.
func convert(v any, rt reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(rt), nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(rt):
		return rv, nil
	case rv.Type().ConvertibleTo(rt):
		return rv.Convert(rt), nil
	}
	return reflect.Value{}, errors.GenerationFailure(nil, "cannot use %s as %s", rv.Type(), rt)
}

// assign stores v into dst, leaving dst untouched for nil.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		return nil
	}
	rv, err := convert(v, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(rv)
	return nil
}

// rawOf returns the Go type of t, failing for the zero descriptor.
func rawOf(g generator.Generator, t valuetype.Type) (reflect.Type, error) {
	if t.IsZero() || !g.Supports(t) {
		return nil, generator.Unsupported(g, t)
	}
	return t.Raw(), nil
}

// int64Between draws uniformly from [lo, hi].
func int64Between(env *generator.Env, lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return int64(env.Rand.Uint64())
	}
	return lo + int64(env.Rand.Uint64N(span+1))
}

// intBetween draws uniformly from [lo, hi].
func intBetween(env *generator.Env, lo, hi int) int {
	return int(int64Between(env, int64(lo), int64(hi)))
}

// sizeRange validates size bounds and caps an open upper bound at lo+span.
func sizeRange(lo, hi, span int) (int, int, error) {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		return 0, 0, errors.GenerationFailure(nil, "size range %d..%d is empty", lo, hi)
	}
	if hi-lo > span {
		hi = lo + span
	}
	return lo, hi, nil
}

// nillable reports whether values of kind k can be nil.
func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return true
	}
	return false
}
