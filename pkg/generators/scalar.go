package generators

import (
	"math"
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Bool produces booleans. It takes no parameters.
type Bool struct{}

// NewBool returns the bool generator.
func NewBool() *Bool {
	return &Bool{}
}

func (g *Bool) Supports(t valuetype.Type) bool {
	return t.Kind() == reflect.Bool
}

func (g *Bool) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return g.produce(t, false)
}

func (g *Bool) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return g.produce(t, env.Rand.IntN(2) == 1)
}

func (g *Bool) produce(t valuetype.Type, b bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(b).Convert(raw).Interface(), nil
}

// Int produces signed integers within the numeric bounds, clamped to the
// range of the concrete kind.
type Int struct {
	generator.Base
}

// NewInt returns the signed integer generator.
func NewInt() *Int {
	return &Int{Base: generator.NewBase(params.NumberType)}
}

func (g *Int) Supports(t valuetype.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func (g *Int) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *Int) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

func (g *Int) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *Int) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *Int) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	lo, hi, err := numericRange(p, -1<<(raw.Bits()-1), 1<<(raw.Bits()-1)-1)
	if err != nil {
		return nil, err
	}

	v := clamp(0, lo, hi)
	if random {
		v = int64Between(env, lo, hi)
	}
	out := reflect.New(raw).Elem()
	out.SetInt(v)
	return out.Interface(), nil
}

// Uint produces unsigned integers. Bounds above math.MaxInt64 are not
// expressible in the parameters and are capped there.
type Uint struct {
	generator.Base
}

// NewUint returns the unsigned integer generator.
func NewUint() *Uint {
	return &Uint{Base: generator.NewBase(params.NumberType)}
}

func (g *Uint) Supports(t valuetype.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func (g *Uint) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *Uint) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

func (g *Uint) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *Uint) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *Uint) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	kindMax := int64(math.MaxInt64)
	if raw.Bits() < 64 {
		kindMax = 1<<raw.Bits() - 1
	}
	lo, hi, err := numericRange(p, 0, kindMax)
	if err != nil {
		return nil, err
	}

	v := lo
	if random {
		v = int64Between(env, lo, hi)
	}
	out := reflect.New(raw).Elem()
	out.SetUint(uint64(v))
	return out.Interface(), nil
}

// Float produces floating point numbers within the numeric bounds.
type Float struct {
	generator.Base
}

// NewFloat returns the floating point generator.
func NewFloat() *Float {
	return &Float{Base: generator.NewBase(params.NumberType)}
}

func (g *Float) Supports(t valuetype.Type) bool {
	k := t.Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

func (g *Float) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *Float) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

func (g *Float) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *Float) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *Float) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}
	lo, hi, err := numericRange(p, math.MinInt64, math.MaxInt64)
	if err != nil {
		return nil, err
	}

	v := float64(clamp(0, lo, hi))
	if random {
		v = float64(lo)
		if hi > lo {
			v = float64(int64Between(env, lo, hi-1)) + env.Rand.Float64()
		}
	}
	out := reflect.New(raw).Elem()
	out.SetFloat(v)
	return out.Interface(), nil
}

// numericRange intersects the parameters' numeric bounds with [kindMin,
// kindMax]. An empty intersection is a generation failure.
func numericRange(p params.Parameters, kindMin, kindMax int64) (int64, int64, error) {
	lo, hi := kindMin, kindMax
	if n, ok := p.(params.NumericBounds); ok {
		plo, phi := n.NumericBounds()
		lo, hi = max(lo, plo), min(hi, phi)
	}
	if lo > hi {
		return 0, 0, errors.GenerationFailure(nil, "numeric range %d..%d is empty", lo, hi)
	}
	return lo, hi, nil
}

func clamp(v, lo, hi int64) int64 {
	return min(max(v, lo), hi)
}
