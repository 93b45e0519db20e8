package generators

import (
	"reflect"
	"strings"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// patternAttempts bounds how often a pattern is sampled to meet the size
// bounds before the last sample is returned as is.
const patternAttempts = 32

// String produces text within the size bounds, or matching the pattern when
// one is set.
type String struct {
	generator.Base
}

// NewString returns the string generator.
func NewString() *String {
	return &String{Base: generator.NewBase(params.StringType)}
}

func (g *String) Supports(t valuetype.Type) bool {
	return t.Kind() == reflect.String
}

func (g *String) Default(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.DefaultFrom(env, g, t)
}

func (g *String) Random(env *generator.Env, t valuetype.Type) (any, error) {
	return generator.RandomFrom(env, g, t)
}

// DefaultWith returns the shortest admissible string of repeated 'a', or
// a sample of the pattern.
func (g *String) DefaultWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, false)
}

func (g *String) RandomWith(env *generator.Env, t valuetype.Type, p params.Parameters) (any, error) {
	return g.produce(env, t, p, true)
}

func (g *String) produce(env *generator.Env, t valuetype.Type, p params.Parameters, random bool) (any, error) {
	raw, err := rawOf(g, t)
	if err != nil {
		return nil, err
	}

	lo, hi := 0, env.MaxLength
	if s, ok := p.(params.SizeBounds); ok {
		lo, hi = s.SizeBounds()
	}
	lo, hi, err = sizeRange(lo, hi, env.MaxLength)
	if err != nil {
		return nil, err
	}

	var text string
	if pt, ok := p.(params.Patterned); ok && pt.Pattern() != "" {
		text, err = fromPattern(env, pt.Pattern(), lo, hi)
		if err != nil {
			return nil, err
		}
	} else if random {
		text = randomText(env, intBetween(env, lo, hi))
	} else {
		text = strings.Repeat("a", lo)
	}
	return reflect.ValueOf(text).Convert(raw).Interface(), nil
}

func randomText(env *generator.Env, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[env.Rand.IntN(len(alphabet))])
	}
	return b.String()
}

// fromPattern samples pattern until the result's length falls in [lo, hi].
func fromPattern(env *generator.Env, pattern string, lo, hi int) (string, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return "", errors.GenerationFailure(err, "pattern %q", pattern)
	}

	var sample string
	for i := 0; i < patternAttempts; i++ {
		sample = re.generate(env)
		if n := len([]rune(sample)); n >= lo && n <= hi {
			break
		}
	}
	return sample, nil
}
