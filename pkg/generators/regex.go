package generators

import (
	"regexp/syntax"
	"strings"
	"sync"
	"unicode"

	"github.com/conduit-lang/fixtures/pkg/generator"
)

// unboundedRepeat caps *, + and {n,} repetitions.
const unboundedRepeat = 8

// pattern samples strings from a parsed regular expression.
type pattern struct {
	re *syntax.Regexp
}

var patterns sync.Map // string -> *pattern

func compilePattern(expr string) (*pattern, error) {
	if cached, ok := patterns.Load(expr); ok {
		return cached.(*pattern), nil
	}
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, err
	}
	p := &pattern{re: re.Simplify()}
	patterns.Store(expr, p)
	return p, nil
}

func (p *pattern) generate(env *generator.Env) string {
	var b strings.Builder
	sample(env, p.re, &b)
	return b.String()
}

func sample(env *generator.Env, re *syntax.Regexp, b *strings.Builder) {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 && env.Rand.IntN(2) == 1 {
				r = swapCase(r)
			}
			b.WriteRune(r)
		}

	case syntax.OpCharClass:
		b.WriteRune(fromClass(env, re.Rune))

	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		b.WriteByte(alphabet[env.Rand.IntN(len(alphabet))])

	case syntax.OpCapture:
		sample(env, re.Sub[0], b)

	case syntax.OpConcat:
		for _, sub := range re.Sub {
			sample(env, sub, b)
		}

	case syntax.OpAlternate:
		sample(env, re.Sub[env.Rand.IntN(len(re.Sub))], b)

	case syntax.OpStar:
		repeat(env, re.Sub[0], 0, unboundedRepeat, b)

	case syntax.OpPlus:
		repeat(env, re.Sub[0], 1, 1+unboundedRepeat, b)

	case syntax.OpQuest:
		repeat(env, re.Sub[0], 0, 1, b)

	case syntax.OpRepeat:
		hi := re.Max
		if hi < 0 {
			hi = re.Min + unboundedRepeat
		}
		repeat(env, re.Sub[0], re.Min, hi, b)
	}
	// Anchors, boundaries and empty matches produce nothing.
}

func repeat(env *generator.Env, re *syntax.Regexp, lo, hi int, b *strings.Builder) {
	for n := intBetween(env, lo, hi); n > 0; n-- {
		sample(env, re, b)
	}
}

// fromClass picks a rune from the ranges of a character class, preferring
// printable ASCII when the class has any.
func fromClass(env *generator.Env, ranges []rune) rune {
	printable := clip(ranges, ' ', '~')
	if len(printable) > 0 {
		ranges = printable
	}
	if len(ranges) == 0 {
		return 'a'
	}

	total := 0
	for i := 0; i < len(ranges); i += 2 {
		total += int(ranges[i+1]-ranges[i]) + 1
	}
	n := env.Rand.IntN(total)
	for i := 0; i < len(ranges); i += 2 {
		size := int(ranges[i+1]-ranges[i]) + 1
		if n < size {
			return ranges[i] + rune(n)
		}
		n -= size
	}
	return ranges[0]
}

// clip intersects rune ranges with [lo, hi].
func clip(ranges []rune, lo, hi rune) []rune {
	var out []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		a, z := max(ranges[i], lo), min(ranges[i+1], hi)
		if a <= z {
			out = append(out, a, z)
		}
	}
	return out
}

func swapCase(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	return unicode.ToUpper(r)
}
