// Package extractors provides the built-in extractors that fold the
// constraint vocabulary, value type descriptors and other parameters into
// generation parameters. Importing the package registers them.
package extractors

import (
	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/extract"
	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/plugin"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// ProviderName is the plugin name the built-ins register under.
const ProviderName = "builtin"

func init() {
	plugin.RegisterExtractors(ProviderName, Defaults)
}

// Defaults returns a fresh set of the built-in extractors.
func Defaults() []extract.Extractor {
	return []extract.Extractor{
		NotNull(),
		Size(),
		Min(),
		Max(),
		Pattern(),
		ElementType(),
		KeyValueTypes(),
		ArgumentSources(),
		Merge(),
	}
}

// NotNull forbids nil. Nullability only ever turns off.
func NotNull() *extract.Func[constraint.NotNull, params.Nullability] {
	return extract.New(func(_ constraint.NotNull, p params.Nullability) {
		p.SetNullable(false)
	}, extract.WithName("notnull"))
}

// Size intersects the size bounds with the constraint's range.
func Size() *extract.Func[constraint.Size, params.SizeBounds] {
	return extract.New(func(c constraint.Size, p params.SizeBounds) {
		narrowSize(p, c.Min, c.Max)
	}, extract.WithName("size"))
}

// Min raises the lower numeric bound.
func Min() *extract.Func[constraint.Min, params.NumericBounds] {
	return extract.New(func(c constraint.Min, p params.NumericBounds) {
		lo, hi := p.NumericBounds()
		p.SetNumericBounds(max(lo, c.Value), hi)
	}, extract.WithName("min"))
}

// Max lowers the upper numeric bound.
func Max() *extract.Func[constraint.Max, params.NumericBounds] {
	return extract.New(func(c constraint.Max, p params.NumericBounds) {
		lo, hi := p.NumericBounds()
		p.SetNumericBounds(lo, min(hi, c.Value))
	}, extract.WithName("max"))
}

// Pattern sets the pattern. Two regular expressions cannot be intersected,
// so the first one folded in is kept.
func Pattern() *extract.Func[constraint.Pattern, params.Patterned] {
	return extract.New(func(c constraint.Pattern, p params.Patterned) {
		if p.Pattern() == "" {
			p.SetPattern(c.Regexp)
		}
	}, extract.WithName("pattern"))
}

// ElementType records the single generic argument of a container type.
func ElementType() *extract.Func[valuetype.Type, params.ElementTyped] {
	return extract.New(func(t valuetype.Type, p params.ElementTyped) {
		if t.NumArgs() > 0 {
			p.SetElementType(t.Arg(t.NumArgs() - 1))
		}
	}, extract.WithName("element-type"))
}

// KeyValueTypes records the key and value arguments of a map type.
func KeyValueTypes() *extract.Func[valuetype.Type, params.KeyValueTyped] {
	return extract.New(func(t valuetype.Type, p params.KeyValueTyped) {
		if t.NumArgs() >= 2 {
			p.SetKeyValueTypes(t.Arg(0), t.Arg(1))
		}
	}, extract.WithName("key-value-types"))
}

// ArgumentSources collects sources addressed to generic arguments.
func ArgumentSources() *extract.Func[params.ArgumentSources, params.ArgumentSourced] {
	return extract.New(func(a params.ArgumentSources, p params.ArgumentSourced) {
		p.AddArgumentSources(a.Index, a.Sources...)
	}, extract.WithName("argument-sources"))
}

// Merge folds another parameters object in, capability by capability,
// keeping the stricter setting wherever both sides carry one.
func Merge() *extract.Func[params.Parameters, params.Parameters] {
	return extract.New(mergeParameters, extract.WithName("parameters"))
}

func mergeParameters(src, dst params.Parameters) {
	if s, ok := src.(params.Nullability); ok {
		if d, ok := dst.(params.Nullability); ok && !s.Nullable() {
			d.SetNullable(false)
		}
	}
	if s, ok := src.(params.SizeBounds); ok {
		if d, ok := dst.(params.SizeBounds); ok {
			lo, hi := s.SizeBounds()
			narrowSize(d, lo, hi)
		}
	}
	if s, ok := src.(params.NumericBounds); ok {
		if d, ok := dst.(params.NumericBounds); ok {
			slo, shi := s.NumericBounds()
			dlo, dhi := d.NumericBounds()
			d.SetNumericBounds(max(slo, dlo), min(shi, dhi))
		}
	}
	if s, ok := src.(params.Patterned); ok {
		if d, ok := dst.(params.Patterned); ok && d.Pattern() == "" {
			d.SetPattern(s.Pattern())
		}
	}
	if s, ok := src.(params.ElementTyped); ok {
		if d, ok := dst.(params.ElementTyped); ok && d.ElementType().IsZero() {
			d.SetElementType(s.ElementType())
		}
	}
	if s, ok := src.(params.KeyValueTyped); ok {
		if d, ok := dst.(params.KeyValueTyped); ok && d.KeyType().IsZero() {
			d.SetKeyValueTypes(s.KeyType(), s.ValueType())
		}
	}
}

func narrowSize(p params.SizeBounds, lo, hi int) {
	curLo, curHi := p.SizeBounds()
	p.SetSizeBounds(max(curLo, lo), min(curHi, hi))
}
