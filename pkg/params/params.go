// Package params defines generation parameters: mutable bags of constraints
// that steer a generator. Parameters are organised by capability so that an
// extractor written against, say, SizeBounds applies to every parameters type
// carrying size bounds.
package params

import (
	"math"

	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Parameters is implemented by every parameters bag.
type Parameters interface {
	// Clone returns an independent copy.
	Clone() Parameters
}

// Nullability is the capability of allowing or forbidding nil.
type Nullability interface {
	Parameters
	Nullable() bool
	SetNullable(nullable bool)
}

// SizeBounds is the capability of bounding a length or element count.
type SizeBounds interface {
	Parameters
	SizeBounds() (min, max int)
	SetSizeBounds(min, max int)
}

// NumericBounds is the capability of bounding a numeric value.
type NumericBounds interface {
	Parameters
	NumericBounds() (min, max int64)
	SetNumericBounds(min, max int64)
}

// Patterned is the capability of restricting text to a regular expression.
type Patterned interface {
	Parameters
	Pattern() string
	SetPattern(pattern string)
}

// ElementTyped is the capability of carrying a single generic argument.
type ElementTyped interface {
	Parameters
	ElementType() valuetype.Type
	SetElementType(t valuetype.Type)
}

// KeyValueTyped is the capability of carrying key and value generic arguments.
type KeyValueTyped interface {
	Parameters
	KeyType() valuetype.Type
	ValueType() valuetype.Type
	SetKeyValueTypes(key, value valuetype.Type)
}

// ArgumentSourced is the capability of carrying extraction sources for the
// generic arguments of the value, such as constraints on slice elements.
type ArgumentSourced interface {
	Parameters
	ArgumentSources(i int) []any
	AddArgumentSources(i int, sources ...any)
}

// ArgumentSources is a source that targets generic argument Index.
type ArgumentSources struct {
	Index   int
	Sources []any
}

// Default bounds used by the constructors below.
const (
	DefaultMaxSize   = 8
	DefaultMaxLength = 16
)

// Basic carries only nullability. Generators without richer needs use it.
type Basic struct {
	nullable bool
}

// NewBasic returns parameters that allow nil.
func NewBasic() *Basic {
	return &Basic{nullable: true}
}

func (b *Basic) Nullable() bool            { return b.nullable }
func (b *Basic) SetNullable(nullable bool) { b.nullable = nullable }

func (b *Basic) Clone() Parameters {
	c := *b
	return &c
}

// sizeRange is embedded by the bags that carry size bounds.
type sizeRange struct {
	minSize int
	maxSize int
}

func (s *sizeRange) SizeBounds() (int, int) { return s.minSize, s.maxSize }

func (s *sizeRange) SetSizeBounds(min, max int) {
	s.minSize = min
	s.maxSize = max
}

// argumentSources is embedded by the bags that carry generic arguments.
type argumentSources struct {
	args map[int][]any
}

func (a *argumentSources) ArgumentSources(i int) []any {
	return append([]any(nil), a.args[i]...)
}

func (a *argumentSources) AddArgumentSources(i int, sources ...any) {
	if len(sources) == 0 {
		return
	}
	if a.args == nil {
		a.args = make(map[int][]any)
	}
	a.args[i] = append(a.args[i], sources...)
}

func (a argumentSources) clone() argumentSources {
	if a.args == nil {
		return a
	}
	args := make(map[int][]any, len(a.args))
	for i, s := range a.args {
		args[i] = append([]any(nil), s...)
	}
	return argumentSources{args: args}
}

// String parameterises text generation.
type String struct {
	Basic
	sizeRange
	pattern string
}

// NewString returns string parameters with lengths in [0, DefaultMaxLength].
func NewString() *String {
	return &String{
		Basic:     Basic{nullable: true},
		sizeRange: sizeRange{minSize: 0, maxSize: DefaultMaxLength},
	}
}

func (s *String) Pattern() string           { return s.pattern }
func (s *String) SetPattern(pattern string) { s.pattern = pattern }

func (s *String) Clone() Parameters {
	c := *s
	return &c
}

// Number parameterises integer and floating point generation.
type Number struct {
	Basic
	min int64
	max int64
}

// NewNumber returns number parameters spanning the full int64 range.
// Generators clamp to the range of the concrete kind.
func NewNumber() *Number {
	return &Number{
		Basic: Basic{nullable: true},
		min:   math.MinInt64,
		max:   math.MaxInt64,
	}
}

func (n *Number) NumericBounds() (int64, int64) { return n.min, n.max }

func (n *Number) SetNumericBounds(min, max int64) {
	n.min = min
	n.max = max
}

func (n *Number) Clone() Parameters {
	c := *n
	return &c
}

// Collection parameterises slices and arrays.
type Collection struct {
	Basic
	sizeRange
	argumentSources
	element valuetype.Type
}

// NewCollection returns collection parameters with sizes in [0, DefaultMaxSize].
func NewCollection() *Collection {
	return &Collection{
		Basic:     Basic{nullable: true},
		sizeRange: sizeRange{minSize: 0, maxSize: DefaultMaxSize},
	}
}

func (c *Collection) ElementType() valuetype.Type     { return c.element }
func (c *Collection) SetElementType(t valuetype.Type) { c.element = t }

func (c *Collection) Clone() Parameters {
	cp := *c
	cp.argumentSources = c.argumentSources.clone()
	return &cp
}

// Map parameterises maps.
type Map struct {
	Basic
	sizeRange
	argumentSources
	key   valuetype.Type
	value valuetype.Type
}

// NewMap returns map parameters with sizes in [0, DefaultMaxSize].
func NewMap() *Map {
	return &Map{
		Basic:     Basic{nullable: true},
		sizeRange: sizeRange{minSize: 0, maxSize: DefaultMaxSize},
	}
}

func (m *Map) KeyType() valuetype.Type   { return m.key }
func (m *Map) ValueType() valuetype.Type { return m.value }

func (m *Map) SetKeyValueTypes(key, value valuetype.Type) {
	m.key = key
	m.value = value
}

func (m *Map) Clone() Parameters {
	c := *m
	c.argumentSources = m.argumentSources.clone()
	return &c
}

// Pointer parameterises pointers: nullability plus the pointee type.
type Pointer struct {
	Basic
	argumentSources
	element valuetype.Type
}

// NewPointer returns pointer parameters that allow nil.
func NewPointer() *Pointer {
	return &Pointer{Basic: Basic{nullable: true}}
}

func (p *Pointer) ElementType() valuetype.Type     { return p.element }
func (p *Pointer) SetElementType(t valuetype.Type) { p.element = t }

func (p *Pointer) Clone() Parameters {
	c := *p
	c.argumentSources = p.argumentSources.clone()
	return &c
}
