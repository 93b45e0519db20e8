package valuetype

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/conduit-lang/fixtures/pkg/errors"
)

// Parser turns Go type expressions such as "[]string", "map[string]*int" or
// "[4]uint8" into descriptors. Named types must be defined before use.
type Parser struct {
	names map[string]reflect.Type
}

// NewParser returns a parser that knows the predeclared Go types plus
// time.Time and time.Duration.
func NewParser() *Parser {
	p := &Parser{names: make(map[string]reflect.Type)}
	for _, rt := range []reflect.Type{
		reflect.TypeFor[bool](),
		reflect.TypeFor[string](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[float32](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[time.Duration](),
	} {
		p.names[rt.String()] = rt
	}
	p.names["byte"] = reflect.TypeFor[byte]()
	p.names["rune"] = reflect.TypeFor[rune]()
	p.names["any"] = reflect.TypeFor[any]()
	return p
}

// Define makes a named type available to Parse.
func (p *Parser) Define(name string, rt reflect.Type) {
	p.names[name] = rt
}

// Names returns the defined type names.
func (p *Parser) Names() []string {
	names := make([]string, 0, len(p.names))
	for name := range p.names {
		names = append(names, name)
	}
	return names
}

// Parse parses a type expression.
func (p *Parser) Parse(expr string) (Type, error) {
	rt, rest, err := p.parse(strings.TrimSpace(expr))
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, errors.Newf("unexpected %q after type in %q", rest, expr)
	}
	return FromReflect(rt), nil
}

func (p *Parser) parse(s string) (reflect.Type, string, error) {
	switch {
	case s == "":
		return nil, "", errors.Newf("missing type")

	case strings.HasPrefix(s, "[]"):
		elem, rest, err := p.parse(s[2:])
		if err != nil {
			return nil, "", err
		}
		return reflect.SliceOf(elem), rest, nil

	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, "", errors.Newf("unterminated array length in %q", s)
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 {
			return nil, "", errors.Newf("invalid array length %q", s[1:end])
		}
		elem, rest, err := p.parse(s[end+1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.ArrayOf(n, elem), rest, nil

	case strings.HasPrefix(s, "*"):
		elem, rest, err := p.parse(s[1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.PointerTo(elem), rest, nil

	case strings.HasPrefix(s, "map["):
		key, rest, err := p.parse(s[4:])
		if err != nil {
			return nil, "", err
		}
		if !strings.HasPrefix(rest, "]") {
			return nil, "", errors.Newf("expected ']' after map key in %q", s)
		}
		if !key.Comparable() {
			return nil, "", errors.Newf("invalid map key type %s", key)
		}
		value, rest, err := p.parse(rest[1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.MapOf(key, value), rest, nil
	}

	end := strings.IndexAny(s, "]")
	if end < 0 {
		end = len(s)
	}
	name := s[:end]
	rt, ok := p.names[name]
	if !ok {
		return nil, "", errors.Newf("unknown type %q", name)
	}
	return rt, s[end:], nil
}
