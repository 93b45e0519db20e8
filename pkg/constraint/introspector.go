package constraint

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conduit-lang/fixtures/pkg/errors"
)

// Introspector resolves the constraints that apply to an element.
type Introspector struct {
	catalog *Catalog
}

// NewIntrospector creates an introspector over catalog. A nil catalog means
// only struct tags are consulted.
func NewIntrospector(catalog *Catalog) *Introspector {
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Introspector{catalog: catalog}
}

// Catalog returns the catalog the introspector reads.
func (in *Introspector) Catalog() *Catalog {
	return in.catalog
}

// MaxNesting bounds how deep constraint expansion descends.
const MaxNesting = 32

// Constraints returns the constraints declared on elem whose groups
// intersect groups. Composed constraints are included together with their
// expansion; parts that declare no groups inherit the groups of the
// constraint composing them. No groups means Default.
func (in *Introspector) Constraints(elem Element, groups ...Group) ([]Constraint, error) {
	if elem.Static || elem.Kind == Variable {
		return nil, nil
	}

	declared, err := in.declared(elem)
	if err != nil {
		return nil, err
	}

	active := make(map[Group]bool, len(groups))
	for _, g := range groups {
		active[g] = true
	}
	if len(active) == 0 {
		active[Default] = true
	}

	var (
		result  []Constraint
		visited = make(map[*Composed]bool)
		path    = make(map[any]bool)
	)
	var expand func(c Constraint, inherited []Group, depth int) error
	expand = func(c Constraint, inherited []Group, depth int) error {
		if depth > MaxNesting {
			return errors.IllegalArgument("%s: constraint %s nests deeper than %d levels", elem.Key(), c.Name(), MaxNesting)
		}
		effective := effectiveGroups(c, inherited)
		if !intersects(effective, active) {
			return nil
		}
		if composed, ok := c.(*Composed); ok {
			if visited[composed] {
				return nil
			}
			visited[composed] = true
		}
		nested := c.Nested()
		if len(nested) > 0 && reflect.ValueOf(c).Comparable() {
			if path[c] {
				return nil
			}
			path[c] = true
			defer delete(path, c)
		}

		result = append(result, c)
		for _, n := range nested {
			if err := expand(n, effective, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range declared {
		if err := expand(c, []Group{Default}, 0); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// declared gathers tag and catalog declarations for elem, tag first.
func (in *Introspector) declared(elem Element) ([]Constraint, error) {
	var out []Constraint

	if tag, ok := elem.Tag.Lookup(TagKey); ok && strings.TrimSpace(tag) != "-" && (elem.Kind == Field || elem.Kind == TypeArgument) {
		node, err := parseTag(tag, in.catalog.Composed)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", elem.Key())
		}
		if node = node.at(elem.path); node != nil {
			out = append(out, node.own...)
		}
	}

	return append(out, in.catalog.Declarations(elem)...), nil
}

// Property finds the element backing the named property of owner. Accessor
// methods Get<Name>, Is<Name> and <Name> win when the catalog declares
// constraints on them; otherwise the struct field is used.
func (in *Introspector) Property(owner reflect.Type, name string) (Element, error) {
	owner = indirect(owner)
	if owner == nil || name == "" {
		return Element{}, errors.IllegalArgument("property lookup needs an owner and a name")
	}

	exported := upperFirst(name)
	for _, candidate := range []string{"Get" + exported, "Is" + exported, exported} {
		m, ok := lookupMethod(owner, candidate)
		if !ok || !isAccessor(m) {
			continue
		}
		elem := MethodOf(owner, m)
		if in.catalog.hasDeclarations(elem) {
			return elem, nil
		}
	}

	if owner.Kind() == reflect.Struct {
		for _, candidate := range []string{name, exported, lowerFirst(name)} {
			if sf, ok := owner.FieldByName(candidate); ok {
				return FieldOf(owner, sf), nil
			}
		}
	}

	return Element{}, errors.Newf("property %s not found on %s", name, owner)
}

// Fields returns the settable fields of a struct in declaration order.
// Fields tagged fixture:"-" are skipped.
func (in *Introspector) Fields(owner reflect.Type) ([]Element, error) {
	owner = indirect(owner)
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil, errors.IllegalArgument("%v is not a struct", owner)
	}

	var out []Element
	for i := 0; i < owner.NumField(); i++ {
		sf := owner.Field(i)
		if !sf.IsExported() {
			continue
		}
		if strings.TrimSpace(sf.Tag.Get(TagKey)) == "-" {
			continue
		}
		out = append(out, FieldOf(owner, sf))
	}
	return out, nil
}

// isAccessor reports whether m takes no arguments besides its receiver and
// returns a value.
func isAccessor(m reflect.Method) bool {
	return m.Type.NumIn() == 1 && m.Type.NumOut() >= 1
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
