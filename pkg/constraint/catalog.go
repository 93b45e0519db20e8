package constraint

import (
	"reflect"
	"sync"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// Catalog records constraint declarations that Go cannot attach to a
// declaration site itself: method results, parameters, constructor
// arguments, named composed constraints and constructor functions.
// Struct fields declare theirs in the fixture tag and may add more here.
type Catalog struct {
	mu           sync.RWMutex
	declarations map[string][]Constraint
	composed     map[string]*Composed
	constructors map[reflect.Type]*Constructor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		declarations: make(map[string][]Constraint),
		composed:     make(map[string]*Composed),
		constructors: make(map[reflect.Type]*Constructor),
	}
}

// Declare attaches constraints to elem.
func (c *Catalog) Declare(elem Element, constraints ...Constraint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := elem.Key()
	c.declarations[key] = append(c.declarations[key], constraints...)
}

// DeclareField attaches constraints to a struct field in addition to its tag.
func (c *Catalog) DeclareField(owner reflect.Type, field string, constraints ...Constraint) error {
	owner = indirect(owner)
	if owner == nil || owner.Kind() != reflect.Struct {
		return errors.IllegalArgument("%s is not a struct", owner)
	}
	sf, ok := owner.FieldByName(field)
	if !ok {
		return errors.IllegalArgument("field %s not found on %s", field, owner)
	}
	c.Declare(FieldOf(owner, sf), constraints...)
	return nil
}

// DeclareMethod attaches constraints to the result of a method of owner.
func (c *Catalog) DeclareMethod(owner reflect.Type, method string, constraints ...Constraint) error {
	owner = indirect(owner)
	if owner == nil {
		return errors.IllegalArgument("method %s needs an owner type", method)
	}
	m, ok := lookupMethod(owner, method)
	if !ok {
		return errors.IllegalArgument("method %s not found on %s", method, owner)
	}
	c.Declare(MethodOf(owner, m), constraints...)
	return nil
}

// Compose registers a named composed constraint usable from tags as
// "use=<name>". Parts may reference constraints composed earlier.
func (c *Catalog) Compose(name string, parts ...Constraint) *Composed {
	composed := Compose(name, parts...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.composed[name] = composed
	return composed
}

// Composed returns a named composed constraint.
func (c *Catalog) Composed(name string) (*Composed, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	composed, ok := c.composed[name]
	return composed, ok
}

// Declarations returns the constraints declared for elem through the catalog.
func (c *Catalog) Declarations(elem Element) []Constraint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	declared := c.declarations[elem.Key()]
	out := make([]Constraint, len(declared))
	copy(out, declared)
	return out
}

func (c *Catalog) hasDeclarations(elem Element) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.declarations[elem.Key()]) > 0
}

// Constructor is a function registered to build values of Out. The function
// may return a trailing error.
type Constructor struct {
	Func         reflect.Value
	Out          reflect.Type
	Args         []Element
	ReturnsError bool
}

var errorType = reflect.TypeFor[error]()

// DeclareConstructor registers fn as the way to build its first result type.
// argConstraints[i] is attached to argument i.
func (c *Catalog) DeclareConstructor(fn any, argConstraints ...[]Constraint) (*Constructor, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.IllegalArgument("constructor must be a non-nil function, got %T", fn)
	}

	ft := v.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, errors.IllegalArgument("constructor %s must return T or (T, error)", ft)
	}
	if ft.IsVariadic() {
		return nil, errors.IllegalArgument("constructor %s must not be variadic", ft)
	}
	if len(argConstraints) > ft.NumIn() {
		return nil, errors.IllegalArgument("constructor %s takes %d arguments, got constraints for %d", ft, ft.NumIn(), len(argConstraints))
	}

	ctor := &Constructor{
		Func:         v,
		Out:          ft.Out(0),
		ReturnsError: ft.NumOut() == 2,
	}
	for i := 0; i < ft.NumIn(); i++ {
		ctor.Args = append(ctor.Args, ConstructorArgOf(ctor.Out, i, valuetype.FromReflect(ft.In(i))))
	}
	for i, cs := range argConstraints {
		c.Declare(ctor.Args[i], cs...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.constructors[ctor.Out] = ctor
	return ctor, nil
}

// Constructor returns the constructor registered for rt.
func (c *Catalog) Constructor(rt reflect.Type) (*Constructor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ctor, ok := c.constructors[rt]
	return ctor, ok
}

// HasConstructor reports whether a constructor for rt is registered.
func (c *Catalog) HasConstructor(rt reflect.Type) bool {
	_, ok := c.Constructor(rt)
	return ok
}

func indirect(rt reflect.Type) reflect.Type {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}

// lookupMethod finds a method on owner or *owner.
func lookupMethod(owner reflect.Type, name string) (reflect.Method, bool) {
	if m, ok := owner.MethodByName(name); ok {
		return m, true
	}
	if owner.Kind() != reflect.Pointer && owner.Kind() != reflect.Interface {
		return reflect.PointerTo(owner).MethodByName(name)
	}
	return reflect.Method{}, false
}
