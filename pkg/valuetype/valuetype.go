// Package valuetype describes the types generators produce and elements
// declare. A Type is captured once from its declaration site and never
// changes afterwards.
package valuetype

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Type identifies a value type: a raw Go type plus its resolved generic
// arguments.
type Type struct {
	raw     reflect.Type
	args    []Type
	id      string
	display string
}

// Of returns the descriptor for T.
func Of[T any]() Type {
	return FromReflect(reflect.TypeFor[T]())
}

// FromReflect builds a descriptor from a reflect.Type. Container kinds expose
// their element (and key, for maps) as generic arguments. A container that
// refers to itself, such as type List []List, stops at the first repetition.
func FromReflect(rt reflect.Type) Type {
	return fromReflect(rt, nil)
}

func fromReflect(rt reflect.Type, enclosing map[reflect.Type]bool) Type {
	if rt == nil {
		return Type{}
	}
	if enclosing[rt] {
		return newType(rt, nil)
	}

	var args []Type
	switch rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer, reflect.Chan, reflect.Map:
		if enclosing == nil {
			enclosing = make(map[reflect.Type]bool)
		}
		enclosing[rt] = true
		if rt.Kind() == reflect.Map {
			args = []Type{fromReflect(rt.Key(), enclosing)}
		}
		args = append(args, fromReflect(rt.Elem(), enclosing))
		delete(enclosing, rt)
	}

	return newType(rt, args)
}

// Generic binds explicit type arguments to raw. Use it for named generic
// types whose arguments reflection cannot recover.
func Generic(raw reflect.Type, args ...Type) Type {
	copied := make([]Type, len(args))
	copy(copied, args)
	return newType(raw, copied)
}

func newType(raw reflect.Type, args []Type) Type {
	t := Type{raw: raw, args: args}
	t.id = t.render(identity)
	t.display = t.render(reflect.Type.String)
	return t
}

// Raw returns the underlying Go type, or nil for the zero Type.
func (t Type) Raw() reflect.Type {
	return t.raw
}

// Kind returns the reflect kind of the raw type.
func (t Type) Kind() reflect.Kind {
	if t.raw == nil {
		return reflect.Invalid
	}
	return t.raw.Kind()
}

// IsZero reports whether t describes nothing.
func (t Type) IsZero() bool {
	return t.raw == nil
}

// Args returns a copy of the generic arguments.
func (t Type) Args() []Type {
	out := make([]Type, len(t.args))
	copy(out, t.args)
	return out
}

// NumArgs returns the number of generic arguments.
func (t Type) NumArgs() int {
	return len(t.args)
}

// Arg returns the i-th generic argument, or the zero Type if absent.
func (t Type) Arg(i int) Type {
	if i < 0 || i >= len(t.args) {
		return Type{}
	}
	return t.args[i]
}

// ID is the stable identity of the descriptor within the process. Two
// descriptors share an ID exactly when they are Equal, even if distinct Go
// types print the same, such as function-local types of one name.
func (t Type) ID() string {
	return t.id
}

// String returns the type as Go prints it, plus explicit arguments.
func (t Type) String() string {
	if t.raw == nil {
		return "<invalid>"
	}
	return t.display
}

// Equal reports whether both descriptors have the same raw type and, for
// kinds whose arguments reflection cannot recover, the same explicit
// arguments.
func (t Type) Equal(other Type) bool {
	if t.raw != other.raw {
		return false
	}
	if t.raw == nil || derivedArgs(t.raw) {
		return true
	}
	if len(t.args) != len(other.args) {
		return false
	}
	for i := range t.args {
		if !t.args[i].Equal(other.args[i]) {
			return false
		}
	}
	return true
}

// AssignableTo reports whether values of t can be assigned to other.
func (t Type) AssignableTo(other Type) bool {
	if t.raw == nil || other.raw == nil {
		return false
	}
	return t.raw.AssignableTo(other.raw)
}

// Zero returns the zero value of the raw type, wrapped in an interface.
func (t Type) Zero() any {
	if t.raw == nil {
		return nil
	}
	return reflect.Zero(t.raw).Interface()
}

// render names t with name. Reflection-visible arguments are already part of
// the raw type; explicit arguments on other kinds are appended.
func (t Type) render(name func(reflect.Type) string) string {
	if t.raw == nil {
		return ""
	}
	s := name(t.raw)
	if len(t.args) == 0 || derivedArgs(t.raw) {
		return s
	}

	parts := make([]string, len(t.args))
	for i, a := range t.args {
		parts[i] = a.render(name)
	}
	return s + "[" + strings.Join(parts, ", ") + "]"
}

// identities numbers the distinct types sharing a printed name.
var identities = struct {
	sync.Mutex
	byName map[string][]reflect.Type
}{byName: make(map[string][]reflect.Type)}

// identity is rt.String() for the first type printed that way and
// rt.String()#n for the n-th other one.
func identity(rt reflect.Type) string {
	name := rt.String()

	identities.Lock()
	defer identities.Unlock()
	seen := identities.byName[name]
	i := 0
	for ; i < len(seen); i++ {
		if seen[i] == rt {
			break
		}
	}
	if i == len(seen) {
		identities.byName[name] = append(seen, rt)
	}
	if i == 0 {
		return name
	}
	return name + "#" + strconv.Itoa(i)
}

func derivedArgs(rt reflect.Type) bool {
	switch rt.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer, reflect.Chan, reflect.Map:
		return true
	}
	return false
}
