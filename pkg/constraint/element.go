package constraint

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/conduit-lang/fixtures/pkg/valuetype"
)

// ElementKind classifies program elements that carry constraints.
type ElementKind int

const (
	// Field is a struct field, reached directly or as a property.
	Field ElementKind = iota
	// MethodResult is the first result of a method.
	MethodResult
	// Parameter is a method or function parameter.
	Parameter
	// ConstructorArg is an argument of a declared constructor function.
	ConstructorArg
	// TypeArgument is a generic argument of another element's type.
	TypeArgument
	// Variable is a package-level variable. Variables never carry
	// constraints.
	Variable
)

// String returns the kind name.
func (k ElementKind) String() string {
	switch k {
	case Field:
		return "field"
	case MethodResult:
		return "method"
	case Parameter:
		return "parameter"
	case ConstructorArg:
		return "constructor-arg"
	case TypeArgument:
		return "type-argument"
	case Variable:
		return "variable"
	default:
		return "unknown"
	}
}

// TagKey is the struct tag key holding field constraints.
const TagKey = "fixture"

// Element is a program element whose declared type and constraints drive
// generation.
type Element struct {
	Kind ElementKind
	// Owner is the declaring type; nil for package-level functions and
	// variables.
	Owner reflect.Type
	// Name is the field, method, function or variable name.
	Name string
	// Index is the parameter, argument or type-argument position.
	Index int
	// Type is the declared value type.
	Type valuetype.Type
	// Static marks elements outside the instance model.
	Static bool
	// Tag is the struct tag for fields and their type arguments.
	Tag reflect.StructTag

	root string
	path []int
}

// FieldOf returns the element for a struct field.
func FieldOf(owner reflect.Type, sf reflect.StructField) Element {
	return Element{
		Kind:  Field,
		Owner: owner,
		Name:  sf.Name,
		Index: sf.Index[len(sf.Index)-1],
		Type:  valuetype.FromReflect(sf.Type),
		Tag:   sf.Tag,
	}
}

// MethodOf returns the element for the first result of a method.
func MethodOf(owner reflect.Type, m reflect.Method) Element {
	var typ valuetype.Type
	if m.Type.NumOut() > 0 {
		typ = valuetype.FromReflect(m.Type.Out(0))
	}
	return Element{Kind: MethodResult, Owner: owner, Name: m.Name, Type: typ}
}

// ParameterOf returns the element for parameter index of a function or method
// named name. Owner may be nil for package-level functions.
func ParameterOf(owner reflect.Type, name string, index int, typ valuetype.Type) Element {
	return Element{Kind: Parameter, Owner: owner, Name: name, Index: index, Type: typ}
}

// ConstructorArgOf returns the element for argument index of the constructor
// producing owner.
func ConstructorArgOf(owner reflect.Type, index int, typ valuetype.Type) Element {
	return Element{Kind: ConstructorArg, Owner: owner, Index: index, Type: typ}
}

// VariableOf returns the element for a package-level variable.
func VariableOf(name string, typ valuetype.Type) Element {
	return Element{Kind: Variable, Name: name, Type: typ, Static: true}
}

// TypeArgument returns the element for the i-th generic argument of e.
func (e Element) TypeArgument(i int) Element {
	path := make([]int, len(e.path), len(e.path)+1)
	copy(path, e.path)
	root := e.root
	if root == "" {
		root = e.Key()
	}
	return Element{
		Kind:   TypeArgument,
		Owner:  e.Owner,
		Name:   e.Name,
		Index:  i,
		Type:   e.Type.Arg(i),
		Static: e.Static,
		Tag:    e.Tag,
		root:   root,
		path:   append(path, i),
	}
}

// Key is the identity under which declarations for e are stored.
func (e Element) Key() string {
	owner := "-"
	if e.Owner != nil {
		owner = e.Owner.String()
	}

	switch e.Kind {
	case Field:
		return fmt.Sprintf("field:%s.%s", owner, e.Name)
	case MethodResult:
		return fmt.Sprintf("method:%s.%s", owner, e.Name)
	case Parameter:
		return fmt.Sprintf("param:%s.%s#%d", owner, e.Name, e.Index)
	case ConstructorArg:
		return fmt.Sprintf("ctor:%s#%d", owner, e.Index)
	case Variable:
		return "var:" + e.Name
	case TypeArgument:
		var b strings.Builder
		b.WriteString(e.root)
		for _, i := range e.path {
			fmt.Fprintf(&b, "<%d>", i)
		}
		return b.String()
	default:
		return "unknown:" + e.Name
	}
}

// String describes e for messages.
func (e Element) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Kind, e.Key(), e.Type)
}
