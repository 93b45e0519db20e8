// Package extract folds metadata sources (constraints, type descriptors,
// other parameters) into generation parameters.
package extract

import (
	"fmt"
	"reflect"

	"github.com/conduit-lang/fixtures/pkg/params"
	"github.com/conduit-lang/fixtures/pkg/priority"
)

// Extractor merges one kind of source into one capability of parameters.
// Extract must narrow monotonically: the stricter of two bounds wins and
// nullability only ever turns off.
type Extractor interface {
	// SourceType is the Go type of sources the extractor accepts; sources
	// whose dynamic type is assignable to it are accepted.
	SourceType() reflect.Type
	// TargetType is the parameters capability or concrete type written.
	TargetType() reflect.Type
	// Extract folds source into target. Callers guarantee both types match.
	Extract(source any, target params.Parameters)
}

// Option configures extractors built with New.
type Option func(*funcOptions)

type funcOptions struct {
	name     string
	priority int
}

// WithName distinguishes extractors sharing source and target types.
func WithName(name string) Option {
	return func(o *funcOptions) { o.name = name }
}

// WithPriority sets the priority; the default is priority.Default.
func WithPriority(p int) Option {
	return func(o *funcOptions) { o.priority = p }
}

// Func is an Extractor built from a function over S and P.
type Func[S any, P params.Parameters] struct {
	fn       func(source S, target P)
	name     string
	priority int
}

// New declares an extractor from sources of type S into parameters of type
// P. P is usually a capability interface such as params.SizeBounds.
func New[S any, P params.Parameters](fn func(source S, target P), opts ...Option) *Func[S, P] {
	o := funcOptions{priority: priority.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return &Func[S, P]{fn: fn, name: o.name, priority: o.priority}
}

func (f *Func[S, P]) SourceType() reflect.Type { return reflect.TypeFor[S]() }
func (f *Func[S, P]) TargetType() reflect.Type { return reflect.TypeFor[P]() }
func (f *Func[S, P]) Priority() int            { return f.priority }

// Identity distinguishes Func values with the same type parameters.
func (f *Func[S, P]) Identity() string { return f.name }

func (f *Func[S, P]) Extract(source any, target params.Parameters) {
	f.fn(source.(S), target.(P))
}

// String names the extractor for listings.
func (f *Func[S, P]) String() string {
	name := f.name
	if name == "" {
		name = "extractor"
	}
	return fmt.Sprintf("%s(%s -> %s)", name, f.SourceType(), f.TargetType())
}

// Describe returns a readable label for any extractor.
func Describe(e Extractor) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T(%s -> %s)", e, e.SourceType(), e.TargetType())
}

// accepts reports whether e takes source.
func accepts(e Extractor, source any) bool {
	st := e.SourceType()
	if st == nil || source == nil {
		return false
	}
	return reflect.TypeOf(source).AssignableTo(st)
}

// specificity ranks target types: concrete types first, then interfaces by
// method count, so the narrowest capability is consulted before broader ones.
func specificity(target reflect.Type) int {
	if target == nil {
		return -1
	}
	if target.Kind() != reflect.Interface {
		return 1 << 20
	}
	return target.NumMethod()
}
