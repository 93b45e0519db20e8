// Package constraint provides the declarative constraint vocabulary, the
// program elements constraints are attached to, and the introspector that
// resolves which constraints apply to an element under a set of validation
// groups.
package constraint

import (
	"fmt"
	"strings"
)

// Group is a validation group. Constraints without explicit groups belong to
// Default.
type Group string

// Default is the group of constraints that declare none.
const Default Group = "Default"

// Constraint is an immutable declarative fact about an element.
type Constraint interface {
	// Name is the vocabulary name, e.g. "size".
	Name() string
	// Groups returns the declared groups; empty means Default.
	Groups() []Group
	// Nested returns the constraints this one is composed of.
	Nested() []Constraint
}

// Scope carries the declared groups of a constraint. Embed it.
type Scope struct {
	groups []Group
}

// In returns a Scope for the given groups.
func In(groups ...Group) Scope {
	g := make([]Group, len(groups))
	copy(g, groups)
	return Scope{groups: g}
}

// Groups returns a copy of the declared groups.
func (s Scope) Groups() []Group {
	out := make([]Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// Nested returns nil; only Composed nests.
func (Scope) Nested() []Constraint {
	return nil
}

func (s Scope) suffix() string {
	if len(s.groups) == 0 {
		return ""
	}
	names := make([]string, len(s.groups))
	for i, g := range s.groups {
		names[i] = string(g)
	}
	return "@" + strings.Join(names, "|")
}

// NotNull forbids nil.
type NotNull struct {
	Scope
}

func (NotNull) Name() string { return "notnull" }

func (c NotNull) String() string { return "notnull" + c.suffix() }

// Size bounds the length of a string or the number of elements of a
// collection, both inclusive.
type Size struct {
	Scope
	Min int
	Max int
}

func (Size) Name() string { return "size" }

func (c Size) String() string { return fmt.Sprintf("size=%d..%d%s", c.Min, c.Max, c.suffix()) }

// Min sets an inclusive lower bound on a number.
type Min struct {
	Scope
	Value int64
}

func (Min) Name() string { return "min" }

func (c Min) String() string { return fmt.Sprintf("min=%d%s", c.Value, c.suffix()) }

// Max sets an inclusive upper bound on a number.
type Max struct {
	Scope
	Value int64
}

func (Max) Name() string { return "max" }

func (c Max) String() string { return fmt.Sprintf("max=%d%s", c.Value, c.suffix()) }

// Pattern restricts text to a regular expression.
type Pattern struct {
	Scope
	Regexp string
}

func (Pattern) Name() string { return "pattern" }

func (c Pattern) String() string { return "pattern=" + c.Regexp + c.suffix() }

// Composed is a named constraint made of other constraints. Composed values
// are shared by pointer; identity is what breaks expansion cycles.
type Composed struct {
	Scope
	Label string
	Parts []Constraint
}

// Compose builds a composed constraint in the Default group.
func Compose(label string, parts ...Constraint) *Composed {
	p := make([]Constraint, len(parts))
	copy(p, parts)
	return &Composed{Label: label, Parts: p}
}

func (c *Composed) Name() string { return c.Label }

// Nested returns a copy of the parts.
func (c *Composed) Nested() []Constraint {
	out := make([]Constraint, len(c.Parts))
	copy(out, c.Parts)
	return out
}

func (c *Composed) String() string { return "use=" + c.Label + c.suffix() }

// effectiveGroups returns the declared groups of c, or inherited when c
// declares none.
func effectiveGroups(c Constraint, inherited []Group) []Group {
	if g := c.Groups(); len(g) > 0 {
		return g
	}
	return inherited
}

// intersects reports whether any of declared is active.
func intersects(declared []Group, active map[Group]bool) bool {
	for _, g := range declared {
		if active[g] {
			return true
		}
	}
	return false
}
