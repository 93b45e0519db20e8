package constraint

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/conduit-lang/fixtures/pkg/errors"
)

// tagNode is a parsed fixture tag: the constraints of the element itself and
// of its type arguments.
type tagNode struct {
	own  []Constraint
	args map[int]*tagNode
}

func (n *tagNode) at(path []int) *tagNode {
	cur := n
	for _, i := range path {
		if cur == nil {
			return nil
		}
		cur = cur.args[i]
	}
	return cur
}

func (n *tagNode) child(i int) *tagNode {
	if n.args == nil {
		n.args = make(map[int]*tagNode)
	}
	c, ok := n.args[i]
	if !ok {
		c = &tagNode{}
		n.args[i] = c
	}
	return c
}

var groupSuffix = regexp.MustCompile(`@([A-Za-z0-9_.\-]+(\|[A-Za-z0-9_.\-]+)*)$`)

// argPrefixes route a tag item to a type argument.
var argPrefixes = []struct {
	prefix string
	index  int
}{
	{"elem:", 0},
	{"key:", 0},
	{"value:", 1},
}

// parseTag parses the grammar
//
//	item  = { "elem:" | "key:" | "value:" } name [ "=" arg ] [ "@" group { "|" group } ]
//	tag   = item { ";" item }
//
// with names notnull, size (a..b), min, max, pattern and use (a composed
// constraint known to lookup).
func parseTag(tag string, lookup func(string) (*Composed, bool)) (*tagNode, error) {
	root := &tagNode{}
	for _, raw := range strings.Split(tag, ";") {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}

		node := root
		for routed := true; routed; {
			routed = false
			for _, p := range argPrefixes {
				if strings.HasPrefix(item, p.prefix) {
					node = node.child(p.index)
					item = item[len(p.prefix):]
					routed = true
					break
				}
			}
		}

		c, err := parseItem(item, lookup)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s tag item %q", TagKey, strings.TrimSpace(raw))
		}
		node.own = append(node.own, c)
	}
	return root, nil
}

func parseItem(item string, lookup func(string) (*Composed, bool)) (Constraint, error) {
	var scope Scope
	if m := groupSuffix.FindStringSubmatchIndex(item); m != nil {
		var groups []Group
		for _, g := range strings.Split(item[m[2]:m[3]], "|") {
			groups = append(groups, Group(g))
		}
		scope = In(groups...)
		item = item[:m[0]]
	}

	name, arg, hasArg := strings.Cut(item, "=")
	name = strings.TrimSpace(name)
	arg = strings.TrimSpace(arg)

	switch name {
	case "notnull":
		if hasArg {
			return nil, errors.Newf("notnull takes no argument")
		}
		return NotNull{Scope: scope}, nil

	case "size":
		min, max, err := parseRange(arg)
		if err != nil {
			return nil, err
		}
		return Size{Scope: scope, Min: min, Max: max}, nil

	case "min", "max":
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s needs an integer", name)
		}
		if name == "min" {
			return Min{Scope: scope, Value: v}, nil
		}
		return Max{Scope: scope, Value: v}, nil

	case "pattern":
		if _, err := regexp.Compile(arg); err != nil {
			return nil, errors.Wrap(err, "pattern does not compile")
		}
		return Pattern{Scope: scope, Regexp: arg}, nil

	case "use":
		composed, ok := lookup(arg)
		if !ok {
			return nil, errors.Newf("unknown composed constraint %q", arg)
		}
		if len(scope.groups) == 0 {
			return composed, nil
		}
		scoped := *composed
		scoped.Scope = scope
		return &scoped, nil

	default:
		return nil, errors.Newf("unknown constraint %q", name)
	}
}

// parseRange parses "a..b", "a.." or "..b". A single number means exactly
// that size.
func parseRange(arg string) (int, int, error) {
	lo, hi, isRange := strings.Cut(arg, "..")
	if !isRange {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return 0, 0, errors.Wrap(err, "size needs a range a..b")
		}
		return n, n, nil
	}

	min, max := 0, math.MaxInt
	var err error
	if lo = strings.TrimSpace(lo); lo != "" {
		if min, err = strconv.Atoi(lo); err != nil {
			return 0, 0, errors.Wrap(err, "invalid size lower bound")
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		if max, err = strconv.Atoi(hi); err != nil {
			return 0, 0, errors.Wrap(err, "invalid size upper bound")
		}
	}
	if min < 0 || min > max {
		return 0, 0, errors.Newf("size range %d..%d is empty", min, max)
	}
	return min, max, nil
}
