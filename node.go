package entangld

import (
	"sort"

	"golang.org/x/exp/maps"
)

type nodeKind int

const (
	nodeMap nodeKind = iota
	nodeSeq
	nodePrimitive
	nodeCallable
)

// CallableFunc is a callable leaf: invoked on get, it may return a plain
// value or a *Future (see future.go) whose eventual value the store
// continues resolving into.
type CallableFunc func(params any) (any, error)

// node is the tagged-variant tree a Store's local data forms: a node is
// exactly one of Map(children), Seq(items), Primitive(v), or
// Callable(fn).
type node struct {
	kind     nodeKind
	children map[string]*node // nodeMap
	items    []*node          // nodeSeq
	primitive any             // nodePrimitive: string, float64, bool, or nil
	callable CallableFunc     // nodeCallable
}

func newMapNode() *node {
	return &node{kind: nodeMap, children: map[string]*node{}}
}

func newSeqNode() *node {
	return &node{kind: nodeSeq, items: []*node{}}
}

func newPrimitiveNode(v any) *node {
	return &node{kind: nodePrimitive, primitive: v}
}

func newCallableNode(fn CallableFunc) *node {
	return &node{kind: nodeCallable, callable: fn}
}

// fromValue converts an arbitrary Go value into a node tree. Accepted
// shapes: map[string]any (→ Map), []any (→ Seq), CallableFunc (→
// Callable), and anything else treated as a Primitive leaf (string,
// bool, numeric types, nil).
func fromValue(v any) *node {
	switch t := v.(type) {
	case CallableFunc:
		return newCallableNode(t)
	case func(any) (any, error):
		return newCallableNode(CallableFunc(t))
	case map[string]any:
		n := newMapNode()
		for k, cv := range t {
			n.children[k] = fromValue(cv)
		}
		return n
	case []any:
		n := newSeqNode()
		for _, cv := range t {
			n.items = append(n.items, fromValue(cv))
		}
		return n
	default:
		return newPrimitiveNode(v)
	}
}

// toValue projects a node back into plain Go values (map[string]any,
// []any, primitives). depth < 0 means unlimited: the full subtree is
// returned. depth >= 0 implements depth-limited get: primitive leaves
// are always kept; a container encountered at depth 0 is returned empty
// (preserving its kind); otherwise the container is recursed into with
// depth-1.
func (n *node) toValue(depth int) any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case nodePrimitive:
		return n.primitive
	case nodeCallable:
		// a callable leaf embedded inside a larger result (e.g. a sibling
		// of the path actually requested) is returned as the callable
		// itself, not invoked — only the leaf a get's path terminates on
		// gets invoked (store_get.go). deref_mode's pass over the result
		// is what turns any surviving callable into its value.
		return n.callable
	case nodeMap:
		if depth == 0 {
			return map[string]any{}
		}
		out := make(map[string]any, len(n.children))
		for k, c := range n.children {
			out[k] = c.toValue(depth - 1)
		}
		return out
	case nodeSeq:
		if depth == 0 {
			return []any{}
		}
		out := make([]any, 0, len(n.items))
		for _, c := range n.items {
			out = append(out, c.toValue(depth-1))
		}
		return out
	}
	return nil
}

// clone makes a deep, independent copy of the node tree. Map and
// sequence nodes are copied; a callable node's function value is shared
// with the original.
func (n *node) clone() *node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case nodeMap:
		c := newMapNode()
		for k, v := range n.children {
			c.children[k] = v.clone()
		}
		return c
	case nodeSeq:
		c := newSeqNode()
		for _, v := range n.items {
			c.items = append(c.items, v.clone())
		}
		return c
	case nodeCallable:
		return &node{kind: nodeCallable, callable: n.callable}
	default:
		return &node{kind: nodePrimitive, primitive: n.primitive}
	}
}

// isEmptyMap reports whether n is a Map node with no children — the
// shape a freshly-attached mount placeholder has.
func (n *node) isEmptyMap() bool {
	return n != nil && n.kind == nodeMap && len(n.children) == 0
}

// sortedKeys returns m's keys in sorted order, used when building the
// Namespaces snapshot.
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
