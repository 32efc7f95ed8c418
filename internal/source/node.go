// Package source reads the schemaless, tree-shaped export of the
// hierarchical store and decomposes it into per-entity bundles.
//
// The tree is modeled as a typed variant (object, array, scalar) rather than
// raw interface{} values so that structural search and decomposition can
// be written against a closed set of shapes. Object key order follows the
// document, giving every walk a deterministic iteration order.
package source

import (
	"encoding/json"
	"fmt"
	"io"
)

// Kind discriminates the Node variant.
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindArray
)

// Node is one value in the source tree. Exactly one of the three shapes is
// populated, selected by Kind.
type Node struct {
	kind     Kind
	keys     []string
	children map[string]*Node
	elems    []*Node
	value    any // string, json.Number, bool, or nil
}

// Scalar returns a scalar node holding value.
func Scalar(value any) *Node {
	return &Node{kind: KindScalar, value: value}
}

// Object returns an empty object node. Fields are added with Set and
// iterate in insertion order.
func Object() *Node {
	return &Node{kind: KindObject, children: make(map[string]*Node)}
}

// Array returns an array node over elems.
func Array(elems ...*Node) *Node {
	return &Node{kind: KindArray, elems: elems}
}

// Kind reports the node's shape.
func (n *Node) Kind() Kind { return n.kind }

// Value returns the scalar value, or nil for objects and arrays.
func (n *Node) Value() any { return n.value }

// Keys returns the object's field names in document order.
func (n *Node) Keys() []string { return n.keys }

// Child returns the named field of an object node, or nil.
func (n *Node) Child(key string) *Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return n.children[key]
}

// Elems returns the array's elements.
func (n *Node) Elems() []*Node { return n.elems }

// Len returns the number of fields or elements; zero for scalars.
func (n *Node) Len() int {
	switch n.kind {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.elems)
	}
	return 0
}

// Set adds or replaces a field on an object node and returns the node for
// chaining. It panics on non-object nodes; fixtures and the parser are the
// only writers.
func (n *Node) Set(key string, child *Node) *Node {
	if n.kind != KindObject {
		panic("source: Set on non-object node")
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
	return n
}

// Interface converts the subtree back to plain Go values: objects to
// map[string]any, arrays to []any, scalars to their value. Used when
// consolidating unmapped fields into the extras column.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindObject:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.children[k].Interface()
		}
		return m
	case KindArray:
		out := make([]any, len(n.elems))
		for i, e := range n.elems {
			out[i] = e.Interface()
		}
		return out
	}
	return n.value
}

// Parse reads a complete JSON document from r into a Node tree. Numbers are
// kept as json.Number to avoid precision loss on identifiers and amounts.
func Parse(r io.Reader) (*Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after document")
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("reading object key: %w", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				child, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, fmt.Errorf("closing object: %w", err)
			}
			return obj, nil
		case '[':
			var elems []*Node
			for dec.More() {
				child, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, child)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, fmt.Errorf("closing array: %w", err)
			}
			return Array(elems...), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		// string, json.Number, bool, or nil.
		return Scalar(tok), nil
	}
}
