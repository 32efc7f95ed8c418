package source

import (
	"context"
	"strconv"
)

// Child is one record of a named subcollection.
type Child struct {
	// Key is the child's key within the collection: the object key, or the
	// decimal array index for collections exported as arrays.
	Key string
	// Keyed is true when the collection was an object, meaning Key is a
	// stable source identifier rather than a positional index.
	Keyed bool
	Node  *Node
}

// Bundle is the per-entity unit of work: the entity's scalar/nested-lookup
// fields plus its named subcollections, split apart by the Walker.
type Bundle struct {
	// Key is the entity's top-level key, normally its identifier.
	Key string
	// Record is the undecomposed entity subtree. Structural search runs
	// over it, so substructures buried inside collection-shaped objects
	// are still reachable.
	Record *Node
	// Flat holds every field that is not a subcollection. May be a scalar
	// node when the source record itself is malformed; the mapper rejects
	// those per record.
	Flat *Node
	// Collections maps subcollection names (e.g. "withdrawals") to their
	// child records in document order.
	Collections map[string][]Child
}

// Walker decomposes each top-level entity under a root into a Bundle.
// It is read-only and enforces no write order; iteration order equals key
// order in the source document.
type Walker struct {
	src Source
}

// NewWalker returns a Walker over src.
func NewWalker(src Source) *Walker {
	return &Walker{src: src}
}

// Bundles reads the subtree at root and returns one Bundle per top-level
// key. An absent root yields a nil slice. A root that is not an object is
// treated as absent.
func (w *Walker) Bundles(ctx context.Context, root string) ([]Bundle, error) {
	node, err := w.src.ReadSubtree(ctx, root)
	if err != nil {
		return nil, err
	}
	if node == nil || node.Kind() != KindObject {
		return nil, nil
	}

	bundles := make([]Bundle, 0, node.Len())
	for _, key := range node.Keys() {
		bundles = append(bundles, decompose(key, node.Child(key)))
	}
	return bundles, nil
}

// decompose splits one entity record into flat fields and subcollections.
func decompose(key string, record *Node) Bundle {
	b := Bundle{Key: key, Record: record, Collections: make(map[string][]Child)}

	if record.Kind() != KindObject {
		b.Flat = record
		return b
	}

	flat := Object()
	for _, field := range record.Keys() {
		value := record.Child(field)
		if children, ok := collectionChildren(value); ok {
			b.Collections[field] = children
			continue
		}
		flat.Set(field, value)
	}
	b.Flat = flat
	return b
}

// collectionChildren classifies a field value as a subcollection: a keyed
// object or an array holding at least one object child. Non-object children
// of a collection ride along so the mapper can reject them per record; a
// corrupt sibling must not make the valid ones vanish. Null array holes
// (a realtime-database export artifact) are skipped. Containers with no
// object children at all, including empty ones, stay flat.
func collectionChildren(value *Node) ([]Child, bool) {
	switch value.Kind() {
	case KindObject:
		children := make([]Child, 0, value.Len())
		sawRecord := false
		for _, key := range value.Keys() {
			child := value.Child(key)
			if child.Kind() == KindObject {
				sawRecord = true
			}
			children = append(children, Child{Key: key, Keyed: true, Node: child})
		}
		if !sawRecord {
			return nil, false
		}
		return children, true
	case KindArray:
		var children []Child
		sawRecord := false
		for i, elem := range value.Elems() {
			if elem.Kind() == KindScalar && elem.Value() == nil {
				continue
			}
			if elem.Kind() == KindObject {
				sawRecord = true
			}
			children = append(children, Child{Key: strconv.Itoa(i), Node: elem})
		}
		if !sawRecord {
			return nil, false
		}
		return children, true
	}
	return nil, false
}
