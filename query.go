package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []ComponentID
	nodeMask   mask.Mask
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []ComponentID) *compositeNode {
	n := &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
	for _, id := range components {
		n.nodeMask.Mark(uint32(id))
	}
	return n
}

func (n *compositeNode) Evaluate(signature mask.Mask) bool {
	switch n.op {
	case OpAnd:
		if !signature.ContainsAll(n.nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(signature) {
				return false
			}
		}
		return true

	case OpOr:
		if signature.ContainsAny(n.nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(signature) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(signature) {
				return false
			}
		}
		return signature.ContainsNone(n.nodeMask)
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items)
}

// node builds a composite node. The first node built becomes the root.
func (q *query) node(op Operation, items []interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(op, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) ([]ComponentID, []QueryNode) {
	components := make([]ComponentID, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case ComponentID:
			components = append(components, v)
		case []ComponentID:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, children
}

func (q *query) Evaluate(signature mask.Mask) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(signature)
}

// required returns the component IDs every match must carry, if the node
// is a conjunction.
func required(node QueryNode) []ComponentID {
	switch n := node.(type) {
	case *query:
		if n.root == nil {
			return nil
		}
		return required(n.root)
	case *compositeNode:
		if n.op == OpAnd {
			return n.components
		}
	}
	return nil
}

// Match yields the live entities satisfying node. Conjunctions pivot on
// their smallest required storage; anything else scans every live entity.
func (r *Registry) Match(node QueryNode) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		candidates, ok := r.candidates(node)
		if !ok {
			return
		}
		for e := range candidates {
			if node.Evaluate(r.signatures[e.index]) && !yield(e) {
				return
			}
		}
	}
}

// candidates returns the entities worth evaluating against node. It reports
// false when a required component type is unknown, so nothing can match.
func (r *Registry) candidates(node QueryNode) (iter.Seq[Entity], bool) {
	ids := required(node)
	if len(ids) == 0 {
		return r.Entities(), true
	}
	var pivot Pool
	for _, id := range ids {
		p, ok := r.Pool(id)
		if !ok {
			return nil, false
		}
		if pivot == nil || p.Len() < pivot.Len() {
			pivot = p
		}
	}
	return func(yield func(Entity) bool) {
		for _, e := range pivot.Entities() {
			if !yield(e) {
				return
			}
		}
	}, true
}
