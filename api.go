package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// ComponentID is the per-registry identifier of a component type. It is
// assigned when the type is first seen (or registered) and never changes for
// the lifetime of the registry.
type ComponentID uint32

// Pool is the type-erased face of a ComponentStorage. The registry keeps
// one Pool per component type and downcasts to the concrete storage when a
// typed operation needs it.
type Pool interface {
	ID() ComponentID
	Name() string
	Len() int
	Contains(Entity) bool
	Entities() []Entity
	Remove(Entity) error
}

// QueryNode is a predicate over an entity's component signature.
type QueryNode interface {
	Evaluate(signature mask.Mask) bool
}

// Query builds predicate trees from component IDs and nested nodes.
type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type iCursor interface {
	Entities() iter.Seq[Entity]
	Next() bool
	Entity() Entity
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(K, T) (int, error)
	Len() int
}

// owner is implemented by the registry so that storages created by it keep
// entity signatures current and reject stale handles.
type owner interface {
	valid(Entity) bool
	locked() bool
	attach(Entity, ComponentID)
	detach(Entity, ComponentID)
}
