package depot

import (
	"iter"
	"reflect"
	"sort"
)

var _ Pool = &ComponentStorage[struct{}]{}

// ComponentStorage is a sparse set holding at most one T per entity.
//
// Values live in a gap-free dense array parallel to the array of their
// owning entities; the sparse array maps an entity's slot index to its dense
// position. Removal swaps the last element into the hole, so dense order is
// insertion order only until the first removal. Pointers returned by Get or
// yielded during iteration are invalidated by any structural change.
type ComponentStorage[T any] struct {
	id     ComponentID
	name   string
	dense  []Entity
	values []T
	sparse []int
	events StorageEvents
	owner  owner
}

// NewComponentStorage returns a standalone storage not bound to any
// registry. It does not validate entity liveness.
func NewComponentStorage[T any]() *ComponentStorage[T] {
	return newComponentStorage[T](0, Config.initialCapacity, StorageEvents{}, nil)
}

func newComponentStorage[T any](id ComponentID, capacity int, events StorageEvents, o owner) *ComponentStorage[T] {
	return &ComponentStorage[T]{
		id:     id,
		name:   componentName[T](),
		dense:  make([]Entity, 0, capacity),
		values: make([]T, 0, capacity),
		events: events,
		owner:  o,
	}
}

// bind attaches a detached, empty storage to a registry.
func (s *ComponentStorage[T]) bind(id ComponentID, capacity int, events StorageEvents, o owner) {
	s.id = id
	s.events = events
	s.owner = o
	s.Reserve(capacity)
}

func componentName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func (s *ComponentStorage[T]) ID() ComponentID {
	return s.id
}

func (s *ComponentStorage[T]) Name() string {
	return s.name
}

func (s *ComponentStorage[T]) Len() int {
	return len(s.dense)
}

// Entities returns the dense entity array. The slice is owned by the
// storage and must not be modified.
func (s *ComponentStorage[T]) Entities() []Entity {
	return s.dense
}

// Values returns the dense value array, aligned with Entities.
func (s *ComponentStorage[T]) Values() []T {
	return s.values
}

// position resolves the dense position recorded for a slot index.
func (s *ComponentStorage[T]) position(index uint32) (int, bool) {
	if int(index) >= len(s.sparse) {
		return 0, false
	}
	pos := s.sparse[index]
	if pos >= len(s.dense) || s.dense[pos].index != index {
		return 0, false
	}
	return pos, true
}

func (s *ComponentStorage[T]) Contains(e Entity) bool {
	pos, ok := s.position(e.index)
	return ok && s.dense[pos] == e
}

func (s *ComponentStorage[T]) Emplace(e Entity, value T) error {
	if s.owner != nil && s.owner.locked() {
		return LockedRegistryError{}
	}
	if e.IsNull() || (s.owner != nil && !s.owner.valid(e)) {
		return StaleEntityError{Entity: e}
	}
	if pos, ok := s.position(e.index); ok {
		if s.dense[pos] == e {
			return DuplicateComponentError{Entity: e, Component: s.name}
		}
		// The slot is still held by an earlier generation.
		return StaleEntityError{Entity: e}
	}
	if int(e.index) >= len(s.sparse) {
		grown := make([]int, max(int(e.index)+1, 2*len(s.sparse)))
		copy(grown, s.sparse)
		s.sparse = grown
	}
	s.sparse[e.index] = len(s.dense)
	s.dense = append(s.dense, e)
	s.values = append(s.values, value)
	if s.owner != nil {
		s.owner.attach(e, s.id)
	}
	if s.events.OnEmplace != nil {
		s.events.OnEmplace(s.id, e)
	}
	return nil
}

func (s *ComponentStorage[T]) Remove(e Entity) error {
	if s.owner != nil && s.owner.locked() {
		return LockedRegistryError{}
	}
	pos, ok := s.position(e.index)
	if !ok || s.dense[pos] != e {
		return MissingComponentError{Entity: e, Component: s.name}
	}
	if s.events.OnRemove != nil {
		s.events.OnRemove(s.id, e)
	}
	last := len(s.dense) - 1
	if pos != last {
		moved := s.dense[last]
		s.dense[pos] = moved
		s.values[pos] = s.values[last]
		s.sparse[moved.index] = pos
	}
	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	if s.owner != nil {
		s.owner.detach(e, s.id)
	}
	return nil
}

func (s *ComponentStorage[T]) Get(e Entity) (*T, error) {
	pos, ok := s.position(e.index)
	if !ok || s.dense[pos] != e {
		return nil, MissingComponentError{Entity: e, Component: s.name}
	}
	return &s.values[pos], nil
}

// get skips the error path for callers that already know e is present.
func (s *ComponentStorage[T]) get(e Entity) *T {
	return &s.values[s.sparse[e.index]]
}

// Replace overwrites an existing component and fires the update hook.
func (s *ComponentStorage[T]) Replace(e Entity, value T) error {
	return s.Patch(e, func(v *T) { *v = value })
}

// Patch applies fn to the stored component in place and fires the update
// hook.
func (s *ComponentStorage[T]) Patch(e Entity, fn func(*T)) error {
	v, err := s.Get(e)
	if err != nil {
		return err
	}
	fn(v)
	if s.events.OnUpdate != nil {
		s.events.OnUpdate(s.id, e)
	}
	return nil
}

// All yields every (entity, component) pair in dense order. The sequence
// reads the live arrays at each step and may be restarted.
func (s *ComponentStorage[T]) All() iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := 0; i < len(s.dense); i++ {
			if !yield(s.dense[i], &s.values[i]) {
				return
			}
		}
	}
}

func (s *ComponentStorage[T]) Each(fn func(Entity, *T)) {
	for i := 0; i < len(s.dense); i++ {
		fn(s.dense[i], &s.values[i])
	}
}

// Clear removes every component, firing remove hooks for each.
func (s *ComponentStorage[T]) Clear() error {
	for len(s.dense) > 0 {
		if err := s.Remove(s.dense[len(s.dense)-1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *ComponentStorage[T]) Reserve(n int) {
	if cap(s.dense)-len(s.dense) >= n {
		return
	}
	dense := make([]Entity, len(s.dense), len(s.dense)+n)
	copy(dense, s.dense)
	values := make([]T, len(s.values), len(s.values)+n)
	copy(values, s.values)
	s.dense, s.values = dense, values
}

// Sort reorders the dense arrays by entity. Iteration afterwards follows
// the new order until the next removal.
func (s *ComponentStorage[T]) Sort(less func(a, b Entity) bool) {
	sort.Sort(denseSorter[T]{s: s, less: func(i, j int) bool {
		return less(s.dense[i], s.dense[j])
	}})
	s.reindex()
}

// SortByEntity orders the dense arrays by slot index, then generation.
func (s *ComponentStorage[T]) SortByEntity() {
	s.Sort(func(a, b Entity) bool {
		if a.index != b.index {
			return a.index < b.index
		}
		return a.generation < b.generation
	})
}

// SortComponents reorders the dense arrays by component value.
func (s *ComponentStorage[T]) SortComponents(less func(a, b *T) bool) {
	sort.Sort(denseSorter[T]{s: s, less: func(i, j int) bool {
		return less(&s.values[i], &s.values[j])
	}})
	s.reindex()
}

func (s *ComponentStorage[T]) reindex() {
	for pos, e := range s.dense {
		s.sparse[e.index] = pos
	}
}

type denseSorter[T any] struct {
	s    *ComponentStorage[T]
	less func(i, j int) bool
}

func (d denseSorter[T]) Len() int {
	return len(d.s.dense)
}

func (d denseSorter[T]) Less(i, j int) bool {
	return d.less(i, j)
}

func (d denseSorter[T]) Swap(i, j int) {
	d.s.dense[i], d.s.dense[j] = d.s.dense[j], d.s.dense[i]
	d.s.values[i], d.s.values[j] = d.s.values[j], d.s.values[i]
}
