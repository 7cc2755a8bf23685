package depot

import "fmt"

// Entity is an opaque handle made of a slot index and a generation.
// Two entities are equal iff both parts match. The zero value is the null
// entity and is never issued by an allocator.
type Entity struct {
	index      uint32
	generation uint32
}

// Null is the zero entity. It is never valid.
var Null Entity

// Index returns the slot the entity occupies.
func (e Entity) Index() uint32 {
	return e.index
}

// Generation returns the slot generation the handle was issued for.
func (e Entity) Generation() uint32 {
	return e.generation
}

func (e Entity) IsNull() bool {
	return e == Null
}

func (e Entity) String() string {
	if e.IsNull() {
		return "Entity(null)"
	}
	return fmt.Sprintf("Entity(%d:%d)", e.index, e.generation)
}

type slot struct {
	generation uint32
	alive      bool
}

// entityAllocator issues entity handles and recycles freed slots. A slot's
// generation is bumped on destroy, so handles to the previous occupant stop
// validating.
type entityAllocator struct {
	slots []slot
	free  []uint32
	live  int
}

func newEntityAllocator(capacity int) entityAllocator {
	return entityAllocator{
		slots: make([]slot, 0, capacity),
	}
}

func (a *entityAllocator) create() Entity {
	a.live++
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[index]
		s.alive = true
		return Entity{index: index, generation: s.generation}
	}
	index := uint32(len(a.slots))
	a.slots = append(a.slots, slot{generation: 1, alive: true})
	return Entity{index: index, generation: 1}
}

func (a *entityAllocator) destroy(e Entity) error {
	if !a.valid(e) {
		return StaleEntityError{Entity: e}
	}
	s := &a.slots[e.index]
	s.alive = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	a.free = append(a.free, e.index)
	a.live--
	return nil
}

func (a *entityAllocator) valid(e Entity) bool {
	if e.generation == 0 || int(e.index) >= len(a.slots) {
		return false
	}
	s := a.slots[e.index]
	return s.alive && s.generation == e.generation
}

// current returns the live handle occupying index, if any.
func (a *entityAllocator) current(index uint32) (Entity, bool) {
	if int(index) >= len(a.slots) {
		return Null, false
	}
	s := a.slots[index]
	if !s.alive {
		return Null, false
	}
	return Entity{index: index, generation: s.generation}, true
}

func (a *entityAllocator) reserve(n int) {
	if cap(a.slots)-len(a.slots) >= n {
		return
	}
	grown := make([]slot, len(a.slots), len(a.slots)+n)
	copy(grown, a.slots)
	a.slots = grown
}

// size is the number of slots ever issued, live or free.
func (a *entityAllocator) size() int {
	return len(a.slots)
}
