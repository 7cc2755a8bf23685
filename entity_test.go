package depot

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// Test component types
type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	X, Y, Z float32
}

type Health struct {
	Value float32
}

type Name struct {
	Value string
}

func TestEntityCreation(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"Single entity", 1},
		{"Small batch", 10},
		{"Large batch", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := newEntityAllocator(0)
			seen := make(map[Entity]struct{}, tt.count)

			for i := 0; i < tt.count; i++ {
				e := alloc.create()
				if e.IsNull() {
					t.Fatalf("entity %d is null", i)
				}
				if !alloc.valid(e) {
					t.Errorf("entity %v is invalid", e)
				}
				if e.Generation() != 1 {
					t.Errorf("fresh entity %v has generation %d, want 1", e, e.Generation())
				}
				if _, dup := seen[e]; dup {
					t.Fatalf("entity %v issued twice", e)
				}
				seen[e] = struct{}{}
			}
			if alloc.live != tt.count {
				t.Errorf("live = %d, want %d", alloc.live, tt.count)
			}
		})
	}
}

func TestEntityRecycling(t *testing.T) {
	alloc := newEntityAllocator(0)
	first := alloc.create()
	second := alloc.create()

	if err := alloc.destroy(first); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if alloc.valid(first) {
		t.Errorf("destroyed entity %v still valid", first)
	}
	if !alloc.valid(second) {
		t.Errorf("untouched entity %v invalidated", second)
	}

	reused := alloc.create()
	if reused.Index() != first.Index() {
		t.Errorf("reused index = %d, want %d", reused.Index(), first.Index())
	}
	if reused.Generation() != first.Generation()+1 {
		t.Errorf("reused generation = %d, want %d", reused.Generation(), first.Generation()+1)
	}
	if reused == first {
		t.Errorf("recycled handle equals the stale one")
	}
	if alloc.valid(first) {
		t.Errorf("stale handle %v validates against recycled slot", first)
	}

	err := alloc.destroy(first)
	if !errors.Is(err, ErrStaleEntity) {
		t.Errorf("destroy of stale handle error = %v, want ErrStaleEntity", err)
	}
}

func TestEntityDoubleDestroy(t *testing.T) {
	alloc := newEntityAllocator(0)
	e := alloc.create()
	if err := alloc.destroy(e); err != nil {
		t.Fatalf("first destroy failed: %v", err)
	}
	if err := alloc.destroy(e); !errors.Is(err, ErrStaleEntity) {
		t.Errorf("second destroy error = %v, want ErrStaleEntity", err)
	}
	if alloc.live != 0 {
		t.Errorf("live = %d after double destroy, want 0", alloc.live)
	}
}

func TestEntityNullNeverValid(t *testing.T) {
	alloc := newEntityAllocator(0)
	alloc.create()
	if alloc.valid(Null) {
		t.Errorf("null entity is valid")
	}
	if err := alloc.destroy(Null); !errors.Is(err, ErrStaleEntity) {
		t.Errorf("destroy(Null) error = %v, want ErrStaleEntity", err)
	}
	if Null.String() != "Entity(null)" {
		t.Errorf("Null.String() = %q", Null.String())
	}
}

func TestEntityGenerationWrap(t *testing.T) {
	alloc := newEntityAllocator(0)
	e := alloc.create()
	alloc.slots[e.Index()].generation = math.MaxUint32
	e = Entity{index: e.Index(), generation: math.MaxUint32}

	if err := alloc.destroy(e); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	reused := alloc.create()
	if reused.Generation() != 1 {
		t.Errorf("generation after wrap = %d, want 1", reused.Generation())
	}
	if reused.IsNull() {
		t.Errorf("wrapped entity is null")
	}
}

func TestEntityUniquenessUnderChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alloc := newEntityAllocator(0)
	live := make([]Entity, 0, 512)

	for step := 0; step < 5000; step++ {
		if len(live) == 0 || rng.Intn(3) > 0 {
			live = append(live, alloc.create())
		} else {
			i := rng.Intn(len(live))
			if err := alloc.destroy(live[i]); err != nil {
				t.Fatalf("step %d: destroy failed: %v", step, err)
			}
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if step%500 != 0 {
			continue
		}
		slots := make(map[uint32]Entity, len(live))
		for _, e := range live {
			if prev, ok := slots[e.Index()]; ok {
				t.Fatalf("step %d: %v and %v share a slot", step, prev, e)
			}
			slots[e.Index()] = e
			if !alloc.valid(e) {
				t.Fatalf("step %d: live entity %v invalid", step, e)
			}
		}
	}
	if alloc.live != len(live) {
		t.Errorf("live = %d, want %d", alloc.live, len(live))
	}
}
