package depot

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// ViewOption adjusts a view at construction.
type ViewOption func(*Registry, *viewCore)

// Without excludes entities carrying T from a view. T is resolved each
// time the view runs, so a type first seen after the view was built is
// still excluded.
func Without[T any]() ViewOption {
	return func(_ *Registry, v *viewCore) {
		v.without = append(v.without, reflect.TypeFor[T]())
	}
}

// viewCore is the query planner shared by the typed views. It holds plain
// references to the participating storages; it must not outlive the
// registry that built it.
type viewCore struct {
	reg     *Registry
	include []Pool
	without []reflect.Type
}

func newViewCore(r *Registry, include []Pool, opts []ViewOption) viewCore {
	v := viewCore{reg: r, include: include}
	for _, opt := range opts {
		opt(r, &v)
	}
	return v
}

// plan picks the smallest storage as the pivot and orders the remaining
// storages by ascending size, so the likeliest miss is probed first.
func (v viewCore) plan() (Pool, []Pool) {
	others := make([]Pool, 0, len(v.include)-1)
	pivot := v.include[0]
	for _, p := range v.include[1:] {
		if p.Len() < pivot.Len() {
			others = append(others, pivot)
			pivot = p
		} else {
			others = append(others, p)
		}
	}
	for i := 1; i < len(others); i++ {
		for j := i; j > 0 && others[j].Len() < others[j-1].Len(); j-- {
			others[j], others[j-1] = others[j-1], others[j]
		}
	}
	return pivot, others
}

// exclusion returns the signature bits of the excluded types the registry
// knows about. Unknown types are on no entity and contribute nothing.
func (v viewCore) exclusion() (mask.Mask, bool) {
	var m mask.Mask
	found := false
	for _, typ := range v.without {
		if ct, ok := v.reg.catalog.lookup(typ); ok {
			m.Mark(uint32(ct.id))
			found = true
		}
	}
	return m, found
}

func (v viewCore) matches(e Entity, probes []Pool, exclude mask.Mask, excluding bool) bool {
	for _, p := range probes {
		if !p.Contains(e) {
			return false
		}
	}
	if excluding {
		sig := v.reg.signatures[e.index]
		return sig.ContainsNone(exclude)
	}
	return true
}

// Contains reports whether e currently satisfies the view.
func (v viewCore) Contains(e Entity) bool {
	exclude, excluding := v.exclusion()
	return v.reg.entities.valid(e) && v.matches(e, v.include, exclude, excluding)
}

// SizeHint is an upper bound on the number of matches: the pivot's size.
func (v viewCore) SizeHint() int {
	pivot, _ := v.plan()
	return pivot.Len()
}

// Entities yields matching entities in pivot dense order. The plan is made
// when iteration starts, so each pass reflects the storages at that time.
func (v viewCore) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		pivot, probes := v.plan()
		exclude, excluding := v.exclusion()
		for _, e := range pivot.Entities() {
			if v.matches(e, probes, exclude, excluding) && !yield(e) {
				return
			}
		}
	}
}

// Count walks the view and returns the number of matches.
func (v viewCore) Count() int {
	n := 0
	for range v.Entities() {
		n++
	}
	return n
}
