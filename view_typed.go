package depot

import (
	"iter"
	"reflect"
)

// viewStorage resolves T's storage for a view. Types a strict registry has
// never registered get an empty placeholder, which Register[T] later turns
// into the real storage.
func viewStorage[T any](r *Registry) *ComponentStorage[T] {
	s, err := storageOf[T](r)
	if err == nil {
		return s
	}
	typ := reflect.TypeFor[T]()
	if p, ok := r.placeholders[typ]; ok {
		return p.(*ComponentStorage[T])
	}
	s = newComponentStorage[T](0, 0, StorageEvents{}, nil)
	r.placeholders[typ] = s
	return s
}

// View1 iterates every entity carrying A.
type View1[A any] struct {
	viewCore
	a *ComponentStorage[A]
}

func NewView1[A any](r *Registry, opts ...ViewOption) View1[A] {
	a := viewStorage[A](r)
	return View1[A]{
		viewCore: newViewCore(r, []Pool{a}, opts),
		a:        a,
	}
}

func (v View1[A]) All() iter.Seq2[Entity, *A] {
	if len(v.without) == 0 {
		return v.a.All()
	}
	return func(yield func(Entity, *A) bool) {
		for e := range v.Entities() {
			if !yield(e, v.a.get(e)) {
				return
			}
		}
	}
}

func (v View1[A]) Each(fn func(Entity, *A)) {
	for e, a := range v.All() {
		fn(e, a)
	}
}

// Get returns e's component, or nil if e does not carry A.
func (v View1[A]) Get(e Entity) *A {
	c, _ := v.a.Get(e)
	return c
}

type Row2[A, B any] struct {
	A *A
	B *B
}

// View2 iterates every entity carrying both A and B.
type View2[A, B any] struct {
	viewCore
	a *ComponentStorage[A]
	b *ComponentStorage[B]
}

func NewView2[A, B any](r *Registry, opts ...ViewOption) View2[A, B] {
	a, b := viewStorage[A](r), viewStorage[B](r)
	return View2[A, B]{
		viewCore: newViewCore(r, []Pool{a, b}, opts),
		a:        a,
		b:        b,
	}
}

func (v View2[A, B]) All() iter.Seq2[Entity, Row2[A, B]] {
	return func(yield func(Entity, Row2[A, B]) bool) {
		for e := range v.Entities() {
			if !yield(e, Row2[A, B]{A: v.a.get(e), B: v.b.get(e)}) {
				return
			}
		}
	}
}

func (v View2[A, B]) Each(fn func(Entity, *A, *B)) {
	for e := range v.Entities() {
		fn(e, v.a.get(e), v.b.get(e))
	}
}

// Get returns every component of e. Entries are nil where e lacks the type.
func (v View2[A, B]) Get(e Entity) (*A, *B) {
	return v.Get1(e), v.Get2(e)
}

func (v View2[A, B]) Get1(e Entity) *A {
	c, _ := v.a.Get(e)
	return c
}

func (v View2[A, B]) Get2(e Entity) *B {
	c, _ := v.b.Get(e)
	return c
}

type Row3[A, B, C any] struct {
	A *A
	B *B
	C *C
}

// View3 iterates every entity carrying A, B and C.
type View3[A, B, C any] struct {
	viewCore
	a *ComponentStorage[A]
	b *ComponentStorage[B]
	c *ComponentStorage[C]
}

func NewView3[A, B, C any](r *Registry, opts ...ViewOption) View3[A, B, C] {
	a, b, c := viewStorage[A](r), viewStorage[B](r), viewStorage[C](r)
	return View3[A, B, C]{
		viewCore: newViewCore(r, []Pool{a, b, c}, opts),
		a:        a,
		b:        b,
		c:        c,
	}
}

func (v View3[A, B, C]) All() iter.Seq2[Entity, Row3[A, B, C]] {
	return func(yield func(Entity, Row3[A, B, C]) bool) {
		for e := range v.Entities() {
			row := Row3[A, B, C]{A: v.a.get(e), B: v.b.get(e), C: v.c.get(e)}
			if !yield(e, row) {
				return
			}
		}
	}
}

func (v View3[A, B, C]) Each(fn func(Entity, *A, *B, *C)) {
	for e := range v.Entities() {
		fn(e, v.a.get(e), v.b.get(e), v.c.get(e))
	}
}

func (v View3[A, B, C]) Get(e Entity) (*A, *B, *C) {
	return v.Get1(e), v.Get2(e), v.Get3(e)
}

func (v View3[A, B, C]) Get1(e Entity) *A {
	c, _ := v.a.Get(e)
	return c
}

func (v View3[A, B, C]) Get2(e Entity) *B {
	c, _ := v.b.Get(e)
	return c
}

func (v View3[A, B, C]) Get3(e Entity) *C {
	c, _ := v.c.Get(e)
	return c
}

type Row4[A, B, C, D any] struct {
	A *A
	B *B
	C *C
	D *D
}

// View4 iterates every entity carrying A, B, C and D.
type View4[A, B, C, D any] struct {
	viewCore
	a *ComponentStorage[A]
	b *ComponentStorage[B]
	c *ComponentStorage[C]
	d *ComponentStorage[D]
}

func NewView4[A, B, C, D any](r *Registry, opts ...ViewOption) View4[A, B, C, D] {
	a, b, c, d := viewStorage[A](r), viewStorage[B](r), viewStorage[C](r), viewStorage[D](r)
	return View4[A, B, C, D]{
		viewCore: newViewCore(r, []Pool{a, b, c, d}, opts),
		a:        a,
		b:        b,
		c:        c,
		d:        d,
	}
}

func (v View4[A, B, C, D]) All() iter.Seq2[Entity, Row4[A, B, C, D]] {
	return func(yield func(Entity, Row4[A, B, C, D]) bool) {
		for e := range v.Entities() {
			row := Row4[A, B, C, D]{A: v.a.get(e), B: v.b.get(e), C: v.c.get(e), D: v.d.get(e)}
			if !yield(e, row) {
				return
			}
		}
	}
}

func (v View4[A, B, C, D]) Each(fn func(Entity, *A, *B, *C, *D)) {
	for e := range v.Entities() {
		fn(e, v.a.get(e), v.b.get(e), v.c.get(e), v.d.get(e))
	}
}

func (v View4[A, B, C, D]) Get(e Entity) (*A, *B, *C, *D) {
	return v.Get1(e), v.Get2(e), v.Get3(e), v.Get4(e)
}

func (v View4[A, B, C, D]) Get1(e Entity) *A {
	c, _ := v.a.Get(e)
	return c
}

func (v View4[A, B, C, D]) Get2(e Entity) *B {
	c, _ := v.b.Get(e)
	return c
}

func (v View4[A, B, C, D]) Get3(e Entity) *C {
	c, _ := v.c.Get(e)
	return c
}

func (v View4[A, B, C, D]) Get4(e Entity) *D {
	c, _ := v.d.Get(e)
	return c
}
