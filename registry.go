package depot

import (
	"iter"
	"reflect"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var _ owner = &Registry{}

// cursorLock is the lock bit held while any Cursor is iterating.
const cursorLock uint32 = 0

// Registry owns the entity allocator and one ComponentStorage per component
// type. Storages are created on first use (or on Register in strict mode)
// and live as long as the registry.
//
// A Registry is not safe for concurrent use. Structural changes to a
// storage while a view or iterator over it is running are undefined; use
// AddLock with the Enqueue variants to defer them instead.
type Registry struct {
	entities   entityAllocator
	catalog    catalog
	signatures []mask.Mask
	strict     bool
	capacity   int
	events     StorageEvents
	log        zerolog.Logger
	locks      mask.Mask
	cursors    int
	opQueue    opQueue

	// Empty storages handed to views over types a strict registry has not
	// registered yet. Register adopts them so those views stay live.
	placeholders map[reflect.Type]Pool
}

func newRegistry(capacity int, strict bool, events StorageEvents, logger zerolog.Logger) *Registry {
	return &Registry{
		entities:   newEntityAllocator(capacity),
		catalog:    newCatalog(),
		signatures: make([]mask.Mask, 0, capacity),
		strict:     strict,
		capacity:   capacity,
		events:     events,
		log:        logger,
		opQueue:    newOpQueue(),

		placeholders: make(map[reflect.Type]Pool),
	}
}

// Create issues a new entity. Creation never touches component storages
// and is allowed while the registry is locked.
func (r *Registry) Create() Entity {
	e := r.entities.create()
	if int(e.index) >= len(r.signatures) {
		r.signatures = append(r.signatures, mask.Mask{})
	}
	return e
}

// Destroy removes every component the entity carries and releases its slot.
func (r *Registry) Destroy(e Entity) error {
	if r.Locked() {
		return LockedRegistryError{}
	}
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	sig := r.signatures[e.index]
	for ct := range r.catalog.all {
		if !sig.ContainsAll(ct.bit) {
			continue
		}
		if err := ct.pool.Remove(e); err != nil {
			return eris.Wrapf(err, "purging %s from %v", ct.name, e)
		}
	}
	r.signatures[e.index] = mask.Mask{}
	return r.entities.destroy(e)
}

func (r *Registry) Valid(e Entity) bool {
	return r.entities.valid(e)
}

// Alive reports the number of live entities.
func (r *Registry) Alive() int {
	return r.entities.live
}

// Reserve preallocates room for n more entities.
func (r *Registry) Reserve(n int) {
	r.entities.reserve(n)
	if cap(r.signatures)-len(r.signatures) < n {
		grown := make([]mask.Mask, len(r.signatures), len(r.signatures)+n)
		copy(grown, r.signatures)
		r.signatures = grown
	}
}

// Entities yields every live entity in slot order.
func (r *Registry) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := 0; i < r.entities.size(); i++ {
			e, ok := r.entities.current(uint32(i))
			if ok && !yield(e) {
				return
			}
		}
	}
}

// Signature returns the set of component IDs the entity carries as a mask.
func (r *Registry) Signature(e Entity) mask.Mask {
	if !r.entities.valid(e) {
		return mask.Mask{}
	}
	return r.signatures[e.index]
}

// Orphan reports whether a live entity carries no components.
func (r *Registry) Orphan(e Entity) bool {
	return r.entities.valid(e) && r.signatures[e.index] == mask.Mask{}
}

// Components lists the IDs of the component types the entity carries, in
// registration order.
func (r *Registry) Components(e Entity) []ComponentID {
	sig := r.Signature(e)
	return iter_util.Collect(iter.Seq[ComponentID](func(yield func(ComponentID) bool) {
		for ct := range r.catalog.all {
			if sig.ContainsAll(ct.bit) && !yield(ct.id) {
				return
			}
		}
	}))
}

// ComponentName returns the Go type name registered under id.
func (r *Registry) ComponentName(id ComponentID) (string, bool) {
	ct, ok := r.catalog.byComponentID(id)
	if !ok {
		return "", false
	}
	return ct.name, true
}

// Pool returns the type-erased storage registered under id.
func (r *Registry) Pool(id ComponentID) (Pool, bool) {
	ct, ok := r.catalog.byComponentID(id)
	if !ok {
		return nil, false
	}
	return ct.pool, true
}

// Strict reports whether component types must be registered before use.
func (r *Registry) Strict() bool {
	return r.strict
}

// Locked reports whether structural changes are currently deferred.
func (r *Registry) Locked() bool {
	return r.locks != mask.Mask{}
}

// AddLock marks a lock bit. While any bit is set, direct structural changes
// fail with LockedRegistryError and Enqueue variants are deferred. Bit 0 is
// reserved for cursors.
func (r *Registry) AddLock(bit uint32) {
	if r.locks == (mask.Mask{}) {
		r.log.Debug().Msg("registry locked")
	}
	r.locks.Mark(bit)
}

// RemoveLock clears a lock bit. Clearing the last bit applies every queued
// operation.
func (r *Registry) RemoveLock(bit uint32) error {
	r.locks.Unmark(bit)
	if r.Locked() {
		return nil
	}
	r.log.Debug().Msg("registry unlocked")
	return r.processOperationQueue()
}

func (r *Registry) acquireCursor() {
	if r.cursors == 0 {
		r.AddLock(cursorLock)
	}
	r.cursors++
}

func (r *Registry) releaseCursor() error {
	if r.cursors == 0 {
		return nil
	}
	r.cursors--
	if r.cursors > 0 {
		return nil
	}
	return r.RemoveLock(cursorLock)
}

// EnqueueDestroy destroys e now, or when the registry unlocks.
func (r *Registry) EnqueueDestroy(e Entity) error {
	if !r.Locked() {
		return r.Destroy(e)
	}
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	r.opQueue.enqueueDestroy(e)
	return nil
}

// owner

func (r *Registry) valid(e Entity) bool {
	return r.entities.valid(e)
}

func (r *Registry) locked() bool {
	return r.Locked()
}

func (r *Registry) attach(e Entity, id ComponentID) {
	r.signatures[e.index].Mark(uint32(id))
}

func (r *Registry) detach(e Entity, id ComponentID) {
	r.signatures[e.index].Unmark(uint32(id))
}

// Register makes T known to the registry and returns its ID. It is the only
// way to introduce a type into a strict registry; lazy registries call it
// implicitly.
func Register[T any](r *Registry) (ComponentID, error) {
	s, err := register[T](r)
	if err != nil {
		return 0, err
	}
	return s.id, nil
}

func register[T any](r *Registry) (*ComponentStorage[T], error) {
	created := false
	ct, err := add[T](&r.catalog, func(id ComponentID) Pool {
		created = true
		typ := reflect.TypeFor[T]()
		if p, ok := r.placeholders[typ]; ok {
			delete(r.placeholders, typ)
			s := p.(*ComponentStorage[T])
			s.bind(id, r.capacity, r.events, r)
			return s
		}
		return newComponentStorage[T](id, r.capacity, r.events, r)
	})
	if err != nil {
		return nil, err
	}
	if created {
		r.log.Debug().
			Str("component", ct.name).
			Uint32("id", uint32(ct.id)).
			Msg("storage created")
	}
	return downcast[T](ct)
}

func downcast[T any](ct *componentType) (*ComponentStorage[T], error) {
	s, ok := ct.pool.(*ComponentStorage[T])
	if !ok {
		return nil, eris.Errorf("pool %s is %T, not a storage of %s", ct.name, ct.pool, componentName[T]())
	}
	return s, nil
}

// storageOf resolves T's storage, creating it unless the registry is strict.
func storageOf[T any](r *Registry) (*ComponentStorage[T], error) {
	if ct, ok := r.catalog.lookup(reflect.TypeFor[T]()); ok {
		return downcast[T](ct)
	}
	if r.strict {
		return nil, UnknownComponentTypeError{Component: componentName[T]()}
	}
	return register[T](r)
}

// StorageOf returns T's storage for direct iteration, bypassing query
// planning.
func StorageOf[T any](r *Registry) (*ComponentStorage[T], error) {
	return storageOf[T](r)
}

// IDOf returns the ID assigned to T, if T has been seen.
func IDOf[T any](r *Registry) (ComponentID, bool) {
	ct, ok := r.catalog.lookup(reflect.TypeFor[T]())
	if !ok {
		return 0, false
	}
	return ct.id, true
}

func Emplace[T any](r *Registry, e Entity, value T) error {
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	s, err := storageOf[T](r)
	if err != nil {
		return err
	}
	return s.Emplace(e, value)
}

func Remove[T any](r *Registry, e Entity) error {
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	s, err := storageOf[T](r)
	if err != nil {
		return err
	}
	return s.Remove(e)
}

func Get[T any](r *Registry, e Entity) (*T, error) {
	if !r.entities.valid(e) {
		return nil, StaleEntityError{Entity: e}
	}
	s, err := storageOf[T](r)
	if err != nil {
		return nil, err
	}
	return s.Get(e)
}

// Has reports whether e carries T. Unknown types and stale entities report
// false.
func Has[T any](r *Registry, e Entity) bool {
	ct, ok := r.catalog.lookup(reflect.TypeFor[T]())
	if !ok || !r.entities.valid(e) {
		return false
	}
	return r.signatures[e.index].ContainsAll(ct.bit)
}

func Patch[T any](r *Registry, e Entity, fn func(*T)) error {
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	s, err := storageOf[T](r)
	if err != nil {
		return err
	}
	return s.Patch(e, fn)
}

// Clear removes T from every entity carrying it.
func Clear[T any](r *Registry) error {
	s, err := storageOf[T](r)
	if err != nil {
		return err
	}
	return s.Clear()
}

// EnqueueEmplace attaches value to e now, or when the registry unlocks.
// Queued operations on the same entity and component coalesce into their
// net effect: an emplace queued after a remove replaces the stored value.
func EnqueueEmplace[T any](r *Registry, e Entity, value T) error {
	if !r.Locked() {
		return Emplace(r, e, value)
	}
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	s, err := storageOf[T](r)
	if err != nil {
		return err
	}
	typ, apply := opAddComponent, func() error {
		return s.Emplace(e, value)
	}
	// After a queued remove or replace, e may or may not still hold T when
	// the queue runs; the value lands either way.
	if prev := r.opQueue.pending(e, s.id); prev == opRemoveComponent || prev == opReplaceComponent {
		typ, apply = opReplaceComponent, func() error {
			if s.Contains(e) {
				return s.Replace(e, value)
			}
			return s.Emplace(e, value)
		}
	}
	r.opQueue.enqueueComponentOp(typ, e, s.id, apply)
	return nil
}

// EnqueueRemove detaches T from e now, or when the registry unlocks.
func EnqueueRemove[T any](r *Registry, e Entity) error {
	if !r.Locked() {
		return Remove[T](r, e)
	}
	if !r.entities.valid(e) {
		return StaleEntityError{Entity: e}
	}
	s, err := storageOf[T](r)
	if err != nil {
		return err
	}
	apply := func() error {
		return s.Remove(e)
	}
	// A remove that cancels a queued add only has to leave T absent.
	if r.opQueue.pending(e, s.id) != opNone {
		apply = func() error {
			if !s.Contains(e) {
				return nil
			}
			return s.Remove(e)
		}
	}
	r.opQueue.enqueueComponentOp(opRemoveComponent, e, s.id, apply)
	return nil
}
