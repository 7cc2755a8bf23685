package depot

import (
	"errors"

	"github.com/rotisserie/eris"
)

type operation struct {
	typ       operationType
	entity    Entity
	component ComponentID
	apply     func() error
}

type operationType int

const (
	opNone operationType = iota
	opAddComponent
	opRemoveComponent
	opReplaceComponent
)

func (t operationType) String() string {
	switch t {
	case opAddComponent:
		return "add"
	case opRemoveComponent:
		return "remove"
	case opReplaceComponent:
		return "replace"
	}
	return "none"
}

type opKey struct {
	entity    Entity
	component ComponentID
}

// opQueue holds structural changes requested while the registry is locked.
// Component ops are applied before destroys, each group in request order.
type opQueue struct {
	componentOps   []operation
	destroyOps     []Entity
	pendingDestroy map[Entity]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[Entity]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

func (q *opQueue) len() int {
	return len(q.componentOps) + len(q.destroyOps)
}

func (q *opQueue) enqueueDestroy(e Entity) {
	if _, exists := q.pendingDestroy[e]; exists {
		return
	}
	q.pendingDestroy[e] = struct{}{}
	q.destroyOps = append(q.destroyOps, e)

	// Component ops on a doomed entity are dropped
	for key, idx := range q.pendingMods {
		if key.entity == e {
			q.componentOps[idx].typ = opNone
			delete(q.pendingMods, key)
		}
	}
}

// pending returns the type of the queued op for e and the component, or
// opNone.
func (q *opQueue) pending(e Entity, id ComponentID) operationType {
	idx, ok := q.pendingMods[opKey{entity: e, component: id}]
	if !ok {
		return opNone
	}
	return q.componentOps[idx].typ
}

func (q *opQueue) enqueueComponentOp(typ operationType, e Entity, id ComponentID, apply func() error) {
	if _, isDestroyed := q.pendingDestroy[e]; isDestroyed {
		return
	}

	key := opKey{entity: e, component: id}
	if existingIdx, exists := q.pendingMods[key]; exists {
		existing := &q.componentOps[existingIdx]
		existing.typ = typ
		existing.apply = apply
		return
	}

	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:       typ,
		entity:    e,
		component: id,
		apply:     apply,
	})
}

func (q *opQueue) reset() {
	clear(q.componentOps)
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	clear(q.pendingMods)
}

// processOperationQueue applies every queued operation. A failing operation
// does not stop the rest; all failures are returned joined.
func (r *Registry) processOperationQueue() error {
	if r.opQueue.len() == 0 {
		return nil
	}
	r.log.Debug().
		Int("component_ops", len(r.opQueue.componentOps)).
		Int("destroy_ops", len(r.opQueue.destroyOps)).
		Msg("applying queued operations")

	var errs []error
	for _, op := range r.opQueue.componentOps {
		if op.typ == opNone {
			continue
		}
		if err := op.apply(); err != nil {
			errs = append(errs, eris.Wrapf(err, "queued %s of component %d on %v", op.typ, op.component, op.entity))
		}
	}
	for _, e := range r.opQueue.destroyOps {
		if err := r.Destroy(e); err != nil {
			errs = append(errs, eris.Wrapf(err, "queued destroy of %v", e))
		}
	}

	r.opQueue.reset()
	return errors.Join(errs...)
}
