package depot

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
)

// MaxComponentTypes bounds the number of component types a registry can
// hold. Component IDs double as bits in entity signatures.
const MaxComponentTypes = 64

// componentType describes one registered component type.
type componentType struct {
	id          ComponentID
	name        string
	elementType table.ElementType
	bit         mask.Mask
	pool        Pool
}

// catalog assigns stable IDs to component types. IDs come from the
// registry's table schema, keyed by the Go type so that repeated lookups of
// the same T resolve to the same storage.
type catalog struct {
	schema table.Schema
	types  *SimpleCache[reflect.Type, componentType]
	byID   map[ComponentID]int
}

func newCatalog() catalog {
	return catalog{
		schema: table.Factory.NewSchema(),
		types: &SimpleCache[reflect.Type, componentType]{
			itemIndices: make(map[reflect.Type]int),
			maxCapacity: MaxComponentTypes,
		},
		byID: make(map[ComponentID]int),
	}
}

func (c *catalog) lookup(typ reflect.Type) (*componentType, bool) {
	idx, ok := c.types.GetIndex(typ)
	if !ok {
		return nil, false
	}
	return c.types.GetItem(idx), true
}

func (c *catalog) byComponentID(id ComponentID) (*componentType, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.types.GetItem(idx), true
}

// add registers T and returns its entry. newPool receives the assigned ID.
func add[T any](c *catalog, newPool func(ComponentID) Pool) (*componentType, error) {
	typ := reflect.TypeFor[T]()
	if ct, ok := c.lookup(typ); ok {
		return ct, nil
	}
	name := typ.String()
	if c.types.Len() >= MaxComponentTypes {
		return nil, ComponentLimitError{Component: name, Limit: MaxComponentTypes}
	}

	elementType := table.FactoryNewElementType[T]()
	c.schema.Register(elementType)
	row := c.schema.RowIndexFor(elementType)
	if row >= MaxComponentTypes {
		return nil, ComponentLimitError{Component: name, Limit: MaxComponentTypes}
	}

	id := ComponentID(row)
	ct := componentType{
		id:          id,
		name:        name,
		elementType: elementType,
		pool:        newPool(id),
	}
	ct.bit.Mark(row)

	idx, err := c.types.Register(typ, ct)
	if err != nil {
		return nil, eris.Wrapf(err, "registering component %s", name)
	}
	c.byID[id] = idx
	return c.types.GetItem(idx), nil
}

// all yields every registered component type in registration order.
func (c *catalog) all(yield func(*componentType) bool) {
	for i := 0; i < c.types.Len(); i++ {
		if !yield(c.types.GetItem(i)) {
			return
		}
	}
}
