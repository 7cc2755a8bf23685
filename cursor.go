package depot

import (
	"iter"
)

var _ iCursor = &Cursor{}

// Cursor is a pull-style iterator over the entities matching a query.
//
// The registry is locked from the first call to Next until the cursor is
// exhausted or Reset, so structural changes made meanwhile must use the
// Enqueue variants; they are applied when the last active cursor finishes.
type Cursor struct {
	query    QueryNode
	registry *Registry

	// Current iteration state
	pivot    Pool
	position int
	current  Entity

	// Initialization state
	initialized bool
	empty       bool
	err         error
}

func newCursor(query QueryNode, registry *Registry) *Cursor {
	return &Cursor{
		query:    query,
		registry: registry,
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.registry.acquireCursor()
	c.initialized = true
	c.err = nil
	c.position = 0
	c.pivot = nil
	c.empty = false

	ids := required(c.query)
	for _, id := range ids {
		p, ok := c.registry.Pool(id)
		if !ok {
			c.empty = true
			return
		}
		if c.pivot == nil || p.Len() < c.pivot.Len() {
			c.pivot = p
		}
	}
}

func (c *Cursor) limit() int {
	if c.pivot != nil {
		return c.pivot.Len()
	}
	return c.registry.entities.size()
}

func (c *Cursor) at(i int) (Entity, bool) {
	if c.pivot != nil {
		return c.pivot.Entities()[i], true
	}
	return c.registry.entities.current(uint32(i))
}

// Next advances to the next match. It returns false, and releases the
// registry lock, once the matches are exhausted.
func (c *Cursor) Next() bool {
	c.initialize()
	if !c.empty {
		for c.position < c.limit() {
			e, live := c.at(c.position)
			c.position++
			if live && c.query.Evaluate(c.registry.signatures[e.index]) {
				c.current = e
				return true
			}
		}
	}
	c.Reset()
	return false
}

// Entity returns the entity the cursor is positioned on.
func (c *Cursor) Entity() Entity {
	return c.current
}

func (c *Cursor) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for c.Next() {
			if !yield(c.current) {
				c.Reset()
				return
			}
		}
	}
}

// Reset rewinds the cursor and releases its registry lock. Queued
// operations applied by the release report their errors through Err.
func (c *Cursor) Reset() {
	if !c.initialized {
		return
	}
	c.initialized = false
	c.position = 0
	c.pivot = nil
	c.current = Null
	c.err = c.registry.releaseCursor()
}

// Err returns the error from applying queued operations when the cursor
// last released the registry.
func (c *Cursor) Err() error {
	return c.err
}

// TotalMatched counts the current matches without moving the cursor.
func (c *Cursor) TotalMatched() int {
	total := 0
	for range c.registry.Match(c.query) {
		total++
	}
	return total
}
