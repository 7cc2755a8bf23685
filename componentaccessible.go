package depot

// AccessibleComponent is a typed handle to one registry's storage of T. It
// skips the per-call type lookup of the package-level functions.
type AccessibleComponent[T any] struct {
	ID      ComponentID
	storage *ComponentStorage[T]
}

// GetFromCursor retrieves the component of the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	return c.GetFromEntity(cursor.Entity())
}

// GetFromCursorSafe safely retrieves a component value, checking if the component exists
// Returns a boolean indicating success and the component pointer if found
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	v := c.GetFromCursor(cursor)
	return v != nil, v
}

// CheckCursor determines if the entity at the cursor position carries the component
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return c.storage.Contains(cursor.Entity())
}

// GetFromEntity retrieves the component for the specified entity, or nil
func (c AccessibleComponent[T]) GetFromEntity(e Entity) *T {
	v, _ := c.storage.Get(e)
	return v
}

func (c AccessibleComponent[T]) Storage() *ComponentStorage[T] {
	return c.storage
}
