package depot

import "fmt"

// Sentinels for errors.Is. Each typed error below matches its sentinel
// regardless of the entity or component it carries.
var (
	ErrStaleEntity          error = StaleEntityError{}
	ErrDuplicateComponent   error = DuplicateComponentError{}
	ErrMissingComponent     error = MissingComponentError{}
	ErrUnknownComponentType error = UnknownComponentTypeError{}
	ErrLockedRegistry       error = LockedRegistryError{}
	ErrComponentLimit       error = ComponentLimitError{}
)

// StaleEntityError is returned when a handle refers to a destroyed or
// recycled slot.
type StaleEntityError struct {
	Entity Entity
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("stale entity: %v", e.Entity)
}

func (e StaleEntityError) Is(target error) bool {
	_, ok := target.(StaleEntityError)
	return ok
}

type DuplicateComponentError struct {
	Entity    Entity
	Component string
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("component already exists on entity %v: %s", e.Entity, e.Component)
}

func (e DuplicateComponentError) Is(target error) bool {
	_, ok := target.(DuplicateComponentError)
	return ok
}

type MissingComponentError struct {
	Entity    Entity
	Component string
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("component does not exist on entity %v: %s", e.Entity, e.Component)
}

func (e MissingComponentError) Is(target error) bool {
	_, ok := target.(MissingComponentError)
	return ok
}

// UnknownComponentTypeError is only produced by strict registries, where
// component types must be registered before use.
type UnknownComponentTypeError struct {
	Component string
}

func (e UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("component type was never registered: %s", e.Component)
}

func (e UnknownComponentTypeError) Is(target error) bool {
	_, ok := target.(UnknownComponentTypeError)
	return ok
}

type LockedRegistryError struct{}

func (e LockedRegistryError) Error() string {
	return "registry is currently locked"
}

func (e LockedRegistryError) Is(target error) bool {
	_, ok := target.(LockedRegistryError)
	return ok
}

type ComponentLimitError struct {
	Component string
	Limit     int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("cannot register %s: registry holds the maximum of %d component types", e.Component, e.Limit)
}

func (e ComponentLimitError) Is(target error) bool {
	_, ok := target.(ComponentLimitError)
	return ok
}
