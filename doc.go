/*
Package depot provides sparse-set entity-component storage with
pivot-driven views.

Every component type gets its own densely packed storage. Entities are
generational handles, so a handle to a destroyed entity never reaches the
components of whatever reuses its slot. Views intersect storages by walking
the smallest one (the pivot) and probing the rest.

Core Concepts:

  - Entity: A slot index plus generation. Carries no data of its own.
  - ComponentStorage: A sparse set of one component type, dense and gap-free.
  - Registry: Owns the entities and one storage per component type.
  - View: A non-owning intersection over 1 to 4 storages.
  - Query: An And/Or/Not predicate over component IDs, read through a Cursor.

Basic Usage:

	registry := depot.Factory.NewRegistry()

	e := registry.Create()
	depot.Emplace(registry, e, Position{X: 1})
	depot.Emplace(registry, e, Velocity{X: 2})

	view := depot.NewView2[Position, Velocity](registry)
	for _, row := range view.All() {
		row.A.X += row.B.X
	}

	// Direct storage access skips query planning entirely
	positions, _ := depot.StorageOf[Position](registry)
	for e, pos := range positions.All() {
		_, _ = e, pos
	}

Iteration order follows the pivot's dense array: insertion order until the
first removal, after which swap-remove reorders it. Use
ComponentStorage.SortByEntity when a deterministic order is required.

Registries are single-threaded. Adding or removing components of a storage
while it is being iterated is undefined; lock the registry and use the
Enqueue variants to defer such changes.
*/
package depot
