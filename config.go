package depot

import "github.com/rs/zerolog"

// Config holds the defaults new registries start from. Builders may
// override each value per registry.
var Config config = config{
	initialCapacity: 64,
	logger:          zerolog.Nop(),
}

type config struct {
	storageEvents   StorageEvents
	initialCapacity int
	logger          zerolog.Logger
}

// StorageEvents are callbacks fired by component storages. Hooks run
// synchronously inside the mutating call and must not structurally modify
// the storage that fired them.
type StorageEvents struct {
	OnEmplace func(ComponentID, Entity)
	OnRemove  func(ComponentID, Entity)
	OnUpdate  func(ComponentID, Entity)
}

// SetStorageEvents configures the default storage event callbacks
func (c *config) SetStorageEvents(se StorageEvents) {
	c.storageEvents = se
}

// SetInitialCapacity sets the default number of entities and components
// preallocated per storage
func (c *config) SetInitialCapacity(n int) {
	if n < 0 {
		n = 0
	}
	c.initialCapacity = n
}

// SetLogger sets the default registry logger
func (c *config) SetLogger(l zerolog.Logger) {
	c.logger = l
}
