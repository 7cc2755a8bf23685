package depot

import "github.com/rs/zerolog"

type factory struct{}

var Factory factory

// NewRegistry returns a lazy registry configured from Config.
func (f factory) NewRegistry() *Registry {
	return NewRegistryBuilder().Build()
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, registry *Registry) *Cursor {
	return newCursor(query, registry)
}

// FactoryNewComponent returns a handle bound to r's storage of T,
// registering T if needed.
func FactoryNewComponent[T any](r *Registry) (AccessibleComponent[T], error) {
	s, err := register[T](r)
	if err != nil {
		return AccessibleComponent[T]{}, err
	}
	return AccessibleComponent[T]{ID: s.id, storage: s}, nil
}

func FactoryNewCache[K comparable, T any](cap int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}

// RegistryBuilder configures a Registry. Unset values come from Config.
type RegistryBuilder struct {
	capacity int
	strict   bool
	events   StorageEvents
	logger   zerolog.Logger
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		capacity: Config.initialCapacity,
		events:   Config.storageEvents,
		logger:   Config.logger,
	}
}

// WithCapacity sets the number of entities and components preallocated per
// storage.
func (b *RegistryBuilder) WithCapacity(n int) *RegistryBuilder {
	if n < 0 {
		n = 0
	}
	b.capacity = n
	return b
}

// WithStrictTypes requires component types to be registered with Register
// before use.
func (b *RegistryBuilder) WithStrictTypes() *RegistryBuilder {
	b.strict = true
	return b
}

func (b *RegistryBuilder) WithEvents(events StorageEvents) *RegistryBuilder {
	b.events = events
	return b
}

func (b *RegistryBuilder) WithLogger(logger zerolog.Logger) *RegistryBuilder {
	b.logger = logger
	return b
}

func (b *RegistryBuilder) Build() *Registry {
	return newRegistry(b.capacity, b.strict, b.events, b.logger)
}
