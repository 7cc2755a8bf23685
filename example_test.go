package depot_test

import (
	"errors"
	"fmt"

	"github.com/TheBitDrifter/depot"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value string
}

// Example shows basic registry usage with entity creation and views
func Example_basic() {
	registry := depot.Factory.NewRegistry()

	for i := 0; i < 5; i++ {
		e := registry.Create()
		depot.Emplace(registry, e, Position{})
	}
	for i := 0; i < 3; i++ {
		e := registry.Create()
		depot.Emplace(registry, e, Position{})
		depot.Emplace(registry, e, Velocity{X: 1, Y: 1})
	}

	player := registry.Create()
	depot.Emplace(registry, player, Position{X: 10, Y: 20})
	depot.Emplace(registry, player, Velocity{X: 1, Y: 2})
	depot.Emplace(registry, player, Name{Value: "Player"})

	moving := depot.NewView2[Position, Velocity](registry)
	fmt.Printf("Found %d entities with position and velocity\n", moving.Count())

	named := depot.NewView3[Position, Velocity, Name](registry)
	named.Each(func(_ depot.Entity, pos *Position, vel *Velocity, name *Name) {
		pos.X += vel.X
		pos.Y += vel.Y
		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", name.Value, pos.X, pos.Y)
	})

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}

// Example_lifecycle shows that destroyed handles stop validating even after
// their slot is reused.
func Example_lifecycle() {
	registry := depot.Factory.NewRegistry()

	first := registry.Create()
	depot.Emplace(registry, first, Name{Value: "first"})
	registry.Destroy(first)

	second := registry.Create()
	fmt.Println(first, second)
	fmt.Println(registry.Valid(first), registry.Valid(second))

	_, err := depot.Get[Name](registry, first)
	fmt.Println(errors.Is(err, depot.ErrStaleEntity))
	fmt.Println(depot.Has[Name](registry, second))

	// Output:
	// Entity(0:1) Entity(0:2)
	// false true
	// true
	// false
}

// Example_without shows exclusion filters on a view
func Example_without() {
	registry := depot.Factory.NewRegistry()

	for i := 0; i < 6; i++ {
		e := registry.Create()
		depot.Emplace(registry, e, Position{X: float64(i)})
		if i%2 == 0 {
			depot.Emplace(registry, e, Velocity{})
		}
	}

	static := depot.NewView1[Position](registry, depot.Without[Velocity]())
	sum := 0.0
	for _, pos := range static.All() {
		sum += pos.X
	}
	fmt.Printf("%d static entities, X sum %.0f\n", static.Count(), sum)

	// Output:
	// 3 static entities, X sum 9
}

// Example_query shows cursor iteration with deferred destruction
func Example_query() {
	registry := depot.Factory.NewRegistry()
	posID, _ := depot.Register[Position](registry)
	velID, _ := depot.Register[Velocity](registry)

	for i := 0; i < 4; i++ {
		e := registry.Create()
		depot.Emplace(registry, e, Position{})
		if i < 2 {
			depot.Emplace(registry, e, Velocity{})
		}
	}

	query := depot.Factory.NewQuery()
	node := query.And(posID, query.Not(velID))
	cursor := depot.Factory.NewCursor(node, registry)

	for cursor.Next() {
		// Structural changes are queued while the cursor holds the lock
		registry.EnqueueDestroy(cursor.Entity())
	}
	fmt.Println("alive:", registry.Alive())

	// Output:
	// alive: 2
}
