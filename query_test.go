package depot

import (
	"testing"
)

// TestQueryFiltering tests the basic query filtering capabilities
func TestQueryFiltering(t *testing.T) {
	type entitySetup struct {
		pos, vel, health bool
		count            int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		queryType       string // "and", "or", "not", "complex"
		expectedMatches int
	}{
		{
			name: "And query matches exact",
			entitySetups: []entitySetup{
				{pos: true, vel: true, count: 5},
				{pos: true, count: 10},
				{vel: true, count: 15},
			},
			queryType:       "and",
			expectedMatches: 5,
		},
		{
			name: "Or query matches either",
			entitySetups: []entitySetup{
				{pos: true, vel: true, count: 5},
				{pos: true, count: 10},
				{vel: true, count: 15},
				{health: true, count: 3},
			},
			queryType:       "or",
			expectedMatches: 30, // 5 + 10 + 15
		},
		{
			name: "Not query excludes",
			entitySetups: []entitySetup{
				{pos: true, vel: true, count: 5},
				{pos: true, count: 10},
				{vel: true, count: 15},
				{health: true, count: 20},
			},
			queryType:       "not",
			expectedMatches: 30, // 10 + 20
		},
		{
			name: "Complex query",
			entitySetups: []entitySetup{
				{pos: true, vel: true, health: true, count: 5},
				{pos: true, vel: true, count: 10},
				{pos: true, health: true, count: 15},
				{vel: true, health: true, count: 20},
				{pos: true, count: 25},
				{vel: true, count: 30},
				{health: true, count: 35},
			},
			queryType:       "complex",
			expectedMatches: 30, // (P AND V) OR (P AND H) = 10 + 15 + 5 (counted once)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Factory.NewRegistry()
			posID, _ := Register[Position](r)
			velID, _ := Register[Velocity](r)
			healthID, _ := Register[Health](r)

			for _, setup := range tt.entitySetups {
				for i := 0; i < setup.count; i++ {
					e := r.Create()
					if setup.pos {
						Emplace(r, e, Position{})
					}
					if setup.vel {
						Emplace(r, e, Velocity{})
					}
					if setup.health {
						Emplace(r, e, Health{})
					}
				}
			}

			query := Factory.NewQuery()
			var queryNode QueryNode

			switch tt.queryType {
			case "and":
				queryNode = query.And(posID, velID)
			case "or":
				queryNode = query.Or([]ComponentID{posID, velID})
			case "not":
				queryNode = query.Not(velID)
			case "complex":
				// (Position AND Velocity) OR (Position AND Health)
				andQuery1 := query.And(posID, velID)
				andQuery2 := query.And(posID, healthID)
				queryNode = query.Or(andQuery1, andQuery2)
			}

			matchCount := 0
			for e := range r.Match(queryNode) {
				if !queryNode.Evaluate(r.Signature(e)) {
					t.Errorf("Match yielded %v which fails the query", e)
				}
				matchCount++
			}

			if matchCount != tt.expectedMatches {
				t.Errorf("Query matched %d entities, expected %d", matchCount, tt.expectedMatches)
			}
		})
	}
}

func TestQueryRootIsFirstNode(t *testing.T) {
	r := Factory.NewRegistry()
	posID, _ := Register[Position](r)
	velID, _ := Register[Velocity](r)

	e := r.Create()
	Emplace(r, e, Position{})

	query := Factory.NewQuery()
	query.And(posID)
	query.And(posID, velID) // not the root

	if !query.Evaluate(r.Signature(e)) {
		t.Errorf("query root should be the first node built")
	}
	if Factory.NewQuery().Evaluate(r.Signature(e)) {
		t.Errorf("empty query matched")
	}
}

func TestQueryUnknownComponent(t *testing.T) {
	r := Factory.NewRegistry()
	populate(t, r, 10)

	query := Factory.NewQuery()
	node := query.And(ComponentID(20))

	for e := range r.Match(node) {
		t.Errorf("query over unregistered component matched %v", e)
	}
}

func TestQueryNotScansAllEntities(t *testing.T) {
	r := Factory.NewRegistry()
	populate(t, r, 10)
	velID, _ := IDOf[Velocity](r)
	bare := r.Create()

	query := Factory.NewQuery()
	node := query.Not(velID)

	found := false
	count := 0
	for e := range r.Match(node) {
		count++
		if e == bare {
			found = true
		}
	}
	if !found {
		t.Errorf("Not query skipped entity without components")
	}
	if count != 3 { // entities 0 and 5, plus bare
		t.Errorf("Not query matched %d, want 3", count)
	}
}
