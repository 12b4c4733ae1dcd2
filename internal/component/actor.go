package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Actor places an entity inside a room.
type Actor struct {
	Name string
	Room ecs.Entity
}

// Controlled marks the actor driven by console input.
type Controlled struct {
	Source string
}
