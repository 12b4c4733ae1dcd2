package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Room is a location actors can stand in.
// Pure data; systems own every mutation.
type Room struct {
	Key         string
	Name        string
	Description string
	Exits       map[string]ecs.Entity // direction -> room entity
	Occupants   []ecs.Entity
}
