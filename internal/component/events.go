package component

import "github.com/l1jgo/simcore/internal/core/ecs"

// Input is one line read from the console, already trimmed and case-folded.
type Input struct {
	Line string
}

// Output is text for the console. It is printed verbatim.
type Output struct {
	Text string
}

// Moved is emitted when an actor changes rooms.
type Moved struct {
	Actor    ecs.Entity
	From, To string
}
