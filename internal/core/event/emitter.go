package event

import "github.com/l1jgo/simcore/internal/core/family"

// Emitter is a write-only accumulator of new events, one append-only buffer
// per event family. It has no read side: its contents only become visible
// once a Queue merges them.
type Emitter struct {
	bufs buffers
}

func NewEmitter(registry *family.Registry) *Emitter {
	return &Emitter{bufs: newBuffers(registry)}
}

// Emit appends ev to the pending buffer of its family.
// Emitting a type that was never registered as an event panics.
func Emit[T any](em *Emitter, ev T) {
	b := typed[T](&em.bufs)
	b.events = append(b.events, ev)
}

// Halt emits the built-in Halt event.
func (em *Emitter) Halt() {
	Emit(em, Halt{})
}

// Len returns the number of pending events across all families.
func (em *Emitter) Len() int {
	n := 0
	for _, b := range em.bufs.slots {
		if b != nil {
			n += b.Len()
		}
	}
	return n
}
