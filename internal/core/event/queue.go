package event

import "github.com/l1jgo/simcore/internal/core/family"

// Queue is the stable, read-only side of the bus. Receivers see every event
// merged since the last Flush, in emission order. Merging and flushing happen
// only when the caller asks for them.
type Queue struct {
	bufs buffers
}

func NewQueue(registry *family.Registry) *Queue {
	return &Queue{bufs: newBuffers(registry)}
}

// Receive returns the visible events of type T in emission order. The slice
// is owned by the queue and is only valid until the next Merge or Flush.
// Receiving a type that was never registered as an event panics.
func Receive[T any](q *Queue) []T {
	return typed[T](&q.bufs).events
}

// Count returns the number of visible events of family f.
func (q *Queue) Count(f family.ID) int {
	if b := q.bufs.get(f); b != nil {
		return b.Len()
	}
	return 0
}

// Len returns the number of visible events across all families.
func (q *Queue) Len() int {
	n := 0
	for _, b := range q.bufs.slots {
		if b != nil {
			n += b.Len()
		}
	}
	return n
}

// Halted reports whether a Halt event is visible.
func (q *Queue) Halted() bool {
	return q.Count(family.HaltID) > 0
}

// Merge moves every pending event of em behind the matching visible events
// and empties em, so nothing is merged twice.
func (q *Queue) Merge(em *Emitter) {
	for f, src := range em.bufs.slots {
		if src == nil || src.Len() == 0 {
			continue
		}
		dst := q.bufs.at(family.ID(f), src.empty)
		src.drainInto(dst)
	}
}

// Flush clears every visible buffer, Halt's included.
func (q *Queue) Flush() {
	for _, b := range q.bufs.slots {
		if b != nil {
			b.flush()
		}
	}
}
