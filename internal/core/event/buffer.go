package event

import (
	"fmt"

	"github.com/l1jgo/simcore/internal/core/family"
)

// Halt stops the simulation once it reaches the queue. Its family is always 0.
type Halt = family.Halt

// anyBuffer is a per-family event buffer with its element type erased.
type anyBuffer interface {
	Family() family.ID
	Len() int
	flush()
	// drainInto appends every buffered event to dst, which must hold the
	// same family, and empties the receiver.
	drainInto(dst anyBuffer)
	// empty returns a new buffer of the same family and type.
	empty() anyBuffer
}

type buffer[T any] struct {
	family family.ID
	events []T
}

func (b *buffer[T]) Family() family.ID { return b.family }
func (b *buffer[T]) Len() int          { return len(b.events) }

func (b *buffer[T]) empty() anyBuffer { return &buffer[T]{family: b.family} }

func (b *buffer[T]) flush() {
	clear(b.events)
	b.events = b.events[:0]
}

func (b *buffer[T]) drainInto(dst anyBuffer) {
	d, ok := dst.(*buffer[T])
	if !ok || d.family != b.family {
		panic(fmt.Sprintf("event: cannot merge family %d (%T) into family %d (%T)",
			b.family, b, dst.Family(), dst))
	}
	d.events = append(d.events, b.events...)
	b.flush()
}

// buffers is the family-indexed buffer table shared by Queue and Emitter.
type buffers struct {
	registry *family.Registry
	slots    []anyBuffer
}

func newBuffers(registry *family.Registry) buffers {
	return buffers{
		registry: registry,
		slots:    make([]anyBuffer, registry.Len()),
	}
}

// get returns the buffer at f or nil.
func (s *buffers) get(f family.ID) anyBuffer {
	if int(f) >= len(s.slots) {
		return nil
	}
	return s.slots[f]
}

// at returns the buffer at f, installing newBuf() on first use.
func (s *buffers) at(f family.ID, newBuf func() anyBuffer) anyBuffer {
	if int(f) >= len(s.slots) {
		grown := make([]anyBuffer, int(f)+1)
		copy(grown, s.slots)
		s.slots = grown
	}
	if s.slots[f] == nil {
		s.slots[f] = newBuf()
	}
	return s.slots[f]
}

// typed resolves the buffer of event type T, panicking when T was never
// registered as an event or the stored buffer holds another type.
func typed[T any](s *buffers) *buffer[T] {
	f := family.MustEvent[T](s.registry)
	raw := s.at(f, func() anyBuffer { return &buffer[T]{family: f} })
	b, ok := raw.(*buffer[T])
	if !ok || b.family != f {
		panic(fmt.Sprintf("event: buffer at family %d is %T, not %s", f, raw, s.registry.Name(f)))
	}
	return b
}
