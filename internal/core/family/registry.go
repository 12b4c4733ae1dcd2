package family

import (
	"fmt"
	"reflect"
)

// ID is the stable small integer assigned to one concrete component or event type.
type ID uint32

// Kind says whether a family was registered as a component or as an event.
type Kind uint8

const (
	KindComponent Kind = iota + 1
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Halt is the built-in event that stops a simulation. It always occupies family 0.
type Halt struct{}

// HaltID is the reserved family of Halt.
const HaltID ID = 0

// Registry hands out families. Build one per simulation at startup and pass it
// to the World, Queue and Emitters that share it.
type Registry struct {
	byType map[reflect.Type]ID
	types  []reflect.Type
	kinds  []Kind
}

func NewRegistry() *Registry {
	r := &Registry{
		byType: make(map[reflect.Type]ID, 32),
		types:  make([]reflect.Type, 0, 32),
		kinds:  make([]Kind, 0, 32),
	}
	r.register(reflect.TypeFor[Halt](), KindEvent)
	return r
}

// RegisterComponent returns the family of T, assigning the next one on first call.
func RegisterComponent[T any](r *Registry) ID {
	return r.register(reflect.TypeFor[T](), KindComponent)
}

// RegisterEvent returns the family of event type T, assigning the next one on first call.
func RegisterEvent[T any](r *Registry) ID {
	return r.register(reflect.TypeFor[T](), KindEvent)
}

func (r *Registry) register(t reflect.Type, kind Kind) ID {
	if id, ok := r.byType[t]; ok {
		if r.kinds[id] != kind {
			panic(fmt.Sprintf("family: %s already registered as %s, cannot register as %s", t, r.kinds[id], kind))
		}
		return id
	}
	id := ID(len(r.types))
	r.byType[t] = id
	r.types = append(r.types, t)
	r.kinds = append(r.kinds, kind)
	return id
}

// Lookup returns the family of T and whether T was registered with the given kind.
func Lookup[T any](r *Registry, kind Kind) (ID, bool) {
	id, ok := r.byType[reflect.TypeFor[T]()]
	if !ok || r.kinds[id] != kind {
		return 0, false
	}
	return id, true
}

// MustComponent returns the family of component type T. Using a type that was
// never registered is a wiring error and panics.
func MustComponent[T any](r *Registry) ID {
	id, ok := Lookup[T](r, KindComponent)
	if !ok {
		panic(fmt.Sprintf("family: component type %s not registered", reflect.TypeFor[T]()))
	}
	return id
}

// MustEvent is MustComponent for event types.
func MustEvent[T any](r *Registry) ID {
	id, ok := Lookup[T](r, KindEvent)
	if !ok {
		panic(fmt.Sprintf("family: event type %s not registered", reflect.TypeFor[T]()))
	}
	return id
}

// Name returns the Go type name behind a family, for logs.
func (r *Registry) Name(id ID) string {
	if int(id) >= len(r.types) {
		return fmt.Sprintf("family(%d)", id)
	}
	return r.types[id].String()
}

// Len returns the number of assigned families, Halt included.
func (r *Registry) Len() int { return len(r.types) }

// Families returns every family of the given kind in ascending order.
func (r *Registry) Families(kind Kind) []ID {
	out := make([]ID, 0, len(r.kinds))
	for i, k := range r.kinds {
		if k == kind {
			out = append(out, ID(i))
		}
	}
	return out
}
