package ecs

import (
	"fmt"

	"github.com/l1jgo/simcore/internal/core/family"
)

// anyStore is the part of a component store usable without knowing its type.
// World keeps one per component family and drives bulk removal through it.
type anyStore interface {
	Family() family.ID
	RemoveByEntity(e Entity)
	Len() int
}

// Store holds every component of one family: values live in a dense pool
// whose slots are recycled through an IDPool, and index maps entities to slots.
type Store[T any] struct {
	family family.ID
	slots  *IDPool[slot]
	data   []T
	owners []Entity
	index  map[Entity]slot
}

func NewStore[T any](f family.ID) *Store[T] {
	return &Store[T]{
		family: f,
		slots:  NewIDPool[slot](),
		data:   make([]T, 0, 64),
		owners: make([]Entity, 0, 64),
		index:  make(map[Entity]slot, 64),
	}
}

func (s *Store[T]) Family() family.ID { return s.family }

// Add stores c for e. A previous value of e in this store is replaced.
func (s *Store[T]) Add(e Entity, c T) {
	if old, ok := s.index[e]; ok {
		s.release(old)
	}
	id := s.slots.Reserve()
	if int(id) < len(s.data) {
		s.data[id] = c
		s.owners[id] = e
	} else {
		s.data = append(s.data, c)
		s.owners = append(s.owners, e)
	}
	s.index[e] = id
}

// Get returns a copy of e's component.
func (s *Store[T]) Get(e Entity) (T, bool) {
	if id, ok := s.index[e]; ok {
		return s.data[id], true
	}
	var zero T
	return zero, false
}

// GetMut returns a pointer into the pool. It stays valid until the next Add
// on this store.
func (s *Store[T]) GetMut(e Entity) (*T, bool) {
	if id, ok := s.index[e]; ok {
		return &s.data[id], true
	}
	return nil, false
}

func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.index[e]
	return ok
}

// Remove drops e's component and frees its slot.
func (s *Store[T]) Remove(e Entity) {
	id, ok := s.index[e]
	if !ok {
		return
	}
	delete(s.index, e)
	s.release(id)
}

func (s *Store[T]) RemoveByEntity(e Entity) { s.Remove(e) }

func (s *Store[T]) release(id slot) {
	var zero T
	s.data[id] = zero
	s.slots.Release(id)
}

func (s *Store[T]) Len() int { return len(s.index) }

// Each visits components in slot order.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	s.slots.Each(func(id slot) {
		fn(s.owners[id], &s.data[id])
	})
}

// storeOf resolves the typed store behind a family, creating it on first use.
// A store whose type does not match the family is a wiring bug and panics.
func storeOf[T any](w *World) *Store[T] {
	f := family.MustComponent[T](w.registry)
	if int(f) >= len(w.stores) {
		grown := make([]anyStore, int(f)+1)
		copy(grown, w.stores)
		w.stores = grown
	}
	raw := w.stores[f]
	if raw == nil {
		s := NewStore[T](f)
		w.stores[f] = s
		return s
	}
	s, ok := raw.(*Store[T])
	if !ok || s.Family() != f {
		panic(fmt.Sprintf("ecs: store at family %d is %T (family %d), not %s",
			f, raw, raw.Family(), w.registry.Name(f)))
	}
	return s
}

// StoreOf exposes the typed store of T for bulk iteration. Mutating it
// directly bypasses entity masks; use Add/Remove for membership changes.
func StoreOf[T any](w *World) *Store[T] {
	return storeOf[T](w)
}
