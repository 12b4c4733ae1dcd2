package ecs

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/l1jgo/simcore/internal/core/family"
)

// World is the top-level ECS container. It owns the entity pool, one mask per
// entity slot, the component stores indexed by family, the tag table and a
// deferred destruction queue flushed by the scheduler each tick.
//
// Bit f of an entity's mask is set exactly when the store of family f holds a
// value for that entity.
type World struct {
	registry     *family.Registry
	pool         *IDPool[Entity]
	masks        []bitset.BitSet
	stores       []anyStore
	tags         map[string]Entity
	tagsByEntity map[Entity]string
	destroyQueue []Entity
	marked       bitset.BitSet // queued ids not destroyed since marking
}

func NewWorld(registry *family.Registry) *World {
	return &World{
		registry:     registry,
		pool:         NewIDPool[Entity](),
		masks:        make([]bitset.BitSet, 0, 256),
		stores:       make([]anyStore, registry.Len()),
		tags:         make(map[string]Entity, 16),
		tagsByEntity: make(map[Entity]string, 16),
		destroyQueue: make([]Entity, 0, 64),
	}
}

func (w *World) Registry() *family.Registry { return w.registry }

// Create reserves an entity with no components and no tag.
func (w *World) Create() Entity {
	e := w.pool.Reserve()
	if int(e) < len(w.masks) {
		w.masks[e].ClearAll()
	} else {
		w.masks = append(w.masks, bitset.BitSet{})
	}
	w.marked.Clear(uint(e))
	w.Untag(e)
	return e
}

// Exists reports whether e was created and not destroyed since.
func (w *World) Exists(e Entity) bool {
	return w.pool.IsReserved(e)
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// Entities returns every live entity in ascending order.
func (w *World) Entities() []Entity { return w.pool.Reserved() }

// Destroy releases e and drops its components and tag. Unknown entities are ignored.
func (w *World) Destroy(e Entity) {
	if !w.Exists(e) {
		return
	}
	w.pool.Release(e)
	mask := &w.masks[e]
	for f, ok := mask.NextSet(0); ok; f, ok = mask.NextSet(f + 1) {
		if int(f) < len(w.stores) && w.stores[f] != nil {
			w.stores[f].RemoveByEntity(e)
		}
	}
	w.Untag(e)
	mask.ClearAll()
	w.marked.Clear(uint(e))
}

// MarkForDestruction queues a live entity for end-of-tick cleanup. Marking
// twice queues it once. Destroying it directly cancels the mark, so a new
// entity reusing the id is never flushed.
func (w *World) MarkForDestruction(e Entity) {
	if !w.Exists(e) || w.marked.Test(uint(e)) {
		return
	}
	w.marked.Set(uint(e))
	w.destroyQueue = append(w.destroyQueue, e)
}

// FlushDestroyQueue destroys all still-marked entities and returns how many.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, e := range w.destroyQueue {
		if w.marked.Test(uint(e)) {
			w.Destroy(e)
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// Tag names a live entity. The last write wins on both sides: a retagged
// entity loses its old name and a reused name leaves its previous owner untagged.
func (w *World) Tag(e Entity, name string) {
	if !w.Exists(e) {
		return
	}
	if old, ok := w.tagsByEntity[e]; ok {
		delete(w.tags, old)
	}
	if prev, ok := w.tags[name]; ok {
		delete(w.tagsByEntity, prev)
	}
	w.tags[name] = e
	w.tagsByEntity[e] = name
}

// Untag removes e's tag, if any.
func (w *World) Untag(e Entity) {
	if name, ok := w.tagsByEntity[e]; ok {
		delete(w.tagsByEntity, e)
		delete(w.tags, name)
	}
}

// Lookup returns the entity carrying name.
func (w *World) Lookup(name string) (Entity, bool) {
	e, ok := w.tags[name]
	return e, ok
}

// TagOf returns e's tag.
func (w *World) TagOf(e Entity) (string, bool) {
	name, ok := w.tagsByEntity[e]
	return name, ok
}

// HasFamily tests one mask bit without touching any store.
func (w *World) HasFamily(e Entity, f family.ID) bool {
	if !w.Exists(e) {
		return false
	}
	return w.masks[e].Test(uint(f))
}

// Add attaches c to e, replacing a component of the same type. The mask bit is
// set before the store is written. Adding to a dead entity is a no-op.
func Add[T any](w *World, e Entity, c T) {
	if !w.Exists(e) {
		return
	}
	s := storeOf[T](w)
	w.masks[e].Set(uint(s.Family()))
	s.Add(e, c)
}

// Remove detaches T from e. The store is cleared before the mask bit.
func Remove[T any](w *World, e Entity) {
	if !w.Exists(e) {
		return
	}
	s := storeOf[T](w)
	s.Remove(e)
	w.masks[e].Clear(uint(s.Family()))
}

// Has reports whether e carries a T. Only the mask is consulted.
func Has[T any](w *World, e Entity) bool {
	return w.HasFamily(e, family.MustComponent[T](w.registry))
}

// Get returns a copy of e's T.
func Get[T any](w *World, e Entity) (T, bool) {
	if !Has[T](w, e) {
		var zero T
		return zero, false
	}
	return storeOf[T](w).Get(e)
}

// GetMut returns a pointer to e's T, valid until the next Add of a T.
func GetMut[T any](w *World, e Entity) (*T, bool) {
	if !Has[T](w, e) {
		return nil, false
	}
	return storeOf[T](w).GetMut(e)
}
