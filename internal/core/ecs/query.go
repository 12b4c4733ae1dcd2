package ecs

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/l1jgo/simcore/internal/core/family"
)

// Filter is a set of required component families. Filters are immutable:
// With returns a new one. The zero Filter matches every live entity but
// cannot be extended; build filters with World.NewFilter.
type Filter struct {
	registry *family.Registry
	mask     *bitset.BitSet
}

// NewFilter returns a filter that matches every live entity.
func (w *World) NewFilter() Filter {
	return Filter{registry: w.registry, mask: bitset.New(uint(w.registry.Len()))}
}

// With extends f with component type T.
func With[T any](f Filter) Filter {
	if f.registry == nil {
		panic("ecs: With on a zero Filter, use World.NewFilter")
	}
	id := family.MustComponent[T](f.registry)
	m := f.mask.Clone()
	m.Set(uint(id))
	return Filter{registry: f.registry, mask: m}
}

// Requires reports whether family id is part of the filter.
func (f Filter) Requires(id family.ID) bool {
	return f.mask != nil && f.mask.Test(uint(id))
}

func (f Filter) matches(mask *bitset.BitSet) bool {
	return f.mask == nil || mask.IsSuperSet(f.mask)
}

// Filter returns every live entity whose mask contains all of f's families,
// in ascending order. It rescans the masks on every call.
func (w *World) Filter(f Filter) []Entity {
	var out []Entity
	w.pool.Each(func(e Entity) {
		if f.matches(&w.masks[e]) {
			out = append(out, e)
		}
	})
	return out
}

// The EachN helpers snapshot the matches first. An entity that loses a
// required component or dies inside an earlier callback is skipped.

// Each1 iterates over entities that have component A.
func Each1[A any](w *World, fn func(Entity, *A)) {
	sa := storeOf[A](w)
	for _, e := range w.Filter(With[A](w.NewFilter())) {
		a, ok := sa.GetMut(e)
		if !ok || !w.Exists(e) {
			continue
		}
		fn(e, a)
	}
}

// Each2 iterates over entities that have both component A and B.
func Each2[A, B any](w *World, fn func(Entity, *A, *B)) {
	sa, sb := storeOf[A](w), storeOf[B](w)
	for _, e := range w.Filter(With[B](With[A](w.NewFilter()))) {
		a, okA := sa.GetMut(e)
		b, okB := sb.GetMut(e)
		if !okA || !okB || !w.Exists(e) {
			continue
		}
		fn(e, a, b)
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](w *World, fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := storeOf[A](w), storeOf[B](w), storeOf[C](w)
	for _, e := range w.Filter(With[C](With[B](With[A](w.NewFilter())))) {
		a, okA := sa.GetMut(e)
		b, okB := sb.GetMut(e)
		c, okC := sc.GetMut(e)
		if !okA || !okB || !okC || !w.Exists(e) {
			continue
		}
		fn(e, a, b, c)
	}
}
