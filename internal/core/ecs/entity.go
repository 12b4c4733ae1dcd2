package ecs

// Entity is an opaque identifier grouping zero or more components.
// Ids are recycled as soon as an entity is destroyed and carry no generation,
// so a handle kept across Destroy may later name a different entity.
type Entity uint32

// slot indexes one component value inside a family's dense pool.
type slot uint32

// IDPool hands out small integer ids and recycles released ones, most
// recently released first. It backs both entity allocation and the dense
// component pools.
type IDPool[T ~uint32] struct {
	reserved []bool
	freeList []T
}

func NewIDPool[T ~uint32]() *IDPool[T] {
	return &IDPool[T]{
		reserved: make([]bool, 0, 256),
		freeList: make([]T, 0, 64),
	}
}

// Reserve returns a released id if there is one, otherwise the next unused id.
func (p *IDPool[T]) Reserve() T {
	if n := len(p.freeList); n > 0 {
		id := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.reserved[id] = true
		return id
	}
	id := T(len(p.reserved))
	p.reserved = append(p.reserved, true)
	return id
}

// Release frees id for reuse. Releasing an id that is not reserved is a no-op.
func (p *IDPool[T]) Release(id T) {
	if !p.IsReserved(id) {
		return
	}
	p.reserved[id] = false
	p.freeList = append(p.freeList, id)
}

// IsReserved reports whether id is currently handed out.
func (p *IDPool[T]) IsReserved(id T) bool {
	return p.Exists(id) && p.reserved[id]
}

// Exists reports whether id was ever issued, reserved or not.
func (p *IDPool[T]) Exists(id T) bool {
	return int(id) < len(p.reserved)
}

// Len returns the number of currently reserved ids.
func (p *IDPool[T]) Len() int {
	return len(p.reserved) - len(p.freeList)
}

// Cap returns the number of ids ever issued.
func (p *IDPool[T]) Cap() int {
	return len(p.reserved)
}

// Each calls fn for every reserved id in ascending order.
func (p *IDPool[T]) Each(fn func(T)) {
	for i, ok := range p.reserved {
		if ok {
			fn(T(i))
		}
	}
}

// Reserved returns the reserved ids in ascending order.
func (p *IDPool[T]) Reserved() []T {
	out := make([]T, 0, p.Len())
	p.Each(func(id T) { out = append(out, id) })
	return out
}
