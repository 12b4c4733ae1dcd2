package system

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/core/family"
	"go.uber.org/zap"
)

// ErrAlreadySetUp is returned by a second call to Setup.
var ErrAlreadySetUp = errors.New("scheduler already set up")

type entry struct {
	sys     System
	name    string
	phase   Phase
	order   int
	emitter *event.Emitter
}

// Scheduler owns the world and the event queue and drives systems one tick
// at a time. It is single-threaded: systems run strictly one after another.
type Scheduler struct {
	world   *ecs.World
	queue   *event.Queue
	systems []*entry
	sorted  bool
	setUp   bool
	halted  bool
	ticks   uint64
	log     *zap.Logger
}

func NewScheduler(world *ecs.World, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		world:   world,
		queue:   event.NewQueue(world.Registry()),
		systems: make([]*entry, 0, 16),
		log:     log,
	}
}

func (s *Scheduler) World() *ecs.World   { return s.world }
func (s *Scheduler) Queue() *event.Queue { return s.queue }

// Halted reports whether a Halt event has been observed. It never resets.
func (s *Scheduler) Halted() bool { return s.halted }

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Register appends a system. Each system gets its own emitter.
// Systems run by Phase first and registration order second, so a Phased
// system can run before one registered earlier. Without Phased systems the
// order is exactly registration order.
func (s *Scheduler) Register(sys System) {
	e := &entry{
		sys:     sys,
		name:    nameOf(sys),
		phase:   PhaseUpdate,
		order:   len(s.systems),
		emitter: event.NewEmitter(s.world.Registry()),
	}
	if p, ok := sys.(Phased); ok {
		e.phase = p.Phase()
	}
	s.systems = append(s.systems, e)
	s.sorted = false
}

func nameOf(sys System) string {
	if n, ok := sys.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sys)
}

// Setup runs every Initializer, then fn, and makes fn's events visible to
// the first tick. It may be called once.
func (s *Scheduler) Setup(fn func(w *ecs.World, em *event.Emitter)) error {
	if s.setUp {
		return ErrAlreadySetUp
	}
	s.setUp = true
	s.ensureSorted()

	for _, e := range s.systems {
		ini, ok := e.sys.(Initializer)
		if !ok {
			continue
		}
		if err := ini.Init(s.world); err != nil {
			return fmt.Errorf("init %s: %w", e.name, err)
		}
	}

	em := event.NewEmitter(s.world.Registry())
	if fn != nil {
		fn(s.world, em)
	}
	seeded := em.Len()
	s.queue.Merge(em)
	reg := s.world.Registry()
	s.log.Debug("scheduler set up",
		zap.Int("systems", len(s.systems)),
		zap.Int("component_families", len(reg.Families(family.KindComponent))),
		zap.Int("event_families", len(reg.Families(family.KindEvent))),
		zap.Int("entities", s.world.Len()),
		zap.Int("events", seeded),
	)
	return nil
}

// Tick runs every system once in phase order. After each system its emitter
// is merged into the queue, so later systems see earlier systems' events in
// the same tick. Once all systems ran, queued destructions are flushed, a
// visible Halt latches the halted state, and the queue is flushed.
func (s *Scheduler) Tick(dt time.Duration) {
	s.ensureSorted()
	for _, e := range s.systems {
		e.sys.Update(s.world, s.queue, e.emitter, dt)
		s.queue.Merge(e.emitter)
	}

	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.log.Debug("destroyed queued entities", zap.Int("count", n))
	}

	if s.queue.Halted() && !s.halted {
		s.halted = true
		s.log.Info("halt observed", zap.Uint64("tick", s.ticks))
	}
	s.queue.Flush()
	s.ticks++
}

func (s *Scheduler) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.systems, func(i, j int) bool {
		if s.systems[i].phase != s.systems[j].phase {
			return s.systems[i].phase < s.systems[j].phase
		}
		return s.systems[i].order < s.systems[j].order
	})
	s.sorted = true
}
