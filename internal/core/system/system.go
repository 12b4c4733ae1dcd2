package system

import (
	"time"

	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
)

// Phase defines execution ordering within a single tick. Systems of the same
// phase run in registration order.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain external hand-off channels
	PhasePreUpdate               // 1: react to last tick's leftovers
	PhaseUpdate                  // 2: game logic (default)
	PhasePostUpdate              // 3: derived state
	PhaseOutput                  // 4: render / print
	PhaseCleanup                 // 5: bookkeeping before the flush
)

// System is the interface every ECS system implements. Update receives the
// world, the events visible so far this tick, and an emitter whose contents
// are merged into q right after Update returns.
type System interface {
	Update(w *ecs.World, q *event.Queue, em *event.Emitter, dt time.Duration)
}

// Phased systems choose their phase. Others run in PhaseUpdate.
type Phased interface {
	Phase() Phase
}

// Initializer systems get a chance to prepare world state during Setup.
type Initializer interface {
	Init(w *ecs.World) error
}

// Named systems report a name for logs.
type Named interface {
	Name() string
}

// Func adapts a plain function to System.
type Func func(w *ecs.World, q *event.Queue, em *event.Emitter, dt time.Duration)

func (f Func) Update(w *ecs.World, q *event.Queue, em *event.Emitter, dt time.Duration) {
	f(w, q, em, dt)
}

// Millis converts a tick delta to fractional milliseconds.
func Millis(dt time.Duration) float64 {
	return float64(dt) / float64(time.Millisecond)
}
