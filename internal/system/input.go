package system

import (
	"strings"
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// InputSystem drains the console hand-off channel and turns every line into
// an Input event. Phase 0 (Input). The reader goroutine feeding the channel
// lives outside the simulation; a closed channel means end of input and halts.
type InputSystem struct {
	lines      <-chan string
	maxPerTick int
	fold       cases.Caser
	closed     bool
	log        *zap.Logger
}

func NewInputSystem(lines <-chan string, maxPerTick int, log *zap.Logger) *InputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	if maxPerTick <= 0 {
		maxPerTick = 16
	}
	return &InputSystem{
		lines:      lines,
		maxPerTick: maxPerTick,
		fold:       cases.Fold(),
		log:        log,
	}
}

func (s *InputSystem) Name() string         { return "input" }
func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ *ecs.World, _ *event.Queue, em *event.Emitter, _ time.Duration) {
	if s.closed {
		return
	}
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case line, ok := <-s.lines:
			if !ok {
				s.closed = true
				s.log.Info("console input closed")
				em.Halt()
				return
			}
			event.Emit(em, component.Input{Line: s.normalize(line)})
		default:
			return
		}
	}
}

// normalize trims, case-folds and collapses inner whitespace.
func (s *InputSystem) normalize(line string) string {
	return strings.Join(strings.Fields(s.fold.String(line)), " ")
}
