package system

import (
	"bufio"
	"io"
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"go.uber.org/zap"
)

// OutputSystem writes every Output event of the tick to the console and
// records movement in the log. Phase 4 (Output).
type OutputSystem struct {
	out *bufio.Writer
	log *zap.Logger
}

func NewOutputSystem(w io.Writer, log *zap.Logger) *OutputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutputSystem{out: bufio.NewWriter(w), log: log}
}

func (s *OutputSystem) Name() string         { return "output" }
func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ *ecs.World, q *event.Queue, _ *event.Emitter, _ time.Duration) {
	for _, mv := range event.Receive[component.Moved](q) {
		s.log.Debug("actor moved",
			zap.Uint32("actor", uint32(mv.Actor)),
			zap.String("from", mv.From),
			zap.String("to", mv.To),
		)
	}

	outputs := event.Receive[component.Output](q)
	if len(outputs) == 0 {
		return
	}
	for _, o := range outputs {
		if _, err := s.out.WriteString(o.Text); err != nil {
			s.log.Error("console write failed", zap.Error(err))
			return
		}
	}
	if err := s.out.Flush(); err != nil {
		s.log.Error("console flush failed", zap.Error(err))
	}
}
