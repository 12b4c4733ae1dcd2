package system

import (
	"fmt"
	"io"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/core/family"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/scripting"
	"go.uber.org/zap"
)

// GameOptions wires the text adventure.
type GameOptions struct {
	Rooms      *data.RoomTable
	StartRoom  string
	PlayerTag  string
	Prompt     string
	Scripts    *scripting.Engine // optional
	Lines      <-chan string
	Out        io.Writer
	MaxPerTick int
	Log        *zap.Logger
}

// NewGame builds the world and scheduler for the adventure and runs setup,
// which spawns the rooms and the player and queues the first prompt.
func NewGame(opts GameOptions) (*coresys.Scheduler, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	if opts.Rooms.Get(opts.StartRoom) == nil {
		return nil, fmt.Errorf("start room %q not in room table", opts.StartRoom)
	}

	reg := family.NewRegistry()
	component.Register(reg)
	world := ecs.NewWorld(reg)

	sched := coresys.NewScheduler(world, log)
	sched.Register(NewInputSystem(opts.Lines, opts.MaxPerTick, log))
	sched.Register(NewCommandSystem(opts.PlayerTag, opts.Prompt, opts.Scripts, log))
	sched.Register(NewOutputSystem(opts.Out, log))

	var spawnErr error
	err := sched.Setup(func(w *ecs.World, em *event.Emitter) {
		SpawnRooms(w, opts.Rooms)
		if _, spawnErr = SpawnPlayer(w, opts.StartRoom, opts.PlayerTag); spawnErr != nil {
			return
		}
		event.Emit(em, component.Output{Text: opts.Prompt})
	})
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	if spawnErr != nil {
		return nil, fmt.Errorf("spawn player: %w", spawnErr)
	}
	log.Debug("game ready",
		zap.Int("rooms", opts.Rooms.Count()),
		zap.Int("entities", world.Len()),
	)
	return sched, nil
}
