package system

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/scripting"
	"go.uber.org/zap"
)

// CommandSystem interprets Input events for the tagged player and answers
// with Output events. Phase 2 (Update). Verbs it does not know go to the Lua
// engine, if any, before falling back to "Huh?".
type CommandSystem struct {
	playerTag string
	prompt    string
	scripts   *scripting.Engine
	log       *zap.Logger
}

func NewCommandSystem(playerTag, prompt string, scripts *scripting.Engine, log *zap.Logger) *CommandSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommandSystem{
		playerTag: playerTag,
		prompt:    prompt,
		scripts:   scripts,
		log:       log,
	}
}

func (s *CommandSystem) Name() string         { return "command" }
func (s *CommandSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CommandSystem) Update(w *ecs.World, q *event.Queue, em *event.Emitter, _ time.Duration) {
	for _, in := range event.Receive[component.Input](q) {
		if s.handle(w, em, in.Line) {
			// No prompt after quitting.
			break
		}
		event.Emit(em, component.Output{Text: s.prompt})
	}
}

// handle runs one command line and reports whether it halted the game.
func (s *CommandSystem) handle(w *ecs.World, em *event.Emitter, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb, args := fields[0], fields[1:]

	player, ok := w.Lookup(s.playerTag)
	if !ok {
		say(em, "You are nowhere.\n")
		return false
	}

	switch verb {
	case "look", "l":
		s.look(w, em, player)
	case "go", "walk":
		if len(args) == 0 {
			say(em, "Go where?\n")
			return false
		}
		s.move(w, em, player, args[0])
	case "help", "?":
		say(em, s.help())
	case "quit", "exit":
		em.Halt()
		return true
	default:
		if s.exitExists(w, player, verb) {
			s.move(w, em, player, verb)
			return false
		}
		return s.script(w, em, player, verb, args)
	}
	return false
}

func (s *CommandSystem) look(w *ecs.World, em *event.Emitter, player ecs.Entity) {
	_, room, ok := currentRoom(w, player)
	if !ok {
		say(em, "You are nowhere.\n")
		return
	}
	say(em, describe(w, room, player))
}

func (s *CommandSystem) move(w *ecs.World, em *event.Emitter, player ecs.Entity, dir string) {
	actor, room, ok := currentRoom(w, player)
	if !ok {
		say(em, "You are nowhere.\n")
		return
	}
	to, ok := room.Exits[dir]
	if !ok {
		say(em, "You can't go that way.\n")
		return
	}
	dest, ok := ecs.GetMut[component.Room](w, to)
	if !ok {
		s.log.Warn("exit leads to a missing room", zap.String("from", room.Key), zap.String("dir", dir))
		say(em, "The way is blocked.\n")
		return
	}

	room.Occupants = slices.DeleteFunc(room.Occupants, func(e ecs.Entity) bool { return e == player })
	dest.Occupants = append(dest.Occupants, player)
	actor.Room = to

	event.Emit(em, component.Moved{Actor: player, From: room.Key, To: dest.Key})
	say(em, describe(w, dest, player))
}

func (s *CommandSystem) exitExists(w *ecs.World, player ecs.Entity, dir string) bool {
	_, room, ok := currentRoom(w, player)
	if !ok {
		return false
	}
	_, found := room.Exits[dir]
	return found
}

func (s *CommandSystem) script(w *ecs.World, em *event.Emitter, player ecs.Entity, verb string, args []string) bool {
	if s.scripts == nil {
		say(em, "Huh?\n")
		return false
	}
	ctx := scripting.CommandContext{Actor: s.playerTag}
	if _, room, ok := currentRoom(w, player); ok {
		ctx.Room = room.Key
		ctx.RoomName = room.Name
		ctx.Exits = exitNames(room)
	}
	res := s.scripts.HandleCommand(verb, args, ctx)
	if !res.Handled {
		say(em, "Huh?\n")
		return false
	}
	if res.Text != "" {
		say(em, res.Text)
	}
	if res.Halt {
		em.Halt()
		return true
	}
	return false
}

func (s *CommandSystem) help() string {
	verbs := []string{"look", "go <exit>", "help", "quit"}
	if s.scripts != nil {
		verbs = append(verbs, s.scripts.Verbs()...)
	}
	return "Commands: " + strings.Join(verbs, ", ") + "\n"
}

// currentRoom resolves the actor component of e and the room it stands in.
func currentRoom(w *ecs.World, e ecs.Entity) (*component.Actor, *component.Room, bool) {
	actor, ok := ecs.GetMut[component.Actor](w, e)
	if !ok {
		return nil, nil, false
	}
	room, ok := ecs.GetMut[component.Room](w, actor.Room)
	if !ok {
		return nil, nil, false
	}
	return actor, room, true
}

func describe(w *ecs.World, room *component.Room, viewer ecs.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", room.Name, room.Description)
	if exits := exitNames(room); len(exits) > 0 {
		fmt.Fprintf(&b, "Exits: %s\n", strings.Join(exits, ", "))
	}
	var others []string
	for _, e := range room.Occupants {
		if e == viewer {
			continue
		}
		if a, ok := ecs.Get[component.Actor](w, e); ok {
			others = append(others, a.Name)
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, "You see: %s\n", strings.Join(others, ", "))
	}
	return b.String()
}

func exitNames(room *component.Room) []string {
	out := make([]string, 0, len(room.Exits))
	for d := range room.Exits {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func say(em *event.Emitter, text string) {
	event.Emit(em, component.Output{Text: text})
}
