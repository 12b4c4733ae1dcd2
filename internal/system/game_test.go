package system

import (
	"bytes"
	"strings"
	"testing"

	"github.com/l1jgo/simcore/internal/component"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	"github.com/l1jgo/simcore/internal/core/family"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/scripting"
	"go.uber.org/zap/zaptest"
)

const testRooms = `
rooms:
  - key: entrance
    name: Entrance
    description: You stand at the entrance to a dungeon.
    exits:
      north: hall
  - key: hall
    name: Hall
    description: A long hall.
    exits:
      south: entrance
`

func newRegistry() *family.Registry {
	reg := family.NewRegistry()
	component.Register(reg)
	return reg
}

func newGame(t *testing.T, scripts *scripting.Engine) (chan string, *bytes.Buffer, func()) {
	t.Helper()
	rooms, err := data.ParseRoomTable([]byte(testRooms))
	if err != nil {
		t.Fatal(err)
	}
	lines := make(chan string, 8)
	out := &bytes.Buffer{}
	sched, err := NewGame(GameOptions{
		Rooms:     rooms,
		StartRoom: "entrance",
		PlayerTag: "Player",
		Prompt:    "> ",
		Scripts:   scripts,
		Lines:     lines,
		Out:       out,
		Log:       zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatal(err)
	}
	return lines, out, func() { sched.Tick(0) }
}

func TestGameFirstTickPrintsPrompt(t *testing.T) {
	_, out, tick := newGame(t, nil)
	tick()
	if out.String() != "> " {
		t.Fatalf("expected initial prompt, got %q", out.String())
	}
	out.Reset()
	tick()
	if out.Len() != 0 {
		t.Fatalf("prompt repeated on an idle tick: %q", out.String())
	}
}

func TestGameLookAndMove(t *testing.T) {
	lines, out, tick := newGame(t, nil)
	tick()
	out.Reset()

	lines <- "  LOOK "
	tick()
	want := "Entrance\nYou stand at the entrance to a dungeon.\nExits: north\n> "
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}

	out.Reset()
	lines <- "go north"
	tick()
	if !strings.HasPrefix(out.String(), "Hall\nA long hall.\n") {
		t.Fatalf("expected hall description, got %q", out.String())
	}

	out.Reset()
	lines <- "south"
	tick()
	if !strings.HasPrefix(out.String(), "Entrance\n") {
		t.Fatalf("bare direction did not move, got %q", out.String())
	}

	out.Reset()
	lines <- "go west"
	tick()
	if out.String() != "You can't go that way.\n> " {
		t.Fatalf("unexpected %q", out.String())
	}
}

func TestGameUnknownCommand(t *testing.T) {
	lines, out, tick := newGame(t, nil)
	tick()
	out.Reset()
	lines <- "dance"
	tick()
	if out.String() != "Huh?\n> " {
		t.Fatalf("expected Huh?, got %q", out.String())
	}
}

func TestGameScriptedCommand(t *testing.T) {
	engine, err := scripting.NewEngine(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	if err := engine.LoadString(`command("where", function(_, ctx) return "in " .. ctx.room .. "\n" end)`); err != nil {
		t.Fatal(err)
	}

	lines, out, tick := newGame(t, engine)
	tick()
	out.Reset()
	lines <- "where"
	tick()
	if out.String() != "in entrance\n> " {
		t.Fatalf("unexpected %q", out.String())
	}
}

func TestGameQuitHalts(t *testing.T) {
	rooms, err := data.ParseRoomTable([]byte(testRooms))
	if err != nil {
		t.Fatal(err)
	}
	lines := make(chan string, 4)
	out := &bytes.Buffer{}
	sched, err := NewGame(GameOptions{
		Rooms: rooms, StartRoom: "entrance", PlayerTag: "Player", Prompt: "> ",
		Lines: lines, Out: out, Log: zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatal(err)
	}
	sched.Tick(0)
	lines <- "quit"
	lines <- "look"
	sched.Tick(0)
	if !sched.Halted() {
		t.Fatal("quit did not halt")
	}
	if out.String() != "> " {
		t.Fatalf("commands after quit were answered: %q", out.String())
	}
}

func TestGameClosedInputHalts(t *testing.T) {
	rooms, _ := data.ParseRoomTable([]byte(testRooms))
	lines := make(chan string)
	close(lines)
	sched, err := NewGame(GameOptions{
		Rooms: rooms, StartRoom: "entrance", PlayerTag: "Player",
		Lines: lines, Out: &bytes.Buffer{},
	})
	if err != nil {
		t.Fatal(err)
	}
	sched.Tick(0)
	if !sched.Halted() {
		t.Fatal("end of input did not halt")
	}
}

func TestGameUnknownStartRoom(t *testing.T) {
	rooms, _ := data.ParseRoomTable([]byte(testRooms))
	_, err := NewGame(GameOptions{
		Rooms: rooms, StartRoom: "attic", PlayerTag: "Player",
		Lines: make(chan string), Out: &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), `"attic"`) {
		t.Fatalf("expected an error naming the unknown start room, got %v", err)
	}
}

func TestSpawnRoomsAndPlayer(t *testing.T) {
	rooms, _ := data.ParseRoomTable([]byte(testRooms))
	w := ecs.NewWorld(newRegistry())
	ids := SpawnRooms(w, rooms)
	player, err := SpawnPlayer(w, "entrance", "Player")
	if err != nil {
		t.Fatal(err)
	}

	r, _ := ecs.Get[component.Room](w, ids["entrance"])
	if len(r.Occupants) != 1 || r.Occupants[0] != player {
		t.Fatalf("player not listed in start room: %v", r.Occupants)
	}
	if a, _ := ecs.Get[component.Actor](w, player); a.Room != ids["entrance"] {
		t.Fatal("actor not placed in start room")
	}
	if got, ok := w.Lookup("room:hall"); !ok || got != ids["hall"] {
		t.Fatal("room tag missing")
	}
	hall, _ := ecs.Get[component.Room](w, ids["hall"])
	if hall.Exits["south"] != ids["entrance"] {
		t.Fatal("exit not linked to entity")
	}
}

func TestMoveUpdatesOccupants(t *testing.T) {
	rooms, _ := data.ParseRoomTable([]byte(testRooms))
	reg := newRegistry()
	w := ecs.NewWorld(reg)
	ids := SpawnRooms(w, rooms)
	player, _ := SpawnPlayer(w, "entrance", "Player")
	em := event.NewEmitter(reg)
	q := event.NewQueue(reg)

	cmd := NewCommandSystem("Player", "> ", nil, nil)
	if cmd.handle(w, em, "go north") {
		t.Fatal("moving must not halt")
	}
	q.Merge(em)

	entrance, _ := ecs.Get[component.Room](w, ids["entrance"])
	hall, _ := ecs.Get[component.Room](w, ids["hall"])
	if len(entrance.Occupants) != 0 {
		t.Fatalf("player still listed at the entrance: %v", entrance.Occupants)
	}
	if len(hall.Occupants) != 1 || hall.Occupants[0] != player {
		t.Fatalf("player not listed in the hall: %v", hall.Occupants)
	}
	moved := event.Receive[component.Moved](q)
	if len(moved) != 1 || moved[0].From != "entrance" || moved[0].To != "hall" || moved[0].Actor != player {
		t.Fatalf("unexpected Moved events %+v", moved)
	}
}

func TestCommandWithoutPlayer(t *testing.T) {
	reg := newRegistry()
	w := ecs.NewWorld(reg)
	em := event.NewEmitter(reg)
	q := event.NewQueue(reg)

	NewCommandSystem("Player", "> ", nil, nil).handle(w, em, "look")
	q.Merge(em)
	out := event.Receive[component.Output](q)
	if len(out) != 1 || out[0].Text != "You are nowhere.\n" {
		t.Fatalf("unexpected output %+v", out)
	}
}
