package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding scripted console commands.
// Single-goroutine access only (game loop).
//
// Scripts register verbs through the global command(verb, fn). fn receives
// an args array and a context table, and returns the text to print (nil
// means "not handled") plus an optional boolean asking the game to halt.
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	commands map[string]*lua.LFunction
}

// CommandContext is the state exposed to a command handler.
type CommandContext struct {
	Actor    string
	Room     string // room key
	RoomName string
	Exits    []string
}

// CommandResult is what a script made of a command.
type CommandResult struct {
	Handled bool
	Text    string
	Halt    bool
}

// NewEngine creates a Lua engine and loads every script under scriptsDir/commands.
// A missing directory yields an engine with no commands.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, commands: make(map[string]*lua.LFunction)}
	vm.SetGlobal("command", vm.NewFunction(e.luaCommand))

	if err := e.loadDir(filepath.Join(scriptsDir, "commands")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load command scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically to register more commands.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// luaCommand implements command(verb, fn).
func (e *Engine) luaCommand(L *lua.LState) int {
	verb := strings.ToLower(L.CheckString(1))
	fn := L.CheckFunction(2)
	if _, dup := e.commands[verb]; dup {
		e.log.Warn("lua command redefined", zap.String("verb", verb))
	}
	e.commands[verb] = fn
	return 0
}

// Verbs returns the scripted verbs, sorted.
func (e *Engine) Verbs() []string {
	out := make([]string, 0, len(e.commands))
	for v := range e.commands {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// HandleCommand runs the script bound to verb. Unknown verbs, script errors
// and nil returns all come back as not handled.
func (e *Engine) HandleCommand(verb string, args []string, ctx CommandContext) CommandResult {
	fn, ok := e.commands[verb]
	if !ok {
		return CommandResult{}
	}

	lArgs := e.vm.NewTable()
	for _, a := range args {
		lArgs.Append(lua.LString(a))
	}

	t := e.vm.NewTable()
	t.RawSetString("actor", lua.LString(ctx.Actor))
	t.RawSetString("room", lua.LString(ctx.Room))
	t.RawSetString("room_name", lua.LString(ctx.RoomName))
	exits := e.vm.NewTable()
	for _, x := range ctx.Exits {
		exits.Append(lua.LString(x))
	}
	t.RawSetString("exits", exits)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}, lArgs, t); err != nil {
		e.log.Error("lua command error", zap.String("verb", verb), zap.Error(err))
		return CommandResult{}
	}

	halt := e.vm.Get(-1)
	text := e.vm.Get(-2)
	e.vm.Pop(2)

	if text == lua.LNil {
		return CommandResult{}
	}
	return CommandResult{
		Handled: true,
		Text:    lua.LVAsString(text),
		Halt:    lua.LVAsBool(halt),
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
