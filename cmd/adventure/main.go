package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/scripting"
	"github.com/l1jgo/simcore/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "config/adventure.toml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := defaultConfigPath
	if p := os.Getenv("SIMCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the TOML config file")
	flag.Parse()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load rooms
	rooms, err := data.LoadRoomTable(cfg.World.RoomsFile)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	log.Info("rooms loaded", zap.Int("count", rooms.Count()))

	// 4. Lua command scripts
	var scripts *scripting.Engine
	if cfg.Scripting.Enabled {
		scripts, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer scripts.Close()
		log.Info("lua commands loaded", zap.Strings("verbs", scripts.Verbs()))
	}

	// 5. Console reader: the only goroutine besides the game loop.
	lines := make(chan string, 64)
	go readLines(os.Stdin, lines)

	// 6. Build the game
	sched, err := system.NewGame(system.GameOptions{
		Rooms:     rooms,
		StartRoom: cfg.World.StartRoom,
		PlayerTag: cfg.World.PlayerTag,
		Prompt:    cfg.Simulation.Prompt,
		Scripts:   scripts,
		Lines:     lines,
		Out:       os.Stdout,
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("build game: %w", err)
	}

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()
	log.Debug("game loop started", zap.Duration("tick", cfg.Simulation.TickRate))

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			sched.Tick(now.Sub(last))
			last = now
			if sched.Halted() {
				log.Info("game halted", zap.Uint64("ticks", sched.Ticks()))
				return nil
			}
			if cfg.Simulation.MaxTicks > 0 && sched.Ticks() >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", sched.Ticks()))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// loadConfig falls back to built-in defaults only when the default path is absent.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// readLines forwards console lines to the game and closes ch at end of input.
func readLines(r io.Reader, ch chan<- string) {
	defer close(ch)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		ch <- sc.Text()
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
