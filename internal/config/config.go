package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	World      WorldConfig      `toml:"world"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks uint64        `toml:"max_ticks"` // 0 = run until halted
	Prompt   string        `toml:"prompt"`
}

type WorldConfig struct {
	RoomsFile string `toml:"rooms_file"`
	StartRoom string `toml:"start_room"`
	PlayerTag string `toml:"player_tag"`
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	if c.World.RoomsFile == "" {
		return fmt.Errorf("world.rooms_file is required")
	}
	if c.World.PlayerTag == "" {
		return fmt.Errorf("world.player_tag is required")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: 16 * time.Millisecond,
			Prompt:   "> ",
		},
		World: WorldConfig{
			RoomsFile: "data/yaml/rooms.yaml",
			StartRoom: "entrance",
			PlayerTag: "Player",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
