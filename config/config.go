// Package config loads the client configuration from TOML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Client  ClientConfig  `toml:"client"`
	Logging LoggingConfig `toml:"logging"`
	Console ConsoleConfig `toml:"console"`
	Input   InputConfig   `toml:"input"`
	Chat    ChatConfig    `toml:"chat"`
	Relay   RelayConfig   `toml:"relay"`
}

type ClientConfig struct {
	Mode        string        `toml:"mode"` // "automated", "headless" or "graphical"
	TickRate    time.Duration `toml:"tick_rate"`
	ZoneDir     string        `toml:"zone_dir"`
	Zone        string        `toml:"zone"`   // fixture name without extension
	Script      string        `toml:"script"` // automation script for automated mode
	SaveDir     string        `toml:"save_dir"`
	SessionName string        `toml:"session_name"`
	Seed        int64         `toml:"seed"` // 0 picks a time-based seed
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ConsoleConfig struct {
	Verbose        bool `toml:"verbose"`
	ShowTimestamps bool `toml:"show_timestamps"`
	ColorOutput    bool `toml:"color_output"`
	EchoCommands   bool `toml:"echo_commands"`
}

type InputConfig struct {
	MouseSensitivity float32 `toml:"mouse_sensitivity"`
	InvertMouseY     bool    `toml:"invert_mouse_y"`
	TurnSpeed        float32 `toml:"turn_speed"` // degrees per second
	HotkeysFile      string  `toml:"hotkeys_file"`
}

type ChatConfig struct {
	DefaultChannel string `toml:"default_channel"`
}

type RelayConfig struct {
	NATSURL       string `toml:"nats_url"` // empty disables the relay
	SubjectPrefix string `toml:"subject_prefix"`
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Client: ClientConfig{
			Mode:        "headless",
			TickRate:    16 * time.Millisecond, // ~60Hz
			ZoneDir:     "zones",
			Zone:        "qeynos2",
			SaveDir:     "saves",
			SessionName: "willeq",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Console: ConsoleConfig{
			ShowTimestamps: false,
			ColorOutput:    true,
			EchoCommands:   false,
		},
		Input: InputConfig{
			MouseSensitivity: 1.0,
			TurnSpeed:        180,
		},
		Chat: ChatConfig{
			DefaultChannel: "say",
		},
		Relay: RelayConfig{
			SubjectPrefix: "willeq",
		},
	}
}
