package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Presentation PresentationConfig `toml:"presentation"`
	Input        InputConfig        `toml:"input"`
	Remote       RemoteConfig       `toml:"remote"`
	Database     DatabaseConfig     `toml:"database"`
	Rehearsal    RehearsalConfig    `toml:"rehearsal"`
	Log          LogConfig          `toml:"log"`
}

// PresentationConfig holds timing constants for transitions and the content reveal.
type PresentationConfig struct {
	TransitionMS    int    `toml:"transition_ms"`
	RevealBaseMS    int    `toml:"reveal_base_ms"`
	RevealStaggerMS int    `toml:"reveal_stagger_ms"`
	RevealFadeMS    int    `toml:"reveal_fade_ms"`
	PrefetchHoldMS  int    `toml:"prefetch_hold_ms"`
	CTAMessage      string `toml:"cta_message"`
	ConfirmExit     bool   `toml:"confirm_exit"`
}

// InputConfig tunes the swipe and wheel adapters.
type InputConfig struct {
	SwipeThreshold  int `toml:"swipe_threshold"`
	CellUnits       int `toml:"cell_units"`
	WheelDebounceMS int `toml:"wheel_debounce_ms"`
}

// RemoteConfig contains HTTP remote control settings.
type RemoteConfig struct {
	Host            string  `toml:"host"`
	Port            int     `toml:"port"`
	AllowAllOrigins bool    `toml:"allow_all_origins"`
	RateLimit       float64 `toml:"rate_limit"`
	Burst           int     `toml:"burst"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// RehearsalConfig toggles the rehearsal timing log.
type RehearsalConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig controls where and how verbosely deckx logs.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// TransitionDuration is the visual length of a slide transition.
func (c PresentationConfig) TransitionDuration() time.Duration {
	return Milliseconds(c.TransitionMS, 500*time.Millisecond)
}

// RevealBase is the delay before the first element of a slide appears.
func (c PresentationConfig) RevealBase() time.Duration {
	return Milliseconds(c.RevealBaseMS, 100*time.Millisecond)
}

// RevealStagger is the extra delay added per element.
func (c PresentationConfig) RevealStagger() time.Duration {
	return Milliseconds(c.RevealStaggerMS, 50*time.Millisecond)
}

// RevealFade is how long an element takes to fade in once revealed.
func (c PresentationConfig) RevealFade() time.Duration {
	return Milliseconds(c.RevealFadeMS, 500*time.Millisecond)
}

// PrefetchHold is how long neighbor slides stay staged.
func (c PresentationConfig) PrefetchHold() time.Duration {
	return Milliseconds(c.PrefetchHoldMS, 100*time.Millisecond)
}

// WheelDebounce is the quiet period required before a wheel gesture fires.
func (c InputConfig) WheelDebounce() time.Duration {
	return Milliseconds(c.WheelDebounceMS, 100*time.Millisecond)
}

// Addr returns the host:port listen address for the remote.
func (c RemoteConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if c.Remote.Port < 0 || c.Remote.Port > 65535 {
		return fmt.Errorf("%w: remote port %d out of range", ErrInvalidConfig, c.Remote.Port)
	}
	if c.Input.SwipeThreshold < 0 {
		return fmt.Errorf("%w: swipe_threshold must not be negative", ErrInvalidConfig)
	}
	if c.Remote.RateLimit < 0 || c.Remote.Burst < 0 {
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault loads the config at path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
