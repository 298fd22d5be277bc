package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./deckx.db" {
			t.Errorf("expected database path ./deckx.db, got %s", config.Database.Path)
		}

		if config.Remote.Port != 7070 {
			t.Errorf("expected remote port 7070, got %d", config.Remote.Port)
		}

		if got := config.Presentation.TransitionDuration(); got != 500*time.Millisecond {
			t.Errorf("expected 500ms transition, got %v", got)
		}

		if config.Input.SwipeThreshold != 50 {
			t.Errorf("expected swipe threshold 50, got %d", config.Input.SwipeThreshold)
		}

		if !config.Presentation.ConfirmExit {
			t.Error("expected confirm_exit to default to true")
		}
	})

	t.Run("duration accessors fall back on zero values", func(t *testing.T) {
		var p PresentationConfig
		if got := p.TransitionDuration(); got != 500*time.Millisecond {
			t.Errorf("TransitionDuration() = %v, want 500ms", got)
		}
		if got := p.RevealBase(); got != 100*time.Millisecond {
			t.Errorf("RevealBase() = %v, want 100ms", got)
		}
		if got := p.RevealStagger(); got != 50*time.Millisecond {
			t.Errorf("RevealStagger() = %v, want 50ms", got)
		}
		if got := p.PrefetchHold(); got != 100*time.Millisecond {
			t.Errorf("PrefetchHold() = %v, want 100ms", got)
		}

		var in InputConfig
		if got := in.WheelDebounce(); got != 100*time.Millisecond {
			t.Errorf("WheelDebounce() = %v, want 100ms", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[presentation]
transition_ms = 300

[remote]
host = "0.0.0.0"
port = 8080

[input]
swipe_threshold = 30
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if got := config.Presentation.TransitionDuration(); got != 300*time.Millisecond {
			t.Errorf("expected 300ms transition, got %v", got)
		}
		if config.Remote.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Remote.Addr())
		}
		if config.Input.SwipeThreshold != 30 {
			t.Errorf("expected swipe threshold 30, got %d", config.Input.SwipeThreshold)
		}
		if config.Presentation.RevealStaggerMS != 50 {
			t.Errorf("unset keys should keep defaults, got reveal_stagger_ms=%d", config.Presentation.RevealStaggerMS)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[remote]\nport = 70000\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig rejects malformed toml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[remote\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault with missing file", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Remote.Port != 7070 {
			t.Errorf("expected default config, got port %d", config.Remote.Port)
		}
	})
}
