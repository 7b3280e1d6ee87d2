package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/gfx/batch"
)

// Config for the engine run.
type Config struct {
	Title      string       `toml:"title"`
	Width      int          `toml:"width"`
	Height     int          `toml:"height"`
	VSync      bool         `toml:"vsync"`
	ClearColor colors.Color `toml:"clear_color"`

	Batch  batch.Config `toml:"batch"`
	Log    LogConfig    `toml:"log"`
	Assets AssetsConfig `toml:"assets"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
}

func DefaultConfig() Config {
	return Config{
		Title:      "grove",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.DarkGray,
		Batch:      batch.DefaultConfig(),
		Log:        LogConfig{Level: "info"},
		Assets:     AssetsConfig{Dir: "assets"},
	}
}

// LoadConfig reads a TOML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Batch.Buffers < 1:
		return fmt.Errorf("%w: batch.buffers must be at least 1, got %d", ErrInvalidConfig, c.Batch.Buffers)
	case c.Batch.Vertices < 4:
		return fmt.Errorf("%w: batch.vertices must hold one quad, got %d", ErrInvalidConfig, c.Batch.Vertices)
	case c.Batch.DrawCalls < 1:
		return fmt.Errorf("%w: batch.draw_calls must be at least 1, got %d", ErrInvalidConfig, c.Batch.DrawCalls)
	}
	return nil
}
