// Package config handles engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Config holds every tunable of the engine and the demo.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig holds GPU settings.
type RendererConfig struct {
	VSync         bool       `yaml:"vsync"`
	ForceSoftware bool       `yaml:"force_software"`
	ClearColor    [4]float64 `yaml:"clear_color"`
	Ambient       [3]float32 `yaml:"ambient"`
	// MaxTextureSize caps texture uploads; larger images are scaled down.
	MaxTextureSize uint32 `yaml:"max_texture_size"`
	// SkinWorkers bounds the CPU skinning worker pool. Zero uses runtime.NumCPU.
	SkinWorkers int `yaml:"skin_workers"`
}

// EngineConfig holds frame loop settings.
type EngineConfig struct {
	// MaxDeltaTime clamps the per-tick delta in seconds after a stall.
	MaxDeltaTime float64 `yaml:"max_delta_time"`
	// WorldTimeScale multiplies dt for every component except the player.
	WorldTimeScale float64 `yaml:"world_time_scale"`
	Profiling      bool    `yaml:"profiling"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Yakuza Tower",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			VSync:          true,
			ClearColor:     [4]float64{0, 0, 0, 1},
			Ambient:        [3]float32{0.05, 0.05, 0.06},
			MaxTextureSize: 4096,
		},
		Engine: EngineConfig{
			MaxDeltaTime:   0.25,
			WorldTimeScale: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot drive the engine.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Engine.MaxDeltaTime <= 0 || math.IsNaN(c.Engine.MaxDeltaTime) {
		errs = append(errs, fmt.Errorf("max_delta_time %v must be positive", c.Engine.MaxDeltaTime))
	}
	if c.Engine.WorldTimeScale < 0 {
		errs = append(errs, fmt.Errorf("world_time_scale %v must not be negative", c.Engine.WorldTimeScale))
	}
	if c.Renderer.SkinWorkers < 0 {
		errs = append(errs, fmt.Errorf("skin_workers %d must not be negative", c.Renderer.SkinWorkers))
	}
	return errors.Join(errs...)
}
