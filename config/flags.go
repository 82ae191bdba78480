package config

import (
	"flag"
	"io"
)

// flagValues holds the parsed CLI overrides.
type flagValues struct {
	config    *string
	debug     *bool
	width     *int
	height    *int
	noVSync   *bool
	software  *bool
	logFile   *string
	timeScale *float64
}

func parseFlags(args []string) (*flagValues, error) {
	fs := flag.NewFlagSet("yakuza-tower", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	v := &flagValues{
		config:    fs.String("config", "", "Path to config file"),
		debug:     fs.Bool("debug", false, "Enable debug logging and profiling"),
		width:     fs.Int("width", 0, "Window width"),
		height:    fs.Int("height", 0, "Window height"),
		noVSync:   fs.Bool("no-vsync", false, "Present frames without waiting for vblank"),
		software:  fs.Bool("software", false, "Force the software fallback adapter"),
		logFile:   fs.String("log-file", "", "Write logs to this rotating file"),
		timeScale: fs.Float64("time-scale", 0, "World time scale"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return v, nil
}

// ApplyFlags parses CLI overrides from args and applies the ones that were set.
func (c *Config) ApplyFlags(args []string) error {
	v, err := parseFlags(args)
	if err != nil {
		return err
	}

	if *v.debug {
		c.Logging.Level = "debug"
		c.Engine.Profiling = true
	}
	if *v.width > 0 {
		c.Window.Width = *v.width
	}
	if *v.height > 0 {
		c.Window.Height = *v.height
	}
	if *v.noVSync {
		c.Renderer.VSync = false
	}
	if *v.software {
		c.Renderer.ForceSoftware = true
	}
	if *v.logFile != "" {
		c.Logging.LogFile = *v.logFile
	}
	if *v.timeScale > 0 {
		c.Engine.WorldTimeScale = *v.timeScale
	}
	return nil
}

// ConfigPath returns the value of -config in args, or def when absent or unparsable.
func ConfigPath(args []string, def string) string {
	v, err := parseFlags(args)
	if err != nil || *v.config == "" {
		return def
	}
	return *v.config
}
