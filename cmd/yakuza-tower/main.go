// Command yakuza-tower runs the demo scene: a first-person walk around swaying columns and a
// bobbing enemy, drawn by the deferred renderer.
package main

import (
	"os"
	"time"

	"github.com/Duckpedia/Yakuza-Tower/config"
	"github.com/Duckpedia/Yakuza-Tower/engine"
	"github.com/Duckpedia/Yakuza-Tower/engine/renderer"
	"github.com/Duckpedia/Yakuza-Tower/engine/window"
	"github.com/Duckpedia/Yakuza-Tower/logger"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yaml"

func main() {
	// Console logging until the configured level and file are known.
	if err := logger.Init("info", ""); err != nil {
		panic(err)
	}

	args := os.Args[1:]
	cfg, err := config.Load(config.ConfigPath(args, defaultConfigPath), args)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		logger.Fatal("init logger", zap.Error(err))
	}
	defer logger.Sync()

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		logger.Fatal("create window", zap.Error(err))
	}

	presentMode := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithClearColor(cfg.Renderer.ClearColor),
		renderer.WithAmbient(cfg.Renderer.Ambient),
		renderer.WithMaxTextureSize(cfg.Renderer.MaxTextureSize),
		renderer.WithSkinWorkers(cfg.Renderer.SkinWorkers),
	)
	if err != nil {
		logger.Fatal("create renderer", zap.Error(err))
	}
	defer r.Release()
	if err := r.Initialize(nil); err != nil {
		logger.Fatal("initialize renderer", zap.Error(err))
	}

	scene, err := buildWorld(float32(win.Width()) / float32(win.Height()))
	if err != nil {
		logger.Fatal("build world", zap.Error(err))
	}

	opts := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithMaxDeltaTime(cfg.Engine.MaxDeltaTime),
		engine.WithWorldTimeScale(cfg.Engine.WorldTimeScale),
	}
	if cfg.Engine.Profiling {
		opts = append(opts, engine.WithProfileInterval(time.Second))
	}
	eng := engine.NewEngine(opts...)
	eng.AddEntities(scene.roots...)
	eng.SetCamera(scene.camera)

	scene.player.SetTimeScaler(eng)
	win.SetKeyCallback(scene.player.HandleKey)
	win.SetPointerMoveCallback(scene.player.HandlePointerMove)

	logger.Info("scene ready",
		zap.Int("entities", len(eng.Entities())),
		zap.Int("width", win.Width()),
		zap.Int("height", win.Height()),
		zap.Stringer("present_mode", presentMode),
	)
	if err := eng.Run(); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
