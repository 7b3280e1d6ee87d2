package main

import (
	"github.com/charmbracelet/log"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/core"
)

// LayerReload re-reads the config file when it changes on disk and applies
// the settings that can change while running. Batch sizes and the window
// size need a restart.
type LayerReload struct {
	path    string
	watcher *assets.Watcher
	log     *log.Logger
}

func (l *LayerReload) OnAttach(e *core.Engine) {
	l.log = core.Component("reload")
	w, err := assets.Watch(l.path)
	if err != nil {
		l.log.Warn("config reload disabled", "err", err)
		return
	}
	l.watcher = w
	l.log.Info("watching config", "path", l.path)
}

func (l *LayerReload) OnDetach(e *core.Engine) {
	if l.watcher != nil {
		_ = l.watcher.Close()
	}
}

func (l *LayerReload) OnUpdate(e *core.Engine, dt float64) {
	if l.watcher == nil || len(l.watcher.Poll()) == 0 {
		return
	}
	cfg, err := core.LoadConfig(l.path)
	if err != nil {
		l.log.Error("reload config", "err", err)
		return
	}
	if cfg.Batch != e.Config.Batch || cfg.Width != e.Config.Width || cfg.Height != e.Config.Height {
		l.log.Warn("batch and window size changes apply on restart")
	}
	if err := core.SetLevel(cfg.Log.Level); err != nil {
		l.log.Warn("unknown log level", "level", cfg.Log.Level)
	}
	e.Config.ClearColor = cfg.ClearColor
	if cfg.Title != e.Config.Title {
		e.Window.SetTitle(cfg.Title)
		e.Config.Title = cfg.Title
	}
	l.log.Info("config reloaded", "path", l.path)
}

func (l *LayerReload) OnRender(e *core.Engine, alpha float64)     {}
func (l *LayerReload) OnEvent(e *core.Engine, ev core.Event) bool { return false }
