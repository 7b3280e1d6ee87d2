package main

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/hubastard/grove/engine/core"
	glbackend "github.com/hubastard/grove/engine/gfx/gl"
	"github.com/hubastard/grove/engine/gfx/headless"
	"github.com/hubastard/grove/engine/gfx/renderer2d"
	"github.com/hubastard/grove/engine/platform"
	"github.com/hubastard/grove/engine/profiler"
)

type App struct {
	watch string // config path to reload on change; empty disables
	prof  *profiler.Profiler
	r2d   *renderer2d.Renderer2D
	layer *Layer2D
	stats *LayerStats
}

func (a *App) OnStart(e *core.Engine) {
	a.r2d = renderer2d.New(e.Batch, e.Matrices, e.Renderer.WhiteTexture())

	// push the 2D demo layer
	a.layer = &Layer2D{r2d: a.r2d, prof: a.prof}
	e.Layers.Push(e, a.layer)

	a.stats = &LayerStats{r2d: a.r2d, prof: a.prof}
	e.Layers.Push(e, a.stats)

	if a.watch != "" {
		e.Layers.Push(e, &LayerReload{path: a.watch})
	}
}

func (a *App) OnUpdate(e *core.Engine, dt float64)    {}
func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Window.RequestClose()
	}
}
func (a *App) OnShutdown(e *core.Engine) {}

func main() {
	configPath := flag.String("config", "sandbox.toml", "path to a TOML config file")
	headlessRun := flag.Bool("headless", false, "run without a window, recording draws in memory")
	watch := flag.Bool("watch", false, "reload the config file when it changes")
	frames := flag.Int("frames", 0, "stop after this many frames (0 runs until closed; headless defaults to 120)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		core.Logger().Fatal("config", "err", err)
	}
	if err := core.SetLevel(cfg.Log.Level); err != nil {
		core.LogWarn("unknown log level %q, keeping info", cfg.Log.Level)
	}

	newWindow := platform.NewWindow
	newRenderer := glbackend.NewRenderer
	if *headlessRun {
		n := *frames
		if n == 0 {
			n = 120
		}
		newWindow = func(cfg core.Config) (core.Window, error) {
			return headless.NewWindow(cfg, n), nil
		}
		newRenderer = headless.NewRenderer
	} else if *frames > 0 {
		newWindow = func(cfg core.Config) (core.Window, error) {
			w, err := platform.NewGLFWWindow(cfg, nil)
			if err != nil {
				return nil, err
			}
			return &frameLimit{Window: w, left: *frames}, nil
		}
	}

	app := &App{prof: profiler.New()}
	if *watch {
		app.watch = *configPath
	}
	if err := core.Run(app, cfg, newWindow, newRenderer); err != nil {
		core.Logger().Fatal("run", "err", err)
	}
}

// loadConfig falls back to the defaults when the file does not exist.
func loadConfig(path string) (core.Config, error) {
	cfg, err := core.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogInfo("no config at %s, using defaults", path)
		return core.DefaultConfig(), nil
	}
	return cfg, err
}

// frameLimit closes a window after a fixed number of presented frames.
type frameLimit struct {
	core.Window
	left int
}

func (f *frameLimit) SwapBuffers() {
	f.Window.SwapBuffers()
	if f.left--; f.left <= 0 {
		f.Window.RequestClose()
	}
}
