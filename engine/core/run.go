package core

import (
	"runtime"
	"time"

	"github.com/hubastard/grove/engine/gfx/batch"
	"github.com/hubastard/grove/engine/gfx/matrix"
)

// Run wires the platform window + renderer and executes the main loop.
// Every frame ends with a flush of the active batch before presenting.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := cfg.Validate(); err != nil {
		return err
	}

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}
	if win == nil {
		return ErrNoWindow
	}

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return err
	}
	if rend == nil {
		return ErrNoRenderer
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)

	mats := matrix.NewStack(Component("matrix"))
	mats.SetProjection(matrix.Ortho(0, float32(w), float32(h), 0, -1, 1))
	ctx := batch.New(rend, cfg.Batch,
		batch.WithLogger(Component("batch")),
		batch.WithMatrices(mats),
		batch.WithDefaultTexture(rend.WhiteTexture()),
	)
	defer ctx.Close()

	eng := &Engine{
		Window:   win,
		Renderer: rend,
		Batch:    ctx,
		Matrices: mats,
		Input:    NewInput(),
		Config:   cfg,
		start:    time.Now(),
	}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if eng.Layers.Dispatch(eng, ev) {
			return
		}
		app.OnEvent(eng, ev)
		switch ev.(type) {
		case EventResize:
			fw, fh := win.FramebufferSize()
			if fw < 1 || fh < 1 {
				return
			}
			rend.Resize(fw, fh)
		case EventCloseRequested:
			win.RequestClose()
		}
	})

	app.OnStart(eng)
	LogInfo("engine started: %dx%d, batch %d x %d vertices, %d draw calls",
		w, h, cfg.Batch.Buffers, cfg.Batch.Vertices, cfg.Batch.DrawCalls)

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			app.OnUpdate(eng, dt)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		rend.Clear(eng.Config.ClearColor)
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		ctx.Flush()

		win.SwapBuffers()
		eng.frames++
	}

	app.OnShutdown(eng)
	eng.Layers.Clear(eng)
	stats := ctx.Stats()
	LogInfo("engine exit after %d frames: %d flushes, %d draw calls", eng.frames, stats.Flushes, stats.DrawCalls)
	return nil
}
