package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/renderer2d"
	"github.com/hubastard/grove/engine/profiler"
)

const statsInterval = 2 * time.Second

// LayerStats logs batcher and renderer statistics at a fixed interval.
// Ctrl+P writes the profiler scopes to a JSON file.
type LayerStats struct {
	r2d  *renderer2d.Renderer2D
	prof *profiler.Profiler
	log  *log.Logger

	elapsed time.Duration
	frames  int
}

func (l *LayerStats) OnAttach(e *core.Engine) { l.log = core.Component("stats") }

func (l *LayerStats) OnDetach(e *core.Engine) { l.report(e) }

func (l *LayerStats) OnUpdate(e *core.Engine, dt float64) {
	l.elapsed += time.Duration(dt * float64(time.Second))
	if l.elapsed >= statsInterval {
		l.report(e)
		l.elapsed = 0
	}
}

func (l *LayerStats) OnRender(e *core.Engine, alpha float64) { l.frames++ }

func (l *LayerStats) report(e *core.Engine) {
	bs := e.Batch.Stats()
	sc := l.r2d.Stats()
	l.log.Info("batch",
		"frames", l.frames,
		"flushes", bs.Flushes,
		"forced", bs.ForcedFlushes,
		"draws", bs.DrawCalls,
		"vertices", bs.VertexCount,
		"padding", bs.PaddingCount,
		"avg_draw", bs.AverageDrawSize(),
	)
	l.log.Info("scene",
		"quads", sc.QuadCount,
		"lines", sc.LineCount,
		"triangles", sc.TriangleCount,
		"vertices", sc.TotalVertexCount(),
		"draws", sc.DrawCalls,
		"heap_mb", float64(profiler.MemoryUsage())/(1<<20),
		"goroutines", profiler.NumGoroutine(),
	)
	for _, s := range l.prof.Snapshot() {
		l.log.Debug("scope", "name", s.Name, "count", s.Count, "mean", s.Mean(), "max", s.Max)
	}
	e.Batch.ResetStats()
	l.frames = 0
}

func (l *LayerStats) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down || k.Key != core.KeyP || k.Mods&core.ModCtrl == 0 {
		return false
	}
	path := filepath.Join(os.TempDir(), "grove.scopes.json")
	if err := l.prof.Dump(path); err != nil {
		l.log.Error("profiler dump", "err", err)
	} else {
		l.log.Info("profiler dump", "path", path)
	}
	return true
}
