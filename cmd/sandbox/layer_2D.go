package main

import (
	"math"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/batch"
	"github.com/hubastard/grove/engine/gfx/matrix"
	"github.com/hubastard/grove/engine/gfx/renderer2d"
	"github.com/hubastard/grove/engine/profiler"
	"github.com/hubastard/grove/engine/scene"
)

const (
	gridCols = 24
	gridRows = 14
	cellSize = 40
)

// ------- A simple 2D Layer demo -------
type Layer2D struct {
	cam    *scene.OrthoCamera2D
	ctrl   *scene.OrthoController2D
	r2d    *renderer2d.Renderer2D
	prof   *profiler.Profiler
	tex    batch.TextureID
	player renderer2d.SubTexture2D
	t      float32
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	// Camera sized to framebuffer, origin top-left.
	w, h := e.Window.FramebufferSize()
	l.cam = scene.NewScreen2D(w, h)
	l.ctrl = scene.NewOrthoController2D(l.cam)

	log := core.Component("sandbox")
	desc, err := assets.NewLoader(e.Config).Texture("player.png")
	if err != nil {
		log.Warn("player texture unavailable, using a checkerboard", "err", err)
		desc = core.TextureDesc{
			Width: 64, Height: 64,
			Format:    core.TextureRGBA8,
			Pixels:    assets.Checkerboard(64, 64, 8, colors.RayWhite, colors.Magenta),
			MinFilter: "nearest",
			MagFilter: "nearest",
		}
	}
	l.tex, err = e.Renderer.CreateTexture(desc)
	if err != nil {
		log.Error("create texture", "err", err)
		l.tex = e.Renderer.WhiteTexture()
		desc.Width, desc.Height = 1, 1
	}
	l.player = renderer2d.FromPixels(l.tex, 0, 0, min(32, desc.Width), min(32, desc.Height), desc.Width, desc.Height)
}

func (l *Layer2D) OnDetach(e *core.Engine) {
	if l.tex != e.Renderer.WhiteTexture() {
		e.Renderer.DestroyTexture(l.tex)
	}
}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e, float32(dt))
	l.t += float32(dt)
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	defer l.prof.Start("layer2d.render")()

	l.r2d.BeginScene(l.cam.VP())
	{
		for y := 0; y < gridRows; y++ {
			for x := 0; x < gridCols; x++ {
				cx := float32(x*cellSize + cellSize/2)
				cy := float32(y*cellSize + cellSize/2)
				c := colors.FromFloat(float32(x)/gridCols, float32(y)/gridRows, 0.6, 1)
				l.r2d.DrawQuad(cx, cy, cellSize*0.8, cellSize*0.8, c, l.t+float32(x+y)*0.1)
			}
		}

		// Alternate textured and untextured quads so every one splits a draw.
		for i := 0; i < 6; i++ {
			x := float32(120 + i*90)
			l.r2d.DrawSubTexQuad(x, 620, 64, 64, l.player, colors.White, l.t)
			l.r2d.DrawQuad(x+45, 620, 16, 16, colors.Yellow, 0)
		}

		w, h := e.Window.FramebufferSize()
		l.r2d.DrawRectLines(4, 4, float32(w-8), float32(h-8), colors.LightGray)
		l.r2d.DrawLine(0, 0, float32(w), float32(h), colors.Green.Fade(0.5))
		l.r2d.DrawTriangle(1000, 560, 1080, 680, 920, 680, colors.Red)

		l.drawFan(e, 1100, 200)
	}
	end := l.prof.Start("batch.flush")
	l.r2d.EndScene()
	end()
}

// drawFan submits a triangle fan through the raw batch API with a pushed
// modelview transform, so its vertices are transformed on the CPU.
func (l *Layer2D) drawFan(e *core.Engine, x, y float32) {
	const segments = 12
	mats, ctx := e.Matrices, e.Batch

	mats.SetMode(matrix.Modelview)
	mats.Push()
	mats.Translate(x, y, 0)
	mats.Rotate(l.t*90, 0, 0, 1)

	ctx.Begin(batch.Triangles)
	for i := 0; i < segments; i++ {
		a0 := float64(i) * 2 * math.Pi / segments
		a1 := float64(i+1) * 2 * math.Pi / segments
		ctx.Color4f(float32(i)/segments, 0.4, 1-float32(i)/segments, 1)
		ctx.Vertex2(0, 0)
		ctx.Vertex2(float32(math.Cos(a0))*80, float32(math.Sin(a0))*80)
		ctx.Vertex2(float32(math.Cos(a1))*80, float32(math.Sin(a1))*80)
	}
	ctx.End()

	mats.Pop()
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		l.cam.SetViewportPixels(v.W, v.H)
	case core.EventScroll:
		if l.ctrl.HandleEvent(ev) {
			return true
		}
	}
	return false
}
