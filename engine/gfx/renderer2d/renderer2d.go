package renderer2d

import (
	"math"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/gfx/batch"
	"github.com/hubastard/grove/engine/gfx/matrix"
)

// Statistics captures the shapes submitted since the last BeginScene.
type Statistics struct {
	QuadCount     int
	TriangleCount int
	LineCount     int
	DrawCalls     int // batch draw calls issued during the scene
}

// TotalVertexCount reports vertices submitted this scene.
func (s Statistics) TotalVertexCount() int {
	return s.QuadCount*4 + s.TriangleCount*3 + s.LineCount*2
}

// Renderer2D draws shapes through the immediate-mode batcher.
type Renderer2D struct {
	ctx   *batch.Context
	mats  *matrix.Stack
	white batch.TextureID

	stats     Statistics
	drawsBase int
}

// New wraps ctx. white is the texture untextured shapes sample; mats may be
// nil when the caller manages matrices itself.
func New(ctx *batch.Context, mats *matrix.Stack, white batch.TextureID) *Renderer2D {
	return &Renderer2D{ctx: ctx, mats: mats, white: white}
}

// BeginScene loads vp as the projection with an identity modelview and
// starts a fresh set of statistics.
func (rd *Renderer2D) BeginScene(vp matrix.Mat4) {
	rd.ctx.Flush()
	if rd.mats != nil {
		rd.mats.SetProjection(vp)
		rd.mats.SetModelview(matrix.Identity())
	}
	rd.stats = Statistics{}
	rd.drawsBase = rd.ctx.Stats().DrawCalls
}

func (rd *Renderer2D) EndScene() {
	rd.ctx.Flush()
	rd.stats.DrawCalls = rd.ctx.Stats().DrawCalls - rd.drawsBase
}

// Stats returns the current scene statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// DrawQuad draws a solid color quad centered on (x, y).
func (rd *Renderer2D) DrawQuad(x, y, w, h float32, color colors.Color, rotationRad float32) {
	rd.drawQuadInternal(x, y, w, h, color, rotationRad, rd.white, 0, 0, 1, 1)
}

// DrawTexturedQuad draws the whole of tex, tinted.
func (rd *Renderer2D) DrawTexturedQuad(x, y, w, h float32, tex batch.TextureID, tint colors.Color, rotationRad float32) {
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, tex, 0, 0, 1, 1)
}

// DrawTexturedQuadUV draws the UV rect u0,v0 -> u1,v1 of tex.
func (rd *Renderer2D) DrawTexturedQuadUV(x, y, w, h float32, tex batch.TextureID, tint colors.Color, rotationRad float32, u0, v0, u1, v1 float32) {
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, tex, u0, v0, u1, v1)
}

// DrawSubTexQuad draws a quad using a SubTexture2D (tint + rotation optional).
func (rd *Renderer2D) DrawSubTexQuad(x, y, w, h float32, sub SubTexture2D, tint colors.Color, rotationRad float32) {
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, sub.Texture, sub.U0, sub.V0, sub.U1, sub.V1)
}

// DrawLine draws a one-pixel line segment.
func (rd *Renderer2D) DrawLine(x0, y0, x1, y1 float32, color colors.Color) {
	rd.ctx.Begin(batch.Lines)
	rd.ctx.SetColor(color)
	rd.ctx.Vertex2(x0, y0)
	rd.ctx.Vertex2(x1, y1)
	rd.ctx.End()
	rd.stats.LineCount++
}

// DrawRectLines outlines the axis-aligned rect with top-left (x, y).
func (rd *Renderer2D) DrawRectLines(x, y, w, h float32, color colors.Color) {
	rd.DrawLine(x, y, x+w, y, color)
	rd.DrawLine(x+w, y, x+w, y+h, color)
	rd.DrawLine(x+w, y+h, x, y+h, color)
	rd.DrawLine(x, y+h, x, y, color)
}

// DrawTriangle draws a solid triangle; vertices go in as given.
func (rd *Renderer2D) DrawTriangle(x0, y0, x1, y1, x2, y2 float32, color colors.Color) {
	rd.ctx.Begin(batch.Triangles)
	rd.ctx.SetColor(color)
	rd.ctx.Vertex2(x0, y0)
	rd.ctx.Vertex2(x1, y1)
	rd.ctx.Vertex2(x2, y2)
	rd.ctx.End()
	rd.stats.TriangleCount++
}

// --- internals ---

func (rd *Renderer2D) drawQuadInternal(x, y, w, h float32, color colors.Color, rotationRad float32, tex batch.TextureID, u0, v0, u1, v1 float32) {
	halfW := w * 0.5
	halfH := h * 0.5

	// Corners in index-buffer order (TL, BL, BR, TR). Positive Y goes down
	// so top is -halfH.
	corners := [4][4]float32{
		{-halfW, -halfH, u0, v0},
		{-halfW, halfH, u0, v1},
		{halfW, halfH, u1, v1},
		{halfW, -halfH, u1, v0},
	}
	c, s := float32(math.Cos(float64(rotationRad))), float32(math.Sin(float64(rotationRad)))

	rd.ctx.SetTexture(tex)
	rd.ctx.Begin(batch.Quads)
	rd.ctx.SetColor(color)
	rd.ctx.Normal(0, 0, 1)
	for _, p := range corners {
		rd.ctx.TexCoord(p[2], p[3])
		rd.ctx.Vertex2(p[0]*c-p[1]*s+x, p[0]*s+p[1]*c+y)
	}
	rd.ctx.End()
	rd.ctx.SetTexture(batch.NoTexture)
	rd.stats.QuadCount++
}
