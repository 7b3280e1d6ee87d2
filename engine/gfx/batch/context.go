package batch

import (
	"github.com/charmbracelet/log"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/gfx/matrix"
)

// Context is the immediate-mode submission API. It owns a default batch,
// routes submissions to the active batch and holds the pending texcoord,
// color and normal applied to the next vertex.
//
// A Context is used from the render thread only.
type Context struct {
	backend    Backend
	matrices   MatrixSource
	log        *log.Logger
	defaultTex TextureID

	def    *Batch
	active *Batch

	texcoord [2]float32
	color    colors.Color
	normal   [3]float32

	stats Statistics
}

type Option func(*Context)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option { return func(c *Context) { c.log = l } }

// WithMatrices sets the matrix source read at vertex and flush time.
// Without one, vertices are written untransformed and draws carry the
// identity MVP.
func WithMatrices(m MatrixSource) Option { return func(c *Context) { c.matrices = m } }

// WithDefaultTexture sets the texture recorded on draw calls that never had
// one bound (typically a 1x1 white texture).
func WithDefaultTexture(id TextureID) Option { return func(c *Context) { c.defaultTex = id } }

// New creates a context whose default batch is sized by cfg.
func New(backend Backend, cfg Config, opts ...Option) *Context {
	c := &Context{
		backend: backend,
		color:   colors.White,
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = log.Default().WithPrefix("batch")
	}
	c.def = c.NewBatch(cfg)
	c.active = c.def
	return c
}

// NewBatch creates an additional batch. Sizes too small to hold a single
// primitive group are a configuration error: it is logged and the size is
// raised to the minimum.
func (c *Context) NewBatch(cfg Config) *Batch {
	if cfg.Buffers < 1 {
		c.log.Error("batch needs at least one buffer region", "buffers", cfg.Buffers)
		cfg.Buffers = 1
	}
	if cfg.Vertices < minCapacity {
		c.log.Error("batch vertex capacity below one primitive group", "vertices", cfg.Vertices, "min", minCapacity)
		cfg.Vertices = minCapacity
	}
	if cfg.DrawCalls < 1 {
		c.log.Error("batch draw-call table is empty", "draw_calls", cfg.DrawCalls)
		cfg.DrawCalls = 1
	}
	b := newBatch(cfg, c.defaultTex)
	c.log.Debug("batch created", "id", b.id, "buffers", cfg.Buffers, "vertices", cfg.Vertices, "draw_calls", cfg.DrawCalls)
	return b
}

// Active returns the batch receiving submissions.
func (c *Context) Active() *Batch { return c.active }

// Default returns the batch owned by the context.
func (c *Context) Default() *Batch { return c.def }

// SetActive flushes the current batch and makes b the target of further
// submissions. A nil b selects the default batch.
func (c *Context) SetActive(b *Batch) {
	c.flush(c.active)
	if b == nil || b.destroyed {
		b = c.def
	}
	c.active = b
}

// DestroyBatch flushes and retires b. Backends implementing Releaser get to
// free the batch's regions. The default batch is destroyed by Close.
func (c *Context) DestroyBatch(b *Batch) {
	if b == nil || b == c.def || b.destroyed {
		return
	}
	c.destroy(b)
}

// Close flushes and destroys every batch the context knows about.
func (c *Context) Close() {
	if c.active != c.def {
		c.destroy(c.active)
	}
	c.destroy(c.def)
}

func (c *Context) destroy(b *Batch) {
	if b.destroyed {
		return
	}
	c.flush(b)
	if c.active == b {
		c.active = c.def
	}
	b.destroyed = true
	if r, ok := c.backend.(Releaser); ok {
		r.Release(b.id)
	}
	c.log.Debug("batch destroyed", "id", b.id, "flushes", b.flushes)
}

// Begin starts a run of primitives in mode.
func (c *Context) Begin(mode Mode) {
	b := c.active
	dc := b.open()
	if dc.Mode == mode {
		return
	}
	if dc.VertexCount > 0 {
		c.split(b)
		// A run opened by a mode change starts untextured.
		b.open().Texture = c.defaultTex
	}
	b.open().Mode = mode
}

// End closes the current primitive.
func (c *Context) End() {
	c.active.depth += DepthStep
}

// SetTexture binds id for the vertices that follow.
func (c *Context) SetTexture(id TextureID) {
	b := c.active
	if id == NoTexture {
		c.checkLimit(b, 0)
		return
	}
	if b.open().Texture == id {
		return
	}
	if b.open().VertexCount > 0 {
		c.split(b)
	}
	b.open().Texture = id
}

// split closes the open draw call and opens a fresh one with the same mode
// and texture. The closed run is padded per its mode's alignment rule.
func (c *Context) split(b *Batch) {
	dc := b.open()
	mode, tex := dc.Mode, dc.Texture
	if len(b.draws) >= b.maxDraws {
		c.flush(b)
		dc = b.open()
		dc.Mode, dc.Texture = mode, tex
		c.stats.ForcedFlushes++
		return
	}
	pad := mode.Alignment(dc.VertexCount)
	if c.checkLimit(b, pad) {
		return
	}
	dc.VertexAlignment = pad
	b.skip(pad)
	c.stats.PaddingCount += pad
	b.draws = append(b.draws, DrawCall{Mode: mode, Texture: tex})
}

// CheckLimit reports whether n more vertices would overflow the active
// region. On overflow the batch is flushed and the open mode and texture
// carry over, so the caller can keep submitting the same primitive stream.
func (c *Context) CheckLimit(n int) bool { return c.checkLimit(c.active, n) }

func (c *Context) checkLimit(b *Batch, n int) bool {
	if b.cursor+n < b.capacity {
		return false
	}
	dc := b.open()
	mode, tex := dc.Mode, dc.Texture
	c.flush(b)
	dc = b.open()
	dc.Mode, dc.Texture = mode, tex
	c.stats.ForcedFlushes++
	return true
}

// TexCoord sets the texture coordinate of the next vertex.
func (c *Context) TexCoord(u, v float32) { c.texcoord = [2]float32{u, v} }

// Normal is accepted for API parity; the vertex format carries no normal.
func (c *Context) Normal(x, y, z float32) { c.normal = [3]float32{x, y, z} }

func (c *Context) Color4ub(r, g, b, a uint8) { c.color = colors.Color{r, g, b, a} }

// Color4f sets the color from normalized components.
func (c *Context) Color4f(r, g, b, a float32) { c.color = colors.FromFloat(r, g, b, a) }

func (c *Context) Color3f(r, g, b float32) { c.color = colors.FromFloat(r, g, b, 1) }

func (c *Context) SetColor(col colors.Color) { c.color = col }

// Vertex2 submits a 2D vertex at the batch's current depth.
func (c *Context) Vertex2(x, y float32) { c.Vertex3(x, y, c.active.depth) }

func (c *Context) Vertex2i(x, y int32) { c.Vertex2(float32(x), float32(y)) }

// Vertex3 submits one vertex with the pending texcoord and color. A new
// primitive group never starts unless it fits in the current region.
func (c *Context) Vertex3(x, y, z float32) {
	if c.matrices != nil {
		if m, ok := c.matrices.Transform(); ok {
			x, y, z = m.TransformPoint(x, y, z)
		}
	}

	b := c.active
	if b.cursor > b.capacity-safetyMargin {
		dc := b.open()
		if g := dc.Mode.GroupSize(); dc.VertexCount%g == 0 {
			c.checkLimit(b, g+1)
		}
	}
	b.write(Vertex{
		Position: [3]float32{x, y, z},
		TexCoord: c.texcoord,
		Color:    c.color,
		Depth:    b.depth,
	})
}

// Flush submits the active batch.
func (c *Context) Flush() { c.flush(c.active) }

func (c *Context) flush(b *Batch) {
	if b.cursor > 0 {
		region := b.region()
		c.backend.UploadBuffer(region, b.regions[b.current][:b.cursor])

		mvp := matrix.Identity()
		if c.matrices != nil {
			mvp = matrix.Mul(c.matrices.Projection(), c.matrices.Modelview())
		}

		offset, issued := 0, 0
		for _, dc := range b.draws {
			if dc.VertexCount > 0 {
				c.backend.BindTexture(dc.Texture)
				c.backend.IssueDraw(DrawCmd{
					Region:  region,
					Mode:    dc.Mode,
					Offset:  offset,
					Count:   dc.VertexCount,
					Texture: dc.Texture,
					MVP:     mvp,
				})
				issued++
			}
			offset += dc.VertexCount + dc.VertexAlignment
		}
		c.stats.DrawCalls += issued
		c.stats.VertexCount += b.cursor
		c.log.Debug("flush", "id", b.id, "region", region.Index, "vertices", b.cursor, "draws", issued)
	}
	b.reset()
	b.rotate()
	c.stats.Flushes++
}

// Stats returns counters accumulated since the last ResetStats.
func (c *Context) Stats() Statistics { return c.stats }

func (c *Context) ResetStats() { c.stats = Statistics{} }
