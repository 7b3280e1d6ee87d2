// Package headless provides a window and a renderer that need no display or
// GPU. The renderer records every submission so tests and tools can inspect
// exactly what the batcher sent.
package headless

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/batch"
)

// Upload is one recorded UploadBuffer call.
type Upload struct {
	Region   batch.Region
	Vertices []batch.Vertex
}

// Draw is one recorded IssueDraw call with the vertices it covered.
type Draw struct {
	batch.DrawCmd
	Bound    batch.TextureID // texture bound when the draw was issued
	Upload   int             // index into Uploads
	Vertices []batch.Vertex
}

type regionKey struct {
	batch uuid.UUID
	index int
}

// Recorder implements core.Renderer (and so batch.Backend) by keeping copies
// of everything it is given.
type Recorder struct {
	Uploads  []Upload
	Draws    []Draw
	Binds    []batch.TextureID
	Released []uuid.UUID
	Clears   []colors.Color

	Width, Height int

	bound    batch.TextureID
	latest   map[regionKey]int
	textures map[batch.TextureID]core.TextureDesc
	nextTex  batch.TextureID
	white    batch.TextureID
	closed   bool
}

func NewRecorder() *Recorder {
	r := &Recorder{
		latest:   map[regionKey]int{},
		textures: map[batch.TextureID]core.TextureDesc{},
		nextTex:  1,
	}
	r.white, _ = r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format: core.TextureRGBA8,
		Pixels: []byte{255, 255, 255, 255},
	})
	return r
}

// NewRenderer matches the constructor signature core.Run expects.
func NewRenderer(core.Window, core.Config) (core.Renderer, error) {
	return NewRecorder(), nil
}

func (r *Recorder) UploadBuffer(region batch.Region, vertices []batch.Vertex) {
	cp := make([]batch.Vertex, len(vertices))
	copy(cp, vertices)
	r.latest[regionKey{region.Batch, region.Index}] = len(r.Uploads)
	r.Uploads = append(r.Uploads, Upload{Region: region, Vertices: cp})
}

func (r *Recorder) BindTexture(id batch.TextureID) {
	r.bound = id
	r.Binds = append(r.Binds, id)
}

// IssueDraw records cmd. A draw that reads outside the last upload of its
// region panics: the batcher must never produce one.
func (r *Recorder) IssueDraw(cmd batch.DrawCmd) {
	idx, ok := r.latest[regionKey{cmd.Region.Batch, cmd.Region.Index}]
	if !ok {
		panic(fmt.Sprintf("headless: draw from region %d of batch %s before any upload", cmd.Region.Index, cmd.Region.Batch))
	}
	verts := r.Uploads[idx].Vertices
	if cmd.Offset < 0 || cmd.Offset+cmd.Count > len(verts) {
		panic(fmt.Sprintf("headless: draw [%d,%d) outside upload of %d vertices", cmd.Offset, cmd.Offset+cmd.Count, len(verts)))
	}
	r.Draws = append(r.Draws, Draw{
		DrawCmd:  cmd,
		Bound:    r.bound,
		Upload:   idx,
		Vertices: verts[cmd.Offset : cmd.Offset+cmd.Count],
	})
}

func (r *Recorder) Release(id uuid.UUID) { r.Released = append(r.Released, id) }

func (r *Recorder) Resize(w, h int) { r.Width, r.Height = w, h }

func (r *Recorder) Clear(c colors.Color) { r.Clears = append(r.Clears, c) }

func (r *Recorder) CreateTexture(desc core.TextureDesc) (batch.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return batch.NoTexture, fmt.Errorf("headless: texture size %dx%d", desc.Width, desc.Height)
	}
	if len(desc.Pixels) != desc.Width*desc.Height*4 {
		return batch.NoTexture, fmt.Errorf("headless: %d bytes for %dx%d RGBA8", len(desc.Pixels), desc.Width, desc.Height)
	}
	id := r.nextTex
	r.nextTex++
	r.textures[id] = desc
	return id, nil
}

func (r *Recorder) DestroyTexture(id batch.TextureID) { delete(r.textures, id) }

// Texture reports the description a live texture was created with.
func (r *Recorder) Texture(id batch.TextureID) (core.TextureDesc, bool) {
	d, ok := r.textures[id]
	return d, ok
}

func (r *Recorder) WhiteTexture() batch.TextureID { return r.white }

func (r *Recorder) Shutdown() { r.closed = true }

func (r *Recorder) Closed() bool { return r.closed }

// Submitted concatenates the vertices of every recorded draw, in order.
func (r *Recorder) Submitted() []batch.Vertex {
	var out []batch.Vertex
	for _, d := range r.Draws {
		out = append(out, d.Vertices...)
	}
	return out
}

// Reset drops the recorded calls but keeps textures.
func (r *Recorder) Reset() {
	r.Uploads = nil
	r.Draws = nil
	r.Binds = nil
	r.Released = nil
	r.Clears = nil
	clear(r.latest)
}
