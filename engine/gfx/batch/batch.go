package batch

import (
	"github.com/google/uuid"
)

const (
	// DepthStart is the depth of the first primitive of every cycle.
	DepthStart float32 = -1
	// DepthStep is added on every End so later 2D primitives sort on top.
	DepthStep float32 = 1.0 / 20000.0

	// safetyMargin is the number of trailing slots in which Vertex checks
	// for room before starting a new primitive group.
	safetyMargin = 4
	minCapacity  = 4
)

// Config sizes a batch.
type Config struct {
	Buffers   int `toml:"buffers"`
	Vertices  int `toml:"vertices"`
	DrawCalls int `toml:"draw_calls"`
}

// DefaultConfig matches a typical desktop setup: double-buffered regions of
// 8192 quads and 256 draw calls per flush.
func DefaultConfig() Config {
	return Config{Buffers: 2, Vertices: 8192 * 4, DrawCalls: 256}
}

// Batch owns the vertex regions and the draw-call table of one
// accumulation stream. Create it through Context.NewBatch.
type Batch struct {
	id       uuid.UUID
	regions  [][]Vertex
	current  int
	capacity int

	draws    []DrawCall
	maxDraws int

	cursor  int
	depth   float32
	flushes int

	defaultTex TextureID
	destroyed  bool
}

func newBatch(cfg Config, defaultTex TextureID) *Batch {
	b := &Batch{
		id:         uuid.New(),
		regions:    make([][]Vertex, cfg.Buffers),
		capacity:   cfg.Vertices,
		draws:      make([]DrawCall, 1, cfg.DrawCalls),
		maxDraws:   cfg.DrawCalls,
		defaultTex: defaultTex,
	}
	for i := range b.regions {
		b.regions[i] = make([]Vertex, cfg.Vertices)
	}
	b.reset()
	return b
}

func (b *Batch) ID() uuid.UUID { return b.id }

// Capacity is the number of vertex slots in one region.
func (b *Batch) Capacity() int { return b.capacity }

// Buffers is the number of rotating regions.
func (b *Batch) Buffers() int { return len(b.regions) }

// Region is the index of the region receiving writes.
func (b *Batch) Region() int { return b.current }

// Cursor is the number of slots written in the current region, filler
// included.
func (b *Batch) Cursor() int { return b.cursor }

func (b *Batch) Depth() float32 { return b.depth }

// Flushes counts completed flushes, empty ones included.
func (b *Batch) Flushes() int { return b.flushes }

// Draws returns a copy of the draw-call table; the last entry is open.
func (b *Batch) Draws() []DrawCall {
	out := make([]DrawCall, len(b.draws))
	copy(out, b.draws)
	return out
}

func (b *Batch) open() *DrawCall { return &b.draws[len(b.draws)-1] }

func (b *Batch) region() Region {
	return Region{Batch: b.id, Index: b.current, Capacity: b.capacity}
}

func (b *Batch) write(v Vertex) {
	b.regions[b.current][b.cursor] = v
	b.cursor++
	b.open().VertexCount++
}

// skip advances the cursor over n filler slots, zeroing them.
func (b *Batch) skip(n int) {
	clear(b.regions[b.current][b.cursor : b.cursor+n])
	b.cursor += n
}

func (b *Batch) reset() {
	b.cursor = 0
	b.depth = DepthStart
	b.draws = b.draws[:1]
	b.draws[0] = DrawCall{Mode: Quads, Texture: b.defaultTex}
}

func (b *Batch) rotate() {
	b.flushes++
	b.current = b.flushes % len(b.regions)
}
