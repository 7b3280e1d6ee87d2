package batch_test

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/gfx/batch"
	"github.com/hubastard/grove/engine/gfx/headless"
	"github.com/hubastard/grove/engine/gfx/matrix"
)

func newContext(t *testing.T, cfg batch.Config, opts ...batch.Option) (*batch.Context, *headless.Recorder) {
	t.Helper()
	rec := headless.NewRecorder()
	opts = append([]batch.Option{
		batch.WithLogger(log.New(io.Discard)),
		batch.WithDefaultTexture(rec.WhiteTexture()),
	}, opts...)
	return batch.New(rec, cfg, opts...), rec
}

// submit writes n vertices whose x coordinate carries a running sequence
// number, so submission order can be checked on the backend side.
func submit(ctx *batch.Context, seq *int, n int) {
	for i := 0; i < n; i++ {
		ctx.Vertex3(float32(*seq), 0, 0)
		*seq++
	}
}

func xs(vs []batch.Vertex) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = int(v.Position[0])
	}
	return out
}

func seqRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func TestFlushBeforeOverflowingTriangles(t *testing.T) {
	const capacity = 32
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: capacity, DrawCalls: 8})

	seq := 0
	ctx.Begin(batch.Triangles)
	submit(ctx, &seq, capacity-2)
	require.Empty(t, rec.Uploads)

	submit(ctx, &seq, 1)
	require.Len(t, rec.Uploads, 1, "the fourth-from-last slot must not start a triangle")
	submit(ctx, &seq, 2)
	ctx.End()
	ctx.Flush()

	require.Len(t, rec.Draws, 2)
	require.Equal(t, seqRange(0, capacity-2), xs(rec.Draws[0].Vertices))
	require.Equal(t, seqRange(capacity-2, capacity+1), xs(rec.Draws[1].Vertices))
	require.Equal(t, batch.Triangles, rec.Draws[1].Mode, "mode survives the forced flush")
}

func TestTextureChangesSplitDrawCalls(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 2, Vertices: 64, DrawCalls: 8})
	white := rec.WhiteTexture()

	seq := 0
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 4)
	ctx.SetTexture(2)
	submit(ctx, &seq, 4)
	ctx.SetTexture(3)
	submit(ctx, &seq, 4)
	ctx.End()

	for _, dc := range ctx.Active().Draws() {
		require.Zero(t, dc.VertexAlignment)
	}
	ctx.Flush()

	require.Len(t, rec.Uploads, 1)
	require.Len(t, rec.Draws, 3)
	var counts, offsets []int
	var textures, bound []batch.TextureID
	for _, d := range rec.Draws {
		counts = append(counts, d.Count)
		offsets = append(offsets, d.Offset)
		textures = append(textures, d.Texture)
		bound = append(bound, d.Bound)
	}
	require.Equal(t, []int{4, 4, 4}, counts)
	require.Equal(t, []int{0, 4, 8}, offsets)
	require.Equal(t, []batch.TextureID{white, 2, 3}, textures)
	require.Equal(t, textures, bound, "each draw is issued with its texture bound")
}

func TestModeChangeMidPrimitivePads(t *testing.T) {
	ctx, _ := newContext(t, batch.Config{Buffers: 1, Vertices: 64, DrawCalls: 8})

	ctx.Begin(batch.Triangles)
	ctx.Vertex3(1, 0, 0)
	ctx.Vertex3(2, 0, 0)
	ctx.Begin(batch.Lines)

	b := ctx.Active()
	require.Equal(t, 3, b.Cursor())
	draws := b.Draws()
	require.Len(t, draws, 2)
	require.Equal(t, batch.DrawCall{Mode: batch.Triangles, VertexCount: 2, VertexAlignment: 1, Texture: draws[0].Texture}, draws[0])
	require.Equal(t, batch.Lines, draws[1].Mode)
	require.Zero(t, draws[1].VertexCount)
}

func TestPaddingSlotsAreZeroed(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 64, DrawCalls: 8})

	seq := 100
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 8)
	ctx.Flush()

	seq = 0
	ctx.Begin(batch.Triangles)
	submit(ctx, &seq, 2)
	ctx.Begin(batch.Lines)
	submit(ctx, &seq, 2)
	ctx.Flush()

	up := rec.Uploads[1]
	require.Len(t, up.Vertices, 5)
	require.Equal(t, batch.Vertex{}, up.Vertices[2])
	require.Equal(t, 3, rec.Draws[len(rec.Draws)-1].Offset)
}

// TestRandomStream drives a random mix of mode switches, texture switches and
// complete primitive groups through a small batch and checks the backend side.
func TestRandomStream(t *testing.T) {
	modes := []batch.Mode{batch.Lines, batch.Triangles, batch.Quads}
	textures := []batch.TextureID{batch.NoTexture, 7, 8, 9}

	for _, cfg := range []batch.Config{
		{Buffers: 1, Vertices: 4, DrawCalls: 1},
		{Buffers: 2, Vertices: 16, DrawCalls: 4},
		{Buffers: 3, Vertices: 50, DrawCalls: 3},
		{Buffers: 2, Vertices: 257, DrawCalls: 32},
	} {
		rng := rand.New(rand.NewSource(int64(cfg.Vertices)))
		ctx, rec := newContext(t, cfg)
		b := ctx.Active()

		seq := 0
		mode := batch.Quads
		for step := 0; step < 2000; step++ {
			switch r := rng.Intn(10); {
			case r == 0:
				mode = modes[rng.Intn(len(modes))]
				ctx.Begin(mode)
			case r == 1:
				ctx.SetTexture(textures[rng.Intn(len(textures))])
			case r == 2 && rng.Intn(8) == 0:
				// An explicit flush resets the draw state; drawing resumes
				// with a fresh Begin.
				ctx.Flush()
				ctx.Begin(mode)
			default:
				submit(ctx, &seq, mode.GroupSize())
				ctx.End()
			}
			require.LessOrEqual(t, b.Cursor(), b.Capacity())
		}
		ctx.Flush()

		// Order preserved across every implicit and explicit flush.
		require.Equal(t, seqRange(0, seq), xs(rec.Submitted()), "config %+v", cfg)

		for _, up := range rec.Uploads {
			require.LessOrEqual(t, len(up.Vertices), cfg.Vertices)
		}
		// No primitive crosses a draw boundary.
		for _, d := range rec.Draws {
			require.Zero(t, d.Count%d.Mode.GroupSize(), "draw %+v", d.DrawCmd)
			require.NotEqual(t, batch.NoTexture, d.Texture)
		}
	}
}

func TestEmptyFlushRotatesWithoutDrawing(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 2, Vertices: 16, DrawCalls: 4})
	b := ctx.Active()

	ctx.Begin(batch.Quads)
	ctx.End()
	ctx.End()
	require.Greater(t, b.Depth(), batch.DepthStart)

	ctx.Flush()
	require.Empty(t, rec.Uploads)
	require.Empty(t, rec.Draws)
	require.Equal(t, batch.DepthStart, b.Depth())
	require.Equal(t, 1, b.Flushes())
	require.Equal(t, 1, b.Region())
}

func TestRegionsRotateRoundRobin(t *testing.T) {
	const buffers = 3
	ctx, rec := newContext(t, batch.Config{Buffers: buffers, Vertices: 16, DrawCalls: 4})
	b := ctx.Active()

	seq := 0
	for i := 0; i < 7; i++ {
		require.Equal(t, i%buffers, b.Region())
		ctx.Begin(batch.Quads)
		submit(ctx, &seq, 4)
		ctx.End()
		ctx.Flush()
	}
	require.Len(t, rec.Uploads, 7)
	for i, up := range rec.Uploads {
		require.Equal(t, i%buffers, up.Region.Index)
		require.Equal(t, b.ID(), up.Region.Batch)
	}
}

func TestFullDrawTableForcesFlush(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 64, DrawCalls: 2})

	seq := 0
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 4)
	ctx.SetTexture(2)
	submit(ctx, &seq, 4)
	require.Empty(t, rec.Uploads)

	ctx.SetTexture(3)
	require.Len(t, rec.Uploads, 1)
	require.Len(t, rec.Draws, 2)

	submit(ctx, &seq, 4)
	ctx.Flush()
	require.Len(t, rec.Draws, 3)
	last := rec.Draws[2]
	require.Equal(t, batch.TextureID(3), last.Texture)
	require.Equal(t, batch.Quads, last.Mode)
	require.Equal(t, 0, last.Offset)
	require.Equal(t, 1, ctx.Stats().ForcedFlushes)
}

func TestCheckLimitKeepsDrawState(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 8, DrawCalls: 4})

	ctx.SetTexture(5)
	ctx.Begin(batch.Lines)
	ctx.Vertex3(0, 0, 0)
	ctx.Vertex3(1, 0, 0)

	require.False(t, ctx.CheckLimit(5))
	require.True(t, ctx.CheckLimit(6))
	require.Len(t, rec.Draws, 1)
	require.Equal(t, batch.TextureID(5), rec.Draws[0].Texture)
	require.Equal(t, []batch.DrawCall{{Mode: batch.Lines, Texture: 5}}, ctx.Active().Draws())
}

func TestUnbindFlushesOnlyWhenFull(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 8, DrawCalls: 4})

	seq := 0
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 4)
	ctx.SetTexture(batch.NoTexture)
	require.Empty(t, rec.Uploads)

	submit(ctx, &seq, 4)
	require.Equal(t, 8, ctx.Active().Cursor())
	ctx.SetTexture(batch.NoTexture)
	require.Len(t, rec.Uploads, 1)
	require.Equal(t, batch.Quads, ctx.Active().Draws()[0].Mode)
}

func TestBeginKeepsTextureOfEmptyDraw(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 64, DrawCalls: 8})

	seq := 0
	ctx.Begin(batch.Lines)
	submit(ctx, &seq, 2)
	ctx.End()

	ctx.SetTexture(4)
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 4)
	ctx.End()

	ctx.Begin(batch.Triangles)
	submit(ctx, &seq, 3)
	ctx.End()
	ctx.Flush()

	require.Len(t, rec.Draws, 3)
	require.Equal(t, batch.TextureID(4), rec.Draws[1].Texture)
	require.Equal(t, batch.Quads, rec.Draws[1].Mode)
	require.Equal(t, rec.WhiteTexture(), rec.Draws[2].Texture, "a mode change after vertices starts untextured")
}

func TestVertexAttributes(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 16, DrawCalls: 4})

	ctx.Begin(batch.Lines)
	ctx.Color4f(1, 0, 0, 1)
	ctx.TexCoord(0.25, 0.75)
	ctx.Normal(0, 0, 1)
	ctx.Vertex2(3, 4)
	ctx.End()
	ctx.Color4ub(1, 2, 3, 4)
	ctx.Vertex2i(5, 6)
	ctx.End()
	ctx.Flush()

	vs := rec.Submitted()
	require.Len(t, vs, 2)
	require.Equal(t, batch.Vertex{
		Position: [3]float32{3, 4, batch.DepthStart},
		TexCoord: [2]float32{0.25, 0.75},
		Color:    colors.Color{255, 0, 0, 255},
		Depth:    batch.DepthStart,
	}, vs[0])
	require.Equal(t, colors.Color{1, 2, 3, 4}, vs[1].Color)
	require.Equal(t, [2]float32{0.25, 0.75}, vs[1].TexCoord)
	require.InDelta(t, batch.DepthStart+batch.DepthStep, vs[1].Position[2], 1e-7)
	require.Equal(t, vs[1].Position[2], vs[1].Depth)
}

func TestTransformAndMVP(t *testing.T) {
	mats := matrix.NewStack(log.New(io.Discard))
	mats.SetProjection(matrix.Scale(2, 2, 2))
	ctx, rec := newContext(t, batch.Config{Buffers: 1, Vertices: 16, DrawCalls: 4}, batch.WithMatrices(mats))

	ctx.Begin(batch.Lines)
	mats.Push()
	mats.Translate(10, 0, 0)
	ctx.Vertex3(1, 2, 0)
	mats.Pop()
	ctx.Vertex3(1, 2, 0)
	ctx.End()
	ctx.Flush()

	vs := rec.Submitted()
	require.Equal(t, [3]float32{11, 2, 0}, vs[0].Position)
	require.Equal(t, [3]float32{1, 2, 0}, vs[1].Position)
	require.Equal(t, matrix.Scale(2, 2, 2), rec.Draws[0].MVP)
}

func TestSetActiveFlushesPrevious(t *testing.T) {
	cfg := batch.Config{Buffers: 1, Vertices: 16, DrawCalls: 4}
	ctx, rec := newContext(t, cfg)
	def := ctx.Active()
	other := ctx.NewBatch(cfg)

	seq := 0
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 4)
	ctx.SetActive(other)
	require.Len(t, rec.Uploads, 1)
	require.Equal(t, def.ID(), rec.Uploads[0].Region.Batch)
	require.Same(t, other, ctx.Active())

	ctx.Begin(batch.Triangles)
	submit(ctx, &seq, 3)
	ctx.SetActive(nil)
	require.Len(t, rec.Uploads, 2)
	require.Equal(t, other.ID(), rec.Uploads[1].Region.Batch)
	require.Same(t, def, ctx.Active())
	require.Zero(t, def.Cursor())
	require.Equal(t, seqRange(0, seq), xs(rec.Submitted()))
}

func TestDestroyBatch(t *testing.T) {
	cfg := batch.Config{Buffers: 1, Vertices: 16, DrawCalls: 4}
	ctx, rec := newContext(t, cfg)
	other := ctx.NewBatch(cfg)

	ctx.SetActive(other)
	ctx.Begin(batch.Quads)
	seq := 0
	submit(ctx, &seq, 4)
	ctx.DestroyBatch(other)

	require.Same(t, ctx.Default(), ctx.Active())
	require.Len(t, rec.Draws, 1)
	require.Equal(t, []uuid.UUID{other.ID()}, rec.Released)

	ctx.SetActive(other)
	require.Same(t, ctx.Default(), ctx.Active(), "a destroyed batch cannot become active")

	ctx.Close()
	require.Len(t, rec.Released, 2)
	require.Equal(t, ctx.Default().ID(), rec.Released[1])
}

func TestUndersizedConfigIsRaised(t *testing.T) {
	ctx, rec := newContext(t, batch.Config{Buffers: 0, Vertices: 1, DrawCalls: 0})
	b := ctx.Active()
	require.Equal(t, 1, b.Buffers())
	require.Equal(t, 4, b.Capacity())

	seq := 0
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 8)
	ctx.Flush()
	require.Len(t, rec.Draws, 2)
	require.Equal(t, seqRange(0, 8), xs(rec.Submitted()))
}

func TestStats(t *testing.T) {
	ctx, _ := newContext(t, batch.Config{Buffers: 1, Vertices: 64, DrawCalls: 8})

	seq := 0
	ctx.Begin(batch.Triangles)
	submit(ctx, &seq, 3)
	ctx.Begin(batch.Quads)
	submit(ctx, &seq, 4)
	ctx.Flush()

	s := ctx.Stats()
	require.Equal(t, 2, s.DrawCalls)
	require.Equal(t, 1, s.Flushes)
	require.Equal(t, 1, s.PaddingCount)
	require.Equal(t, 8, s.VertexCount)
	require.InDelta(t, 4.0, s.AverageDrawSize(), 1e-9)

	ctx.ResetStats()
	require.Equal(t, batch.Statistics{}, ctx.Stats())
}
