package batch

import (
	"github.com/google/uuid"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/gfx/matrix"
)

// TextureID names a backend texture. NoTexture is the "unbind" signal for
// SetTexture; it is never recorded on a draw call.
type TextureID uint32

const NoTexture TextureID = 0

// Vertex is one batched vertex. Every field is 4-byte aligned so a []Vertex
// can be handed to the GPU as-is (28-byte stride).
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Color    colors.Color
	Depth    float32
}

// Vertex layout offsets in bytes, for backends binding attributes.
const (
	VertexStride         = 28
	VertexOffsetPosition = 0
	VertexOffsetTexCoord = 12
	VertexOffsetColor    = 20
)

// DrawCall is one contiguous run of vertices sharing mode and texture.
// VertexAlignment counts the filler slots written after the run.
type DrawCall struct {
	Mode            Mode
	VertexCount     int
	VertexAlignment int
	Texture         TextureID
}

// Region identifies one vertex storage area of a batch.
type Region struct {
	Batch    uuid.UUID
	Index    int
	Capacity int
}

// DrawCmd is a single draw submission: Count vertices of region starting at
// Offset, with Texture bound and MVP as the combined matrix.
type DrawCmd struct {
	Region  Region
	Mode    Mode
	Offset  int
	Count   int
	Texture TextureID
	MVP     matrix.Mat4
}

// Backend is the graphics capability set the accumulator submits to. Calls
// happen on the render thread, in order: one UploadBuffer per flush followed
// by BindTexture/IssueDraw pairs.
type Backend interface {
	UploadBuffer(region Region, vertices []Vertex)
	BindTexture(id TextureID)
	IssueDraw(cmd DrawCmd)
}

// Releaser is implemented by backends holding per-batch resources.
type Releaser interface {
	Release(batch uuid.UUID)
}

// MatrixSource supplies the per-vertex transform and the matrices combined
// at flush time. *matrix.Stack implements it.
type MatrixSource interface {
	Transform() (matrix.Mat4, bool)
	Modelview() matrix.Mat4
	Projection() matrix.Mat4
}

// QuadIndices returns the triangle-list indices drawing quads quads whose
// vertices are laid out top-left, bottom-left, bottom-right, top-right.
func QuadIndices(quads int) []uint32 {
	out := make([]uint32, 0, quads*6)
	for i := 0; i < quads; i++ {
		k := uint32(4 * i)
		out = append(out, k, k+1, k+2, k, k+2, k+3)
	}
	return out
}
