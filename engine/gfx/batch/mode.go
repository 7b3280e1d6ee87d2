package batch

// Mode is the primitive topology of a run of vertices.
type Mode uint8

const (
	Lines Mode = iota + 1
	Triangles
	Quads
)

func (m Mode) String() string {
	switch m {
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	}
	return "unknown"
}

// GroupSize is the number of vertices forming one primitive.
func (m Mode) GroupSize() int {
	switch m {
	case Lines:
		return 2
	case Triangles:
		return 3
	}
	return 4
}

// Alignment returns the filler slots appended after a run of vertexCount
// vertices in mode m when the run is closed, so the next run starts on a slot
// the quad index buffer can address.
func (m Mode) Alignment(vertexCount int) int {
	switch m {
	case Lines:
		if vertexCount < 4 {
			return vertexCount
		}
		return vertexCount % 4
	case Triangles:
		if vertexCount < 4 {
			return 1
		}
		return 4 - vertexCount%4
	}
	return 0
}
