package batch

// Statistics captures the counts generated by a context since the last reset.
type Statistics struct {
	DrawCalls     int
	Flushes       int
	ForcedFlushes int
	VertexCount   int // slots uploaded, filler included
	PaddingCount  int
}

// AverageDrawSize reports uploaded slots per draw call.
func (s Statistics) AverageDrawSize() float64 {
	if s.DrawCalls == 0 {
		return 0
	}
	return float64(s.VertexCount) / float64(s.DrawCalls)
}
