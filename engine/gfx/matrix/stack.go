package matrix

import (
	"math"

	"github.com/charmbracelet/log"
)

// MaxStackDepth bounds Push.
const MaxStackDepth = 32

// Mode selects which matrix the stack operations edit.
type Mode uint8

const (
	Modelview Mode = iota
	Projection
)

// Stack tracks the modelview and projection matrices plus the per-vertex
// transform that is active while a modelview push is outstanding.
//
// Not safe for concurrent use; it belongs to the render thread.
type Stack struct {
	modelview  Mat4
	projection Mat4
	transform  Mat4
	mode       Mode
	current    *Mat4

	saved          [MaxStackDepth]Mat4
	depth          int
	transformOn    bool
	overflowLogged bool

	log *log.Logger
}

// NewStack returns a stack with identity matrices in modelview mode. A nil
// logger falls back to the package default.
func NewStack(logger *log.Logger) *Stack {
	if logger == nil {
		logger = log.Default().WithPrefix("matrix")
	}
	s := &Stack{
		modelview:  Identity(),
		projection: Identity(),
		transform:  Identity(),
		log:        logger,
	}
	s.current = &s.modelview
	return s
}

func (s *Stack) Mode() Mode { return s.mode }

// SetMode selects the matrix edited by the next operations.
func (s *Stack) SetMode(m Mode) {
	s.mode = m
	switch {
	case m == Projection:
		s.current = &s.projection
	case s.transformOn:
		s.current = &s.transform
	default:
		s.current = &s.modelview
	}
}

// Push saves the current matrix. In modelview mode it also activates the
// per-vertex transform, which every following vertex goes through until the
// matching Pop.
func (s *Stack) Push() {
	if s.depth >= MaxStackDepth {
		if !s.overflowLogged {
			s.log.Error("matrix stack overflow, push ignored", "max", MaxStackDepth)
			s.overflowLogged = true
		}
		return
	}
	if s.mode == Modelview && !s.transformOn {
		s.transformOn = true
		s.current = &s.transform
	}
	s.saved[s.depth] = *s.current
	s.depth++
}

// Pop restores the last saved matrix. Popping an empty stack does nothing.
func (s *Stack) Pop() {
	if s.depth == 0 {
		return
	}
	s.depth--
	*s.current = s.saved[s.depth]
	if s.depth == 0 && s.mode == Modelview {
		s.transformOn = false
		s.current = &s.modelview
	}
}

func (s *Stack) Depth() int { return s.depth }

func (s *Stack) LoadIdentity() { *s.current = Identity() }

// Mult post-multiplies the current matrix by m.
func (s *Stack) Mult(m Mat4) { *s.current = Mul(*s.current, m) }

func (s *Stack) Translate(x, y, z float32) { s.Mult(Translate(x, y, z)) }

func (s *Stack) Scale(x, y, z float32) { s.Mult(Scale(x, y, z)) }

// Rotate rotates by deg degrees around the axis (x, y, z).
func (s *Stack) Rotate(deg, x, y, z float32) {
	s.Mult(Rotate(deg*math.Pi/180, x, y, z))
}

func (s *Stack) Ortho(l, r, b, t, n, f float32) { s.Mult(Ortho(l, r, b, t, n, f)) }

func (s *Stack) SetProjection(m Mat4) { s.projection = m }

func (s *Stack) SetModelview(m Mat4) { s.modelview = m }

func (s *Stack) Modelview() Mat4 { return s.modelview }

func (s *Stack) Projection() Mat4 { return s.projection }

// Transform reports the per-vertex transform and whether it is active.
func (s *Stack) Transform() (Mat4, bool) { return s.transform, s.transformOn }
