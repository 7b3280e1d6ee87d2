package scene

import "github.com/hubastard/grove/engine/gfx/matrix"

// OrthoCamera2D provides an orthographic camera with position, rotation, zoom.
type OrthoCamera2D struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
	X, Y                     float32
	RotationRad              float32
	Zoom                     float32 // 1 = no zoom
	ScreenSpace              bool    // origin top-left, +Y down
	vp                       matrix.Mat4
	dirty                    bool
}

// NewOrtho2D centers the view on the origin with +Y up.
func NewOrtho2D(width, height int) *OrthoCamera2D {
	c := &OrthoCamera2D{Near: -1, Far: 1, Zoom: 1}
	c.SetViewportPixels(width, height)
	c.Recalculate()
	return c
}

// NewScreen2D maps one unit to one pixel with the origin in the top-left
// corner, the layout the sandbox and most 2D UI code expect.
func NewScreen2D(width, height int) *OrthoCamera2D {
	c := &OrthoCamera2D{Near: -1, Far: 1, Zoom: 1, ScreenSpace: true}
	c.SetViewportPixels(width, height)
	c.Recalculate()
	return c
}

func (c *OrthoCamera2D) SetViewportPixels(w, h int) {
	if c.ScreenSpace {
		c.Left, c.Right = 0, float32(w)
		c.Top, c.Bottom = 0, float32(h)
	} else {
		halfW := float32(w) * 0.5
		halfH := float32(h) * 0.5
		c.Left, c.Right = -halfW, halfW
		c.Bottom, c.Top = -halfH, halfH
	}
	c.dirty = true
}

func (c *OrthoCamera2D) Move(dx, dy float32) { c.X += dx; c.Y += dy; c.dirty = true }
func (c *OrthoCamera2D) Rotate(dRad float32) { c.RotationRad += dRad; c.dirty = true }
func (c *OrthoCamera2D) SetPosition(x, y float32) {
	c.X, c.Y = x, y
	c.dirty = true
}
func (c *OrthoCamera2D) SetZoom(z float32) {
	if z < 0.05 {
		z = 0.05
	}
	c.Zoom = z
	c.dirty = true
}

func (c *OrthoCamera2D) VP() matrix.Mat4 {
	if c.dirty {
		c.Recalculate()
	}
	return c.vp
}

func (c *OrthoCamera2D) Recalculate() {
	// Ortho scaled by Zoom about the view center.
	z := c.Zoom
	cx, cy := (c.Left+c.Right)*0.5, (c.Bottom+c.Top)*0.5
	proj := matrix.Ortho(
		cx+(c.Left-cx)/z, cx+(c.Right-cx)/z,
		cy+(c.Bottom-cy)/z, cy+(c.Top-cy)/z,
		c.Near, c.Far,
	)

	// view = R(-rot) * T(-pos)
	view := matrix.Mul(
		matrix.RotateZ(-c.RotationRad),
		matrix.Translate(-c.X, -c.Y, 0),
	)

	c.vp = matrix.Mul(proj, view)
	c.dirty = false
}
