package scene

import "github.com/hubastard/grove/engine/core"

// OrthoController2D: WASD move, scroll to zoom.
type OrthoController2D struct {
	MoveSpeed float32 // world units per second
	ZoomSpeed float32 // zoom factor per scroll notch
	Camera    *OrthoCamera2D
}

func NewOrthoController2D(cam *OrthoCamera2D) *OrthoController2D {
	return &OrthoController2D{
		MoveSpeed: 200,
		ZoomSpeed: 1.2,
		Camera:    cam,
	}
}

func (cc *OrthoController2D) Update(e *core.Engine, dt float32) {
	in := e.Input
	speed := cc.MoveSpeed * dt
	up := speed
	if cc.Camera.ScreenSpace {
		up = -speed
	}

	if in.IsKeyDown(core.KeyW) {
		cc.Camera.Move(0, up)
	}
	if in.IsKeyDown(core.KeyS) {
		cc.Camera.Move(0, -up)
	}
	if in.IsKeyDown(core.KeyA) {
		cc.Camera.Move(-speed, 0)
	}
	if in.IsKeyDown(core.KeyD) {
		cc.Camera.Move(speed, 0)
	}
}

// HandleEvent zooms on scroll and reports whether it consumed ev.
func (cc *OrthoController2D) HandleEvent(ev core.Event) bool {
	s, ok := ev.(core.EventScroll)
	if !ok || s.Yoff == 0 {
		return false
	}
	if s.Yoff > 0 {
		cc.Camera.SetZoom(cc.Camera.Zoom * cc.ZoomSpeed)
	} else {
		cc.Camera.SetZoom(cc.Camera.Zoom / cc.ZoomSpeed)
	}
	return true
}
