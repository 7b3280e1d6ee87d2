package headless

import "github.com/hubastard/grove/engine/core"

// Window is a core.Window that closes itself after a fixed number of frames.
// Events queued with Emit are delivered on the next PollEvents.
type Window struct {
	width, height int
	title         string
	frames        int
	presented     int
	closing       bool
	pending       []core.Event
	onEv          func(core.Event)
}

// NewWindow returns a window sized from cfg that closes after frames
// presented frames. frames <= 0 means it stays open until RequestClose.
func NewWindow(cfg core.Config, frames int) *Window {
	return &Window{width: cfg.Width, height: cfg.Height, title: cfg.Title, frames: frames}
}

func (w *Window) Emit(ev core.Event) { w.pending = append(w.pending, ev) }

func (w *Window) PollEvents() {
	evs := w.pending
	w.pending = nil
	for _, ev := range evs {
		if r, ok := ev.(core.EventResize); ok {
			w.width, w.height = r.W, r.H
		}
		if w.onEv != nil {
			w.onEv(ev)
		}
	}
}

func (w *Window) SwapBuffers() { w.presented++ }

func (w *Window) ShouldClose() bool {
	return w.closing || (w.frames > 0 && w.presented >= w.frames)
}

func (w *Window) RequestClose()                        { w.closing = true }
func (w *Window) FramebufferSize() (int, int)          { return w.width, w.height }
func (w *Window) SetTitle(t string)                    { w.title = t }
func (w *Window) Title() string                        { return w.title }
func (w *Window) Presented() int                       { return w.presented }
func (w *Window) SetEventCallback(cb func(core.Event)) { w.onEv = cb }
