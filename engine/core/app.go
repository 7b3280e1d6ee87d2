package core

import (
	"time"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/gfx/batch"
	"github.com/hubastard/grove/engine/gfx/matrix"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Batch    *batch.Context
	Matrices *matrix.Stack
	Input    *Input
	Layers   LayerStack
	Config   Config
	frames   int
	start    time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Frames counts presented frames.
func (e *Engine) Frames() int { return e.frames }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Renderer is the graphics backend: the batch submission capabilities plus
// the frame and texture plumbing around them.
type Renderer interface {
	batch.Backend
	Resize(w, h int)
	Clear(c colors.Color)
	CreateTexture(desc TextureDesc) (batch.TextureID, error)
	DestroyTexture(id batch.TextureID)
	// WhiteTexture is the 1x1 white texture untextured draws sample.
	WhiteTexture() batch.TextureID
	Shutdown()
}

type TextureFormat uint8

const (
	TextureRGBA8 TextureFormat = iota
)

// TextureDesc describes tightly packed RGBA8 pixels, top-left origin.
type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte
	MinFilter     string // "nearest" | "linear"
	MagFilter     string
	WrapU, WrapV  string // "clamp" | "repeat"
}

// Event model (can expand over time).
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyP
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// Input keeps the latest key and cursor state fed by window events.
type Input struct {
	keys           map[Key]bool
	mouseX, mouseY float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }
