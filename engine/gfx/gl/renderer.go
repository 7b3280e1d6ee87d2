package glbackend

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/google/uuid"

	"github.com/hubastard/grove/engine/assets"
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
	"github.com/hubastard/grove/engine/gfx/batch"
)

//go:embed shaders/batch.vert
var vertexSource string

//go:embed shaders/batch.frag
var fragmentSource string

type regionKey struct {
	batch uuid.UUID
	index int
}

// region is the GPU side of one batch buffer region.
type region struct {
	vao      uint32
	vbo      uint32
	capacity int
}

// RendererGL draws batches with an OpenGL 3.3 core context. It must be
// created and used on the thread owning that context.
type RendererGL struct {
	win     core.Window
	log     *log.Logger
	program uint32
	uMVP    int32
	uTex    int32

	regions map[regionKey]*region
	ebo     uint32
	eboQuad int // quads covered by ebo

	white uint32
	bound batch.TextureID
}

var _ core.Renderer = (*RendererGL)(nil)
var _ batch.Releaser = (*RendererGL)(nil)

func NewRendererGL(win core.Window, cfg core.Config) (*RendererGL, error) {
	r := &RendererGL{
		win:     win,
		log:     core.Component("gl"),
		regions: map[regionKey]*region{},
	}
	if err := r.Init(cfg); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

// NewRenderer matches the constructor signature core.Run expects.
func NewRenderer(win core.Window, cfg core.Config) (core.Renderer, error) {
	return NewRendererGL(win, cfg)
}

func (r *RendererGL) Init(cfg core.Config) error {
	vsrc, fsrc, err := shaderSources(assets.NewLoader(cfg))
	if err != nil {
		return err
	}
	r.program, err = makeProgram(vsrc, fsrc)
	if err != nil {
		return err
	}
	r.uMVP = gl.GetUniformLocation(r.program, gl.Str("uMVP\x00"))
	r.uTex = gl.GetUniformLocation(r.program, gl.Str("uTex\x00"))
	gl.UseProgram(r.program)
	gl.Uniform1i(r.uTex, 0)

	gl.GenBuffers(1, &r.ebo)
	r.ensureIndices(cfg.Batch.Vertices / 4)

	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format: core.TextureRGBA8,
		Pixels: []byte{255, 255, 255, 255},
	})
	if err != nil {
		return err
	}
	r.white = uint32(white)

	// 2D batches order by submission and depth offset; blending on, depth test off.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return nil
}

// shaderSources prefers shaders/batch.{vert,frag} from the asset directory
// and falls back to the embedded pair.
func shaderSources(l assets.Loader) (string, string, error) {
	vs, err := l.Shader("batch.vert")
	if errors.Is(err, fs.ErrNotExist) {
		return assets.Terminate(vertexSource), assets.Terminate(fragmentSource), nil
	}
	if err != nil {
		return "", "", err
	}
	frag, err := l.Shader("batch.frag")
	if err != nil {
		return "", "", err
	}
	return vs, frag, nil
}

func (r *RendererGL) Shutdown() {
	for key := range r.regions {
		r.releaseRegion(key)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
		r.white = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

func (r *RendererGL) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(c colors.Color) {
	n := c.Normalized()
	gl.ClearColor(n[0], n[1], n[2], n[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// --- batch.Backend ---

func (r *RendererGL) UploadBuffer(reg batch.Region, vertices []batch.Vertex) {
	rg := r.region(reg)
	if len(vertices) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, rg.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*batch.VertexStride, unsafe.Pointer(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *RendererGL) BindTexture(id batch.TextureID) {
	if id == batch.NoTexture {
		id = batch.TextureID(r.white)
	}
	if id == r.bound {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	r.bound = id
}

func (r *RendererGL) IssueDraw(cmd batch.DrawCmd) {
	rg, ok := r.regions[regionKey{cmd.Region.Batch, cmd.Region.Index}]
	if !ok {
		r.log.Error("draw from a region that was never uploaded", "batch", cmd.Region.Batch, "region", cmd.Region.Index)
		return
	}
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uMVP, 1, false, &cmd.MVP[0])
	gl.BindVertexArray(rg.vao)
	switch cmd.Mode {
	case batch.Lines:
		gl.DrawArrays(gl.LINES, int32(cmd.Offset), int32(cmd.Count))
	case batch.Triangles:
		gl.DrawArrays(gl.TRIANGLES, int32(cmd.Offset), int32(cmd.Count))
	case batch.Quads:
		gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(cmd.Count/4*6), gl.UNSIGNED_INT, gl.PtrOffset(0), int32(cmd.Offset))
	}
	gl.BindVertexArray(0)
}

// Release frees the buffers of every region of the destroyed batch.
func (r *RendererGL) Release(id uuid.UUID) {
	for key := range r.regions {
		if key.batch == id {
			r.releaseRegion(key)
		}
	}
}

// region returns the VAO/VBO pair backing reg, allocating it on first use.
func (r *RendererGL) region(reg batch.Region) *region {
	key := regionKey{reg.Batch, reg.Index}
	if rg, ok := r.regions[key]; ok && rg.capacity >= reg.Capacity {
		return rg
	} else if ok {
		r.releaseRegion(key)
	}

	r.ensureIndices(reg.Capacity / 4)

	rg := &region{capacity: reg.Capacity}
	gl.GenVertexArrays(1, &rg.vao)
	gl.BindVertexArray(rg.vao)

	gl.GenBuffers(1, &rg.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, rg.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, reg.Capacity*batch.VertexStride, nil, gl.DYNAMIC_DRAW)

	// layout(location = 0) in vec3 aPos;
	// layout(location = 1) in vec2 aUV;
	// layout(location = 2) in vec4 aColor; (normalized bytes)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, batch.VertexStride, batch.VertexOffsetPosition)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, batch.VertexStride, batch.VertexOffsetTexCoord)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, batch.VertexStride, batch.VertexOffsetColor)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.regions[key] = rg
	r.log.Debug("region allocated", "batch", reg.Batch, "region", reg.Index, "vertices", reg.Capacity)
	return rg
}

func (r *RendererGL) releaseRegion(key regionKey) {
	rg := r.regions[key]
	gl.DeleteBuffers(1, &rg.vbo)
	gl.DeleteVertexArrays(1, &rg.vao)
	delete(r.regions, key)
}

// ensureIndices grows the shared quad index buffer in place. VAOs keep
// referring to the same buffer name so they need no rebinding.
func (r *RendererGL) ensureIndices(quads int) {
	if quads <= r.eboQuad {
		return
	}
	idx := batch.QuadIndices(quads)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*4, gl.Ptr(idx), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	r.eboQuad = quads
}

// --- Textures ---

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (batch.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return batch.NoTexture, fmt.Errorf("gl: texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Format != core.TextureRGBA8 {
		return batch.NoTexture, fmt.Errorf("gl: unsupported texture format %d", desc.Format)
	}
	if len(desc.Pixels) != desc.Width*desc.Height*4 {
		return batch.NoTexture, fmt.Errorf("gl: %d bytes for %dx%d RGBA8", len(desc.Pixels), desc.Width, desc.Height)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(desc.WrapV))

	// The bind above replaced whatever the cache thinks is bound.
	r.bound = batch.TextureID(id)
	return batch.TextureID(id), nil
}

func (r *RendererGL) DestroyTexture(id batch.TextureID) {
	if id == batch.NoTexture || uint32(id) == r.white {
		return
	}
	t := uint32(id)
	gl.DeleteTextures(1, &t)
	if r.bound == id {
		r.bound = batch.NoTexture
	}
}

func (r *RendererGL) WhiteTexture() batch.TextureID { return batch.TextureID(r.white) }

func filter(s string) int32 {
	if s == "linear" {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func wrap(s string) int32 {
	if s == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
