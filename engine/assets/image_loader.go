package assets

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// Extra formats for LoadImage.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
)

// Loader resolves asset names against Dir.
type Loader struct {
	Dir string
}

// NewLoader returns a loader rooted at cfg.Assets.Dir.
func NewLoader(cfg core.Config) Loader { return Loader{Dir: cfg.Assets.Dir} }

// Texture loads textures/<name> as an RGBA8 texture description with
// nearest filtering.
func (l Loader) Texture(name string) (core.TextureDesc, error) {
	path := filepath.Join(l.Dir, "textures", name)
	w, h, px, err := LoadImage(path)
	if err != nil {
		return core.TextureDesc{}, err
	}
	return core.TextureDesc{
		Width: w, Height: h,
		Format:    core.TextureRGBA8,
		Pixels:    px,
		MinFilter: "nearest",
		MagFilter: "nearest",
		WrapU:     "clamp",
		WrapV:     "clamp",
	}, nil
}

// Shader reads shaders/<name>.
func (l Loader) Shader(name string) (string, error) {
	return LoadShader(filepath.Join(l.Dir, "shaders", name))
}

// LoadPNG returns width, height, and tightly packed RGBA8 pixels (row-major, top-left origin).
func LoadPNG(path string) (w, h int, rgba []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	w, h, rgba, err = DecodePNG(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode png %q: %w", path, err)
	}
	return w, h, rgba, nil
}

// LoadImage is LoadPNG for any registered format (PNG, BMP, TIFF, WebP).
func LoadImage(path string) (w, h int, rgba []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	w, h, rgba = pack(img)
	core.LogDebug("loaded %s %dx%d from %s", format, w, h, path)
	return w, h, rgba, nil
}

// DecodePNG is LoadPNG for an already open stream.
func DecodePNG(r io.Reader) (w, h int, rgba []byte, err error) {
	img, err := png.Decode(r)
	if err != nil {
		return 0, 0, nil, err
	}
	w, h, rgba = pack(img)
	return w, h, rgba, nil
}

func pack(img image.Image) (w, h int, out []byte) {
	// Ensure RGBA
	rgbaImg := imageToRGBA(img)
	w, h = rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	// Repack in tight rows (stride == 4*w)
	out = make([]byte, w*h*4)
	src := rgbaImg.Pix
	srcStride := rgbaImg.Stride
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], src[y*srcStride:y*srcStride+w*4])
	}
	return w, h, out
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

// Checkerboard generates w x h RGBA8 pixels alternating a and b every cell
// pixels, starting with a in the top-left corner.
func Checkerboard(w, h, cell int, a, b colors.Color) []byte {
	if cell < 1 {
		cell = 1
	}
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			out = append(out, c[:]...)
		}
	}
	return out
}
