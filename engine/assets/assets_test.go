package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/hubastard/grove/engine/colors"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoaderTexture(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 0, 255, 255})
	writePNG(t, filepath.Join(dir, "textures", "pair.png"), img)

	desc, err := Loader{Dir: dir}.Texture("pair.png")
	require.NoError(t, err)
	require.Equal(t, 2, desc.Width)
	require.Equal(t, 1, desc.Height)
	require.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, desc.Pixels)
	require.Equal(t, "nearest", desc.MinFilter)
}

func TestLoaderTextureBMP(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{10, 20, 30, 255})

	path := filepath.Join(dir, "textures", "tile.bmp")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	desc, err := Loader{Dir: dir}.Texture("tile.bmp")
	require.NoError(t, err)
	require.Equal(t, 1, desc.Width)
	require.Equal(t, 2, desc.Height)
	require.Equal(t, []byte{0, 255, 0, 255, 10, 20, 30, 255}, desc.Pixels)
}

func TestLoadPNGMissing(t *testing.T) {
	_, _, _, err := LoadPNG(filepath.Join(t.TempDir(), "nope.png"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPNGGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	_, _, _, err := LoadPNG(path)
	require.ErrorContains(t, err, "decode png")
}

func TestShaderIsTerminated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shaders"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "a.frag"), []byte("void main(){}"), 0o644))

	src, err := Loader{Dir: dir}.Shader("a.frag")
	require.NoError(t, err)
	require.Equal(t, "void main(){}\x00", src)
	require.Equal(t, "x\x00", Terminate("x\x00"))
}

func TestCheckerboard(t *testing.T) {
	px := Checkerboard(4, 2, 2, colors.White, colors.Black)
	require.Len(t, px, 4*2*4)
	at := func(x, y int) colors.Color {
		i := (y*4 + x) * 4
		return colors.Color{px[i], px[i+1], px[i+2], px[i+3]}
	}
	require.Equal(t, colors.White, at(0, 0))
	require.Equal(t, colors.White, at(1, 1))
	require.Equal(t, colors.Black, at(2, 0))
	require.Equal(t, colors.Black, at(3, 1))
}
