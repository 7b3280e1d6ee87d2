package colors

// Color is an 8-bit RGBA color, the format stored in every batched vertex.
type Color [4]uint8

var (
	White     = Color{255, 255, 255, 255}
	Red       = Color{230, 41, 55, 255}
	Green     = Color{0, 228, 48, 255}
	Blue      = Color{0, 121, 241, 255}
	Black     = Color{0, 0, 0, 255}
	Magenta   = Color{255, 0, 255, 255}
	Cyan      = Color{0, 255, 255, 255}
	Yellow    = Color{253, 249, 0, 255}
	Gray      = Color{130, 130, 130, 255}
	DarkGray  = Color{20, 26, 31, 255}
	Blank     = Color{0, 0, 0, 0}
	RayWhite  = Color{245, 245, 245, 255}
	LightGray = Color{200, 200, 200, 255}
)

// FromFloat builds a color from normalized [0..1] components. Values out of
// range are clamped.
func FromFloat(r, g, b, a float32) Color {
	return Color{unit(r), unit(g), unit(b), unit(a)}
}

func unit(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Normalized returns the components scaled to [0..1].
func (c Color) Normalized() [4]float32 {
	return [4]float32{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}
}

func (c Color) WithAlpha(a uint8) Color {
	c[3] = a
	return c
}

// Fade scales the alpha channel by f.
func (c Color) Fade(f float32) Color {
	return c.WithAlpha(unit(float32(c[3]) / 255 * f))
}
