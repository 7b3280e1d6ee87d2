package colors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	for _, tc := range []struct {
		r, g, b, a float32
		want       Color
	}{
		{1, 1, 1, 1, White},
		{0, 0, 0, 1, Black},
		{0.5, 0, 1, 0, Color{128, 0, 255, 0}},
		{-3, 2, 0.2, 1, Color{0, 255, 51, 255}},
	} {
		require.Equal(t, tc.want, FromFloat(tc.r, tc.g, tc.b, tc.a))
	}
}

func TestNormalizedRoundTrip(t *testing.T) {
	n := Red.Normalized()
	require.Equal(t, Red, FromFloat(n[0], n[1], n[2], n[3]))
}

func TestAlpha(t *testing.T) {
	require.Equal(t, Color{255, 255, 255, 10}, White.WithAlpha(10))
	require.Equal(t, Color{255, 255, 255, 128}, White.Fade(0.5))
	require.Equal(t, uint8(255), White[3], "WithAlpha must not mutate the receiver")
}
