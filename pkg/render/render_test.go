package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/chazu/pcgrid/pkg/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShade(t *testing.T) {
	tests := []struct {
		v, min, max int
		want        uint8
	}{
		{0, 0, 255, 0},
		{255, 0, 255, 255},
		{0, 0, 9, 0},
		{9, 0, 9, 255},
		{5, 0, 10, 127},
		{-5, -5, 5, 0},
		{5, -5, 5, 255},
		{7, 7, 7, MidGray},
		{math.MaxInt32, math.MinInt32, math.MaxInt32, 255},
		{0, 0, math.MaxInt, 0},
		{math.MaxInt, 0, math.MaxInt, 255},
		{math.MaxInt / 2, 0, math.MaxInt, 127},
		{math.MinInt, math.MinInt, math.MaxInt, 0},
		{math.MaxInt, math.MinInt, math.MaxInt, 255},
		{0, -6_000_000_000_000_000_000, 6_000_000_000_000_000_000, 127},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Shade(tt.v, tt.min, tt.max), "Shade(%d, %d, %d)", tt.v, tt.min, tt.max)
	}
}

func TestGrayLayout(t *testing.T) {
	m, err := matrix.FromValues(2, 0, 3, []int{0, 1, 2, 3})
	require.NoError(t, err)

	img := Gray(m)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, uint8(0), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(85), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(170), img.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 1).Y)
}

func TestGrayDegenerateRange(t *testing.T) {
	m, err := matrix.FromValues(2, 4, 4, []int{4, 4, 4, 4})
	require.NoError(t, err)
	for _, p := range Gray(m).Pix {
		assert.Equal(t, uint8(MidGray), p)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	m, err := matrix.FromValues(3, 0, 8, []int{0, 1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	data, err := PNG(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	r, _, _, _ := img.At(2, 2).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}
