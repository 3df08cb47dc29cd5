// Package render turns matrices into grayscale images for inspection.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/bits"

	"github.com/chazu/pcgrid/pkg/matrix"
)

// MidGray is the shade of every pixel when a matrix has min == max.
const MidGray = 128

// Shade maps v linearly from [min, max] onto [0, 255]. Values outside the
// range saturate.
func Shade(v, min, max int) uint8 {
	switch {
	case min == max:
		return MidGray
	case v <= min:
		return 0
	case v >= max:
		return 255
	}
	// Unsigned offsets are exact for any min < max; the 128-bit product
	// keeps off*255 from wrapping on very wide ranges.
	span := uint64(max) - uint64(min)
	off := uint64(v) - uint64(min)
	hi, lo := bits.Mul64(off, 255)
	q, _ := bits.Div64(hi, lo, span)
	return uint8(q)
}

// Gray renders m as a size×size grayscale image, cell (x, y) at pixel (x, y).
func Gray(m *matrix.Matrix) *image.Gray {
	n := m.Size()
	img := image.NewGray(image.Rect(0, 0, n, n))
	for i, v := range m.Values() {
		img.SetGray(i%n, i/n, color.Gray{Y: Shade(v, m.Min(), m.Max())})
	}
	return img
}

// WritePNG encodes the grayscale rendering of m to w.
func WritePNG(w io.Writer, m *matrix.Matrix) error {
	if err := png.Encode(w, Gray(m)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNG returns the encoded grayscale rendering of m.
func PNG(m *matrix.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
