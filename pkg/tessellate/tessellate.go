// Package tessellate turns a matrix into a heightfield triangle mesh.
// Cell (x, y) becomes vertex (x·CellSize, y·CellSize, z) where z maps the
// cell value linearly from the matrix range onto [0, Height].
package tessellate

import (
	"errors"
	"math"

	"github.com/chazu/pcgrid/pkg/matrix"
)

// Options controls heightfield geometry.
type Options struct {
	CellSize float64 // spacing between neighbouring vertices, default 1
	Height   float64 // z of a cell at the matrix maximum, default 1
	Name     string
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = 1
	}
	if o.Height <= 0 {
		o.Height = 1
	}
	return o
}

// Heightfield builds an N×N-vertex mesh with 2(N−1)² triangles from m.
// Triangles wind counter-clockwise seen from +z. A matrix whose min equals
// its max is flat at z = 0.
func Heightfield(m *matrix.Matrix, opts Options) (*Mesh, error) {
	if m == nil {
		return nil, errors.New("tessellate: nil matrix")
	}
	opts = opts.withDefaults()
	n := m.Size()
	values := m.Values()

	z := make([]float64, len(values))
	if span := float64(m.Max()) - float64(m.Min()); span > 0 {
		for i, v := range values {
			z[i] = (float64(v) - float64(m.Min())) / span * opts.Height
		}
	}

	mesh := &Mesh{
		Vertices: make([]float32, 0, 3*n*n),
		Normals:  make([]float32, 0, 3*n*n),
		Indices:  make([]uint32, 0, 6*(n-1)*(n-1)),
		Name:     opts.Name,
	}

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			mesh.Vertices = append(mesh.Vertices,
				float32(float64(x)*opts.CellSize),
				float32(float64(y)*opts.CellSize),
				float32(z[y*n+x]))

			nx, ny, nz := normal(z, n, x, y, opts.CellSize)
			mesh.Normals = append(mesh.Normals, float32(nx), float32(ny), float32(nz))
		}
	}

	for y := 0; y+1 < n; y++ {
		for x := 0; x+1 < n; x++ {
			i0 := uint32(y*n + x)
			i1 := i0 + 1
			i2 := i0 + uint32(n)
			i3 := i2 + 1
			mesh.Indices = append(mesh.Indices, i0, i1, i2, i1, i3, i2)
		}
	}
	return mesh, nil
}

// normal estimates the surface normal at (x, y) from neighbouring heights,
// using central differences inside the grid and one-sided ones at edges.
func normal(z []float64, n, x, y int, cell float64) (float64, float64, float64) {
	at := func(x, y int) float64 { return z[y*n+x] }

	var dzdx, dzdy float64
	if n > 1 {
		x0, x1 := max(x-1, 0), min(x+1, n-1)
		y0, y1 := max(y-1, 0), min(y+1, n-1)
		dzdx = (at(x1, y) - at(x0, y)) / (float64(x1-x0) * cell)
		dzdy = (at(x, y1) - at(x, y0)) / (float64(y1-y0) * cell)
	}

	l := math.Sqrt(dzdx*dzdx + dzdy*dzdy + 1)
	return -dzdx / l, -dzdy / l, 1 / l
}
