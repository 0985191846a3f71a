package render

import "math"

// Neighborhood holds the surface heights of the eight columns around the
// one being shaded.
type Neighborhood struct {
	N, S, W, E, NW, NE, SW, SE float64
}

// Flat returns a neighborhood where every neighbor sits at height h.
func Flat(h float64) Neighborhood {
	return Neighborhood{h, h, h, h, h, h, h, h}
}

// lightX/Y/Z is the fixed directional light, normalized at use.
const (
	lightX = -0.2
	lightY = 0.8
	lightZ = 0.5

	// normalRise is the vertical component of the surface normal before
	// normalization; it controls how strongly slopes darken.
	normalRise = 3.0

	ambient = 0.4
	diffuse = 0.6
)

// Shade computes the lighting multiplier for the sub-cell sample position
// (u,v) in [0,1]² over a column at height center. The height gradient is
// estimated twice — once from the axis-aligned neighbors interpolated at
// (u,v) and once from the diagonal neighbors interpolated in rotated
// coordinates — with the axis estimate weighted double. The result is 40%
// ambient plus 60% Lambertian diffuse against the fixed light. A flat
// neighborhood shades to ~0.898 regardless of (u,v).
func Shade(center float64, nb Neighborhood, u, v float64) float64 {
	axisX := (1-u)*(center-nb.W) + u*(nb.E-center)
	axisZ := (1-v)*(center-nb.N) + v*(nb.S-center)

	ud := (u + v) / 2
	vd := (1 - u + v) / 2
	diagA := (1-ud)*(center-nb.NW) + ud*(nb.SE-center) // along +x+z
	diagB := (1-vd)*(center-nb.NE) + vd*(nb.SW-center) // along -x+z
	diagX := (diagA - diagB) / 2
	diagZ := (diagA + diagB) / 2

	dhdx := 2*axisX + diagX
	dhdz := 2*axisZ + diagZ

	nx, ny, nz := normalize(dhdx, normalRise, dhdz)
	lx, ly, lz := normalize(lightX, lightY, lightZ)

	lambert := math.Max(0, nx*lx+ny*ly+nz*lz)
	return ambient + diffuse*lambert
}

func normalize(x, y, z float64) (float64, float64, float64) {
	length := math.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return 0, 0, 0
	}
	return x / length, y / length, z / length
}
