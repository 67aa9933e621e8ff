// Package chroma converts between RGB and the 2D chroma (Cb, Cr) plane.
package chroma

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Standard selects the luma coefficients for the RGB <-> YCbCr transform.
type Standard int

const (
	BT601 Standard = iota
	BT709
)

func (s Standard) String() string {
	switch s {
	case BT601:
		return "BT.601"
	case BT709:
		return "BT.709"
	default:
		return "Unknown"
	}
}

// ParseStandard converts a string such as "601" or "bt709" to a Standard.
func ParseStandard(name string) (Standard, error) {
	switch name {
	case "601", "bt601", "BT601", "BT.601":
		return BT601, nil
	case "709", "bt709", "BT709", "BT.709":
		return BT709, nil
	}
	return BT601, fmt.Errorf("unknown chroma standard %q", name)
}

// lumaCoeffs returns the (Kr, Kg, Kb) luma weights for the standard.
func (s Standard) lumaCoeffs() (kr, kg, kb float64) {
	switch s {
	case BT709:
		return 0.2126, 0.7152, 0.0722
	default:
		return 0.299, 0.587, 0.114
	}
}

// Extent is the half-width of the chroma domain displayed by the scope:
// both axes cover [-Extent, Extent]. RGB inputs in [0,1] project within
// [-0.5, 0.5] per axis; the margin leaves room for out-of-gamut excursions.
const Extent = 0.7

// Point is a position on the chroma plane. Cb runs horizontally,
// Cr vertically. For RGB inputs in [0,1] both axes stay within [-0.5, 0.5].
type Point struct {
	Cb float32
	Cr float32
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float32) Point {
	return Point{Cb: p.Cb * factor, Cr: p.Cr * factor}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{Cb: p.Cb - other.Cb, Cr: p.Cr - other.Cr}
}

// Converter applies the fixed forward and inverse transforms for one
// standard. The matrices are derived once at construction; a Converter is
// immutable and safe for concurrent use.
type Converter struct {
	std Standard

	// Forward 2x3 matrix, rows Cb then Cr.
	fwd [2][3]float32

	// Inverse 3x3 matrix: RGB column from (Y, Cb, Cr) column.
	inv [3][3]float32
}

// NewConverter builds a Converter for the given standard. The inverse
// matrix is obtained by inverting the full 3x3 RGB -> YCbCr matrix, so the
// two directions are consistent by construction.
func NewConverter(std Standard) *Converter {
	kr, kg, kb := std.lumaCoeffs()

	// Cb = (B - Y) / (2 (1 - Kb)), Cr = (R - Y) / (2 (1 - Kr))
	cbScale := 1.0 / (2.0 * (1.0 - kb))
	crScale := 1.0 / (2.0 * (1.0 - kr))
	fwd := [2][3]float64{
		{-kr * cbScale, -kg * cbScale, (1.0 - kb) * cbScale},
		{(1.0 - kr) * crScale, -kg * crScale, -kb * crScale},
	}

	full := mat.NewDense(3, 3, []float64{
		kr, kg, kb,
		fwd[0][0], fwd[0][1], fwd[0][2],
		fwd[1][0], fwd[1][1], fwd[1][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(full); err != nil {
		// The matrices for both supported standards are well conditioned;
		// a singular matrix here means the coefficient table is broken.
		panic(fmt.Sprintf("chroma: singular transform matrix for %s: %v", std, err))
	}

	c := &Converter{std: std}
	for i := 0; i < 3; i++ {
		if i < 2 {
			for j := 0; j < 3; j++ {
				c.fwd[i][j] = float32(fwd[i][j])
			}
		}
		for j := 0; j < 3; j++ {
			c.inv[i][j] = float32(inv.At(i, j))
		}
	}
	return c
}

// Standard reports which coefficient standard the converter uses.
func (c *Converter) Standard() Standard {
	return c.std
}

// RGBToChroma projects an RGB color onto the chroma plane, discarding luma.
// The domain is unrestricted; out-of-gamut inputs map linearly.
func (c *Converter) RGBToChroma(r, g, b float32) Point {
	return Point{
		Cb: c.fwd[0][0]*r + c.fwd[0][1]*g + c.fwd[0][2]*b,
		Cr: c.fwd[1][0]*r + c.fwd[1][1]*g + c.fwd[1][2]*b,
	}
}

// ChromaToRGB reconstructs an RGB color from a luma value and a chroma
// point, clamped to [0,1] for display.
func (c *Converter) ChromaToRGB(luma float32, p Point) (r, g, b float32) {
	r = c.inv[0][0]*luma + c.inv[0][1]*p.Cb + c.inv[0][2]*p.Cr
	g = c.inv[1][0]*luma + c.inv[1][1]*p.Cb + c.inv[1][2]*p.Cr
	b = c.inv[2][0]*luma + c.inv[2][1]*p.Cb + c.inv[2][2]*p.Cr
	return clamp01(r), clamp01(g), clamp01(b)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
