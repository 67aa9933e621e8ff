// Package overlay renders the reference graticule drawn over the scope:
// the primary/secondary hue hexagon, its 75% saturation ring, and the
// skin-tone line.
package overlay

import (
	"github.com/chewxy/math32"

	"vectorscope/internal/chroma"
)

const (
	// GoldenRatio is the synthetic luma used to colorize the graticule and
	// the histogram display; true luma is discarded by the analysis.
	GoldenRatio = 0.6180340

	// ringScale is the saturation of the inner reference ring.
	ringScale = 0.75
)

// skinReferenceRGB is the empirical skin reference color. It is scaled by
// the golden ratio before projection onto the chroma plane.
var skinReferenceRGB = [3]float32{0.76, 0.57, 0.46}

// halfPlane is a supporting line in Hesse normal form: dot(n, p) = k, with
// n the unit outward normal.
type halfPlane struct {
	nx, ny float32
	k      float32
}

func (h halfPlane) distance(p chroma.Point) float32 {
	return h.nx*p.Cb + h.ny*p.Cr - h.k
}

// Geometry holds the reference shapes, computed once per converter.
type Geometry struct {
	conv *chroma.Converter

	// Outer holds the full-saturation hexagon vertices in hue order:
	// red, yellow, green, cyan, blue, magenta.
	Outer [6]chroma.Point

	// Inner is the exact 0.75-scaled copy of Outer.
	Inner [6]chroma.Point

	// Skin is the skin-tone reference coordinate and SkinDir the unit
	// perpendicular of its line through the origin.
	Skin    chroma.Point
	SkinDir chroma.Point

	outerPlanes [6]halfPlane
	innerPlanes [6]halfPlane
	skinAxis    chroma.Point // unit vector from origin toward Skin
}

// NewGeometry derives the graticule shapes for one chroma standard.
func NewGeometry(conv *chroma.Converter) *Geometry {
	g := &Geometry{conv: conv}

	vertices := [6][3]float32{
		{1, 0, 0}, // red
		{1, 1, 0}, // yellow
		{0, 1, 0}, // green
		{0, 1, 1}, // cyan
		{0, 0, 1}, // blue
		{1, 0, 1}, // magenta
	}
	for i, v := range vertices {
		g.Outer[i] = conv.RGBToChroma(v[0], v[1], v[2])
		g.Inner[i] = g.Outer[i].Scale(ringScale)
	}

	g.Skin = conv.RGBToChroma(
		skinReferenceRGB[0]*GoldenRatio,
		skinReferenceRGB[1]*GoldenRatio,
		skinReferenceRGB[2]*GoldenRatio,
	)
	skinLen := math32.Hypot(g.Skin.Cb, g.Skin.Cr)
	g.skinAxis = chroma.Point{Cb: g.Skin.Cb / skinLen, Cr: g.Skin.Cr / skinLen}
	g.SkinDir = chroma.Point{Cb: -g.skinAxis.Cr, Cr: g.skinAxis.Cb}

	g.outerPlanes = ringPlanes(g.Outer)
	g.innerPlanes = ringPlanes(g.Inner)
	return g
}

// ringPlanes builds the six supporting half-planes of a convex hue ring,
// normals oriented away from the origin.
func ringPlanes(ring [6]chroma.Point) [6]halfPlane {
	var planes [6]halfPlane
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%6]
		ex, ey := b.Cb-a.Cb, b.Cr-a.Cr
		nx, ny := ey, -ex
		length := math32.Hypot(nx, ny)
		nx /= length
		ny /= length
		k := nx*a.Cb + ny*a.Cr
		if k < 0 {
			nx, ny, k = -nx, -ny, -k
		}
		planes[i] = halfPlane{nx: nx, ny: ny, k: k}
	}
	return planes
}

// ringSD evaluates the signed distance of p to a ring boundary: the maximum
// over the six half-plane distances. Negative inside, zero on the boundary.
// The returned index identifies the dominating edge.
func ringSD(planes *[6]halfPlane, p chroma.Point) (sd float32, active int) {
	sd = math32.Inf(-1)
	for i := range planes {
		if d := planes[i].distance(p); d > sd {
			sd = d
			active = i
		}
	}
	return sd, active
}

// skinSD returns the signed distance of p to the skin-tone line and whether
// p lies on the drawn extent of the line (the ray from the origin toward
// the skin point, capped at the scope radius).
func (g *Geometry) skinSD(p chroma.Point) (sd float32, on bool) {
	along := g.skinAxis.Cb*p.Cb + g.skinAxis.Cr*p.Cr
	if along < 0 || along > skinLineReach {
		return 0, false
	}
	return g.SkinDir.Cb*p.Cb + g.SkinDir.Cr*p.Cr, true
}

// skinLineReach caps the drawn skin line at the scope radius in chroma units.
const skinLineReach = chroma.Extent

// snapsToSkin reports whether the query position falls in the quadrant that
// renders as constant skin-tone color: x in (skin x, 0), y in (0, skin y).
// The bounds are an empirical heuristic; they are kept literally.
func (g *Geometry) snapsToSkin(p chroma.Point) bool {
	return p.Cb > g.Skin.Cb && p.Cr < g.Skin.Cr && p.Cb < 0 && p.Cr > 0
}

// ColorAt returns the graticule color at a chroma position. Inside the
// hexagon the position is pushed out to the boundary along the dominating
// edge normal, so edge pixels take the hue of the boundary they trace.
// Positions in the skin quadrant snap to the exact skin-tone hue.
func (g *Geometry) ColorAt(p chroma.Point, luma float32) (r, gr, b float32) {
	q := p
	if g.snapsToSkin(p) {
		q = g.Skin
	} else if sd, active := ringSD(&g.outerPlanes, p); sd < 0 {
		plane := g.outerPlanes[active]
		q = chroma.Point{Cb: p.Cb - plane.nx*sd, Cr: p.Cr - plane.ny*sd}
	}
	return g.conv.ChromaToRGB(luma, q)
}
