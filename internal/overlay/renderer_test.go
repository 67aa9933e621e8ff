package overlay

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectorscope/internal/chroma"
)

const testScopeSize = 256

// testScale is the screen pixels per chroma unit for a 256px scope.
const testScale = testScopeSize / (2 * chroma.Extent)

func TestPreciseMaskOnAndOffEdges(t *testing.T) {
	g := NewGeometry(chroma.NewConverter(chroma.BT601))
	r := NewRenderer(ModePrecise, g)
	r.Prepare(testScopeSize)

	for i := 0; i < 6; i++ {
		a, b := g.Outer[i], g.Outer[(i+1)%6]
		mid := chroma.Point{Cb: (a.Cb + b.Cb) / 2, Cr: (a.Cr + b.Cr) / 2}
		assert.InDelta(t, 1, float64(r.Mask(mid, testScale)), 1e-3, "edge %d midpoint", i)
	}

	// The origin is far from every line except the skin line start; a point
	// well outside the hexagon but off the skin ray sees zero coverage.
	far := chroma.Point{Cb: 0.65, Cr: 0.65}
	assert.Zero(t, r.Mask(far, testScale))
}

func TestPreciseMaskFlatGradientIsFinite(t *testing.T) {
	g := NewGeometry(chroma.NewConverter(chroma.BT601))
	r := NewRenderer(ModePrecise, g)

	// A degenerate scale must not divide by zero or go NaN.
	m := r.Mask(g.Outer[0], 1e12)
	assert.False(t, m != m, "mask is NaN")
	assert.GreaterOrEqual(t, m, float32(0))
	assert.LessOrEqual(t, m, float32(1))
}

func TestFastMaskCoversEdges(t *testing.T) {
	g := NewGeometry(chroma.NewConverter(chroma.BT601))
	r := NewRenderer(ModeFast, g)
	r.Prepare(testScopeSize)

	for i := 0; i < 6; i++ {
		a, b := g.Outer[i], g.Outer[(i+1)%6]
		mid := chroma.Point{Cb: (a.Cb + b.Cb) / 2, Cr: (a.Cr + b.Cr) / 2}
		assert.Greater(t, r.Mask(mid, testScale), float32(0.25), "edge %d midpoint", i)
	}
}

// The two modes must agree away from the drawn lines: sampling a grid over
// the scope and skipping everything within two pixels of a line, coverage
// from both renderers is zero within tolerance.
func TestModeEquivalenceAwayFromLines(t *testing.T) {
	g := NewGeometry(chroma.NewConverter(chroma.BT601))

	precise := NewRenderer(ModePrecise, g)
	fast := NewRenderer(ModeFast, g)
	precise.Prepare(testScopeSize)
	fast.Prepare(testScopeSize)

	const tolerance = 0.02
	const guardPx = 2.0

	checked := 0
	for iy := 0; iy < 64; iy++ {
		for ix := 0; ix < 64; ix++ {
			p := chroma.Point{
				Cb: (float32(ix)/64 - 0.5) * 2 * chroma.Extent,
				Cr: (float32(iy)/64 - 0.5) * 2 * chroma.Extent,
			}
			if pixelDistanceToLines(g, p) < guardPx {
				continue
			}
			pm := precise.Mask(p, testScale)
			fm := fast.Mask(p, testScale)
			require.InDelta(t, float64(pm), float64(fm), tolerance,
				"point %+v", p)
			checked++
		}
	}
	assert.Greater(t, checked, 1000, "guard band rejected too many samples")
}

// The modes must also agree where coverage is nonzero. Integrating coverage
// along a perpendicular cross-section of each outer edge, the analytic
// triangle profile comes to one pixel of line area; the rasterized line
// distributes its coverage per axis-aligned column, which foreshortens the
// perpendicular integral by up to cos(45°) on diagonal edges. Both integrals
// must be substantial and close.
func TestModeEquivalenceEdgeCrossSection(t *testing.T) {
	g := NewGeometry(chroma.NewConverter(chroma.BT601))

	precise := NewRenderer(ModePrecise, g)
	fast := NewRenderer(ModeFast, g)
	precise.Prepare(testScopeSize)
	fast.Prepare(testScopeSize)

	const stepPx = 0.05
	for i := 0; i < 6; i++ {
		a, b := g.Outer[i], g.Outer[(i+1)%6]
		mid := chroma.Point{Cb: (a.Cb + b.Cb) / 2, Cr: (a.Cr + b.Cr) / 2}
		n := g.outerPlanes[i]

		var intPrecise, intFast float64
		for tPx := float32(-3); tPx <= 3; tPx += stepPx {
			p := chroma.Point{
				Cb: mid.Cb + n.nx*tPx/testScale,
				Cr: mid.Cr + n.ny*tPx/testScale,
			}
			intPrecise += float64(precise.Mask(p, testScale)) * stepPx
			intFast += float64(fast.Mask(p, testScale)) * stepPx
		}

		require.Greater(t, intPrecise, 0.6, "edge %d precise integral", i)
		require.Greater(t, intFast, 0.6, "edge %d fast integral", i)
		assert.InDelta(t, intPrecise, intFast, 0.35, "edge %d", i)
	}
}

// pixelDistanceToLines returns the distance in screen pixels from p to the
// nearest graticule line.
func pixelDistanceToLines(g *Geometry, p chroma.Point) float32 {
	outer, _ := ringSD(&g.outerPlanes, p)
	inner, _ := ringSD(&g.innerPlanes, p)
	min := abs32(outer)
	if d := abs32(inner); d < min {
		min = d
	}
	if sd, on := g.skinSD(p); on {
		if d := abs32(sd); d < min {
			min = d
		}
	} else {
		// Near the endpoints of the skin segment the fast rasterizer and
		// the analytic cutoff disagree; guard by distance to the segment
		// ends as well.
		for _, end := range []float32{0, skinLineReach} {
			ex := g.skinAxis.Cb * end
			ey := g.skinAxis.Cr * end
			dx, dy := p.Cb-ex, p.Cr-ey
			if d := sqrt32(dx*dx + dy*dy); d < min {
				min = d
			}
		}
	}
	return min * testScale
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 {
	return math32.Sqrt(v)
}
