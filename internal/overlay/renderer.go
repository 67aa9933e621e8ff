package overlay

import (
	"fmt"

	"github.com/chewxy/math32"

	"vectorscope/internal/chroma"
)

// Mode selects which graticule renderer the pipeline uses. The choice is
// made once at configuration time; both modes must look the same.
type Mode int

const (
	// ModePrecise evaluates the signed-distance fields analytically per
	// output pixel: exact anti-aliasing, heavier cost.
	ModePrecise Mode = iota

	// ModeFast rasterizes the graticule once per scope size as explicit
	// anti-aliased line segments and samples the cached mask.
	ModeFast
)

func (m Mode) String() string {
	switch m {
	case ModePrecise:
		return "precise"
	case ModeFast:
		return "fast"
	default:
		return "Unknown"
	}
}

// ParseMode converts "precise" or "fast" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "precise":
		return ModePrecise, nil
	case "fast":
		return ModeFast, nil
	}
	return ModePrecise, fmt.Errorf("unknown overlay mode %q", name)
}

// Renderer produces the graticule coverage mask. Color is shared between
// modes via Geometry.ColorAt; only the mask differs.
type Renderer interface {
	// Prepare fixes the scope diameter in pixels for the coming frame.
	// Called once per frame, before any Mask call.
	Prepare(sizePx int)

	// Mask returns graticule coverage in [0,1] at a chroma position.
	// scale is the screen pixels per chroma unit of the current placement.
	Mask(p chroma.Point, scale float32) float32
}

// NewRenderer builds the renderer for the configured mode.
func NewRenderer(mode Mode, geom *Geometry) Renderer {
	if mode == ModeFast {
		return &fastRenderer{geom: geom}
	}
	return &preciseRenderer{geom: geom}
}

// aaEpsilon floors the reciprocal-gradient divisor so a flat local gradient
// cannot produce a division by zero or NaN coverage.
const aaEpsilon = 1e-6

// edgeCoverage converts a raw signed distance to pixel coverage. The
// distance is divided by the reciprocal length of its screen-space
// gradient, keeping the drawn line about one pixel wide at any zoom. The
// ring normals are unit length in chroma space, so the gradient length in
// screen space is the placement scale.
func edgeCoverage(sd, scale float32) float32 {
	rlen := 1 / scale
	if rlen < aaEpsilon {
		rlen = aaEpsilon
	}
	d := math32.Abs(sd) / rlen
	if d >= 1 {
		return 0
	}
	return 1 - d
}

// preciseRenderer evaluates the graticule analytically at every query.
type preciseRenderer struct {
	geom *Geometry
}

func (r *preciseRenderer) Prepare(int) {}

func (r *preciseRenderer) Mask(p chroma.Point, scale float32) float32 {
	g := r.geom

	outer, _ := ringSD(&g.outerPlanes, p)
	inner, _ := ringSD(&g.innerPlanes, p)
	mask := edgeCoverage(outer, scale) + edgeCoverage(inner, scale)
	if sd, on := g.skinSD(p); on {
		mask += edgeCoverage(sd, scale)
	}
	if mask > 1 {
		mask = 1
	}
	return mask
}
