package overlay

import (
	"github.com/chewxy/math32"

	"vectorscope/internal/chroma"
)

// fastRenderer rasterizes the graticule once per scope size into a cached
// coverage grid using Wu-style anti-aliased line drawing, then samples the
// grid bilinearly. Cheaper than analytic evaluation, approximate at the
// sub-pixel level.
type fastRenderer struct {
	geom *Geometry
	size int
	mask []float32
}

func (r *fastRenderer) Prepare(sizePx int) {
	if sizePx < 1 {
		sizePx = 1
	}
	if sizePx == r.size {
		return
	}
	r.size = sizePx
	if cap(r.mask) < sizePx*sizePx {
		r.mask = make([]float32, sizePx*sizePx)
	} else {
		r.mask = r.mask[:sizePx*sizePx]
		for i := range r.mask {
			r.mask[i] = 0
		}
	}
	r.rasterize()
}

// toPixel maps a chroma position to mask grid coordinates.
func (r *fastRenderer) toPixel(p chroma.Point) (x, y float32) {
	s := float32(r.size)
	x = (p.Cb/(2*chroma.Extent) + 0.5) * s
	y = (p.Cr/(2*chroma.Extent) + 0.5) * s
	return x, y
}

func (r *fastRenderer) rasterize() {
	g := r.geom
	for i := 0; i < 6; i++ {
		r.line(g.Outer[i], g.Outer[(i+1)%6])
		r.line(g.Inner[i], g.Inner[(i+1)%6])
	}
	end := chroma.Point{
		Cb: g.skinAxis.Cb * skinLineReach,
		Cr: g.skinAxis.Cr * skinLineReach,
	}
	r.line(chroma.Point{}, end)
}

// line draws an anti-aliased unit-width segment between two chroma points,
// accumulating clamped coverage into the mask.
func (r *fastRenderer) line(a, b chroma.Point) {
	x0, y0 := r.toPixel(a)
	x1, y1 := r.toPixel(b)

	steep := math32.Abs(y1-y0) > math32.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	gradient := float32(1)
	if dx > aaEpsilon {
		gradient = (y1 - y0) / dx
	}

	y := y0 + gradient*(math32.Ceil(x0)-x0)
	for x := int(math32.Ceil(x0)); x <= int(math32.Floor(x1)); x++ {
		base := math32.Floor(y)
		f := y - base
		iy := int(base)
		if steep {
			r.plot(iy, x, 1-f)
			r.plot(iy+1, x, f)
		} else {
			r.plot(x, iy, 1-f)
			r.plot(x, iy+1, f)
		}
		y += gradient
	}
}

func (r *fastRenderer) plot(x, y int, c float32) {
	if x < 0 || x >= r.size || y < 0 || y >= r.size || c <= 0 {
		return
	}
	i := y*r.size + x
	v := r.mask[i] + c
	if v > 1 {
		v = 1
	}
	r.mask[i] = v
}

// Mask bilinearly samples the cached coverage grid. The scale argument is
// unused: line width was fixed at rasterization time.
func (r *fastRenderer) Mask(p chroma.Point, _ float32) float32 {
	if r.size == 0 {
		return 0
	}
	// Mask samples live at integer positions of the toPixel lattice, the
	// same convention the rasterizer plots with.
	x, y := r.toPixel(p)

	x0 := int(math32.Floor(x))
	y0 := int(math32.Floor(y))
	fx := x - float32(x0)
	fy := y - float32(y0)

	m00 := r.at(x0, y0)
	m10 := r.at(x0+1, y0)
	m01 := r.at(x0, y0+1)
	m11 := r.at(x0+1, y0+1)

	top := m00 + (m10-m00)*fx
	bot := m01 + (m11-m01)*fx
	return top + (bot-top)*fy
}

func (r *fastRenderer) at(x, y int) float32 {
	if x < 0 || x >= r.size || y < 0 || y >= r.size {
		return 0
	}
	return r.mask[y*r.size+x]
}
