package scope

import (
	"image"
	"runtime"
	"sync"

	"github.com/chewxy/math32"

	"vectorscope/internal/chroma"
	"vectorscope/internal/histogram"
	"vectorscope/internal/overlay"
)

// screenScale is the slope of the circular mask edge in coverage per pixel,
// giving a one-pixel anti-aliased rim.
const screenScale = 1.0

// displayGamma converts the linear graticule contribution for gamma-encoded
// output pipelines.
const displayGamma = 2.2

// Pipeline runs the two-phase per-frame computation. All cross-frame state
// is scratch memory; the accumulation buffer is rebuilt from scratch every
// frame.
type Pipeline struct {
	cfg  Config
	conv *chroma.Converter
	geom *overlay.Geometry
	rend overlay.Renderer
	acc  *histogram.Accumulator
	buf  *histogram.Buffer
}

// NewPipeline builds a pipeline for the given configuration. The chroma
// standard and overlay mode are resolved here, once, not per pixel.
func NewPipeline(cfg Config) *Pipeline {
	cfg = cfg.Clamped()
	p := &Pipeline{cfg: cfg, buf: histogram.NewBuffer()}
	p.rebuild()
	return p
}

func (p *Pipeline) rebuild() {
	p.conv = chroma.NewConverter(p.cfg.Standard)
	p.geom = overlay.NewGeometry(p.conv)
	p.rend = overlay.NewRenderer(p.cfg.OverlayMode, p.geom)
	p.acc = histogram.NewAccumulator(p.conv, p.accumParams())
}

func (p *Pipeline) accumParams() histogram.Params {
	return histogram.Params{
		Brightness:   p.cfg.Brightness,
		Checkerboard: p.cfg.Checkerboard,
		Workers:      p.cfg.Workers,
	}
}

// Config returns the active configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// SetConfig applies a new configuration between frames. Changing the
// standard or overlay mode rebuilds the derived geometry.
func (p *Pipeline) SetConfig(cfg Config) {
	cfg = cfg.Clamped()
	rebuild := cfg.Standard != p.cfg.Standard || cfg.OverlayMode != p.cfg.OverlayMode
	p.cfg = cfg
	if rebuild {
		p.rebuild()
		return
	}
	p.acc.SetParams(p.accumParams())
}

// Buffer exposes the most recent accumulation result, read-only, for
// inspection after Render returns.
func (p *Pipeline) Buffer() *histogram.Buffer {
	return p.buf
}

// Render runs one full frame: accumulation phase, barrier, composition
// phase. The returned image matches src everywhere outside the scope circle
// and the graticule lines.
func (p *Pipeline) Render(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)

	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return out
	}

	// Phase 1: every worker finishes scattering before composition reads.
	p.acc.Accumulate(src, p.buf)

	place := PlacementFor(w, h, p.cfg.PositionX, p.cfg.PositionY, p.cfg.Zoom)
	p.rend.Prepare(int(place.Size + 0.5))

	// Phase 2: pure reads, parallel over rows.
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}

	var wg sync.WaitGroup
	rowChan := make(chan int, h)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowChan {
				p.compositeRow(src, out, place, y)
			}
		}()
	}
	for y := 0; y < h; y++ {
		rowChan <- y
	}
	close(rowChan)
	wg.Wait()

	return out
}

// compositeRow writes one output row. Pixels outside the scope square are a
// straight copy of the source.
func (p *Pipeline) compositeRow(src, out *image.RGBA, place Placement, y int) {
	bounds := src.Bounds()
	w := bounds.Dx()

	srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
	dstOff := out.PixOffset(bounds.Min.X, bounds.Min.Y+y)
	srcRow := src.Pix[srcOff : srcOff+w*4]
	dstRow := out.Pix[dstOff : dstOff+w*4]
	copy(dstRow, srcRow)

	fy := float32(y) + 0.5
	if fy < place.OffsetY || fy > place.OffsetY+place.Size {
		return
	}

	x0 := int(place.OffsetX)
	x1 := int(place.OffsetX+place.Size) + 1
	if x0 < 0 {
		x0 = 0
	}
	if x1 > w {
		x1 = w
	}

	cx, cy := place.Center()
	radius := place.Radius()
	scale := place.Size / (2 * chroma.Extent)

	uiOpacity := float32(p.cfg.UIOpacity)
	bgAlpha := float32(p.cfg.BackgroundAlpha)
	luma := overlay.GoldenRatio + (1-overlay.GoldenRatio)*uiOpacity

	for x := x0; x < x1; x++ {
		fx := float32(x) + 0.5

		// Screen position -> chroma plane; Cr points up on screen.
		pt := chroma.Point{
			Cb: (fx - cx) / scale,
			Cr: (cy - fy) / scale,
		}

		i := x * 4
		r := float32(srcRow[i]) / 255
		g := float32(srcRow[i+1]) / 255
		b := float32(srcRow[i+2]) / 255

		dx, dy := fx-cx, fy-cy
		circ := circleCoverage(math32.Sqrt(dx*dx+dy*dy), radius)

		if circ > 0 {
			density := p.buf.Sample(pt)
			if density > 1 {
				density = 1
			}
			hr, hg, hb := p.conv.ChromaToRGB(luma, pt)
			t := circ * bgAlpha
			r = lerp(r, hr*density, t)
			g = lerp(g, hg*density, t)
			b = lerp(b, hb*density, t)
		}

		if mask := p.rend.Mask(pt, scale); mask > 0 {
			or, og, ob := p.geom.ColorAt(pt, luma)
			if !p.cfg.LinearOutput {
				or = math32.Pow(or, displayGamma)
				og = math32.Pow(og, displayGamma)
				ob = math32.Pow(ob, displayGamma)
				mask = math32.Pow(mask, displayGamma)
			}
			t := mask * uiOpacity
			r = lerp(r, or, t)
			g = lerp(g, og, t)
			b = lerp(b, ob, t)
		}

		dstRow[i] = uint8(clamp01f(r)*255 + 0.5)
		dstRow[i+1] = uint8(clamp01f(g)*255 + 0.5)
		dstRow[i+2] = uint8(clamp01f(b)*255 + 0.5)
		dstRow[i+3] = srcRow[i+3]
	}
}

// circleCoverage is the anti-aliased circular mask: full inside the
// radius, zero outside, with a one-pixel transition band.
func circleCoverage(dist, radius float32) float32 {
	return clamp01f(0.5 - (dist-radius)*screenScale)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
