package histogram

import (
	"image"
	"runtime"
	"sync"

	"vectorscope/internal/chroma"
)

// bandRows is the height of one accumulation band. Bands are a fixed
// partition of the image, independent of worker count, so the merged totals
// do not depend on scheduling.
const bandRows = 32

// Params configures one accumulation pass.
type Params struct {
	// Brightness scales every sample weight. Clamped to [1, 1024].
	Brightness int

	// Checkerboard samples only alternating pixels per row, offset between
	// adjacent rows, with doubled weight to keep totals invariant.
	Checkerboard bool

	// Workers caps the worker pool; 0 means runtime.NumCPU().
	Workers int
}

// DefaultParams returns the default accumulation parameters.
func DefaultParams() Params {
	return Params{Brightness: 128}
}

func (p Params) clamped() Params {
	if p.Brightness < 1 {
		p.Brightness = 1
	}
	if p.Brightness > 1024 {
		p.Brightness = 1024
	}
	return p
}

// Accumulator scatter-adds source pixels into a Buffer. Per-band scratch
// buffers are reused across frames; an Accumulator is not safe for
// concurrent use, but its workers parallelize each pass internally.
type Accumulator struct {
	conv     *chroma.Converter
	params   Params
	partials [][]float32
}

// NewAccumulator creates an Accumulator using the given converter.
func NewAccumulator(conv *chroma.Converter, params Params) *Accumulator {
	return &Accumulator{conv: conv, params: params.clamped()}
}

// SetParams replaces the accumulation parameters for subsequent passes.
func (a *Accumulator) SetParams(params Params) {
	a.params = params.clamped()
}

// Accumulate clears buf and adds one weighted sample per source pixel
// (or per checkerboard pixel). Each band accumulates into private scratch;
// bands are merged in index order after all workers finish, so the result
// is identical for any worker count or interleaving.
func (a *Accumulator) Accumulate(src *image.RGBA, buf *Buffer) {
	buf.Clear()

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}

	base := float32(1) / float32(w*h)
	if a.params.Checkerboard {
		base *= 2
	}
	weight := base * float32(a.params.Brightness)

	numBands := (h + bandRows - 1) / bandRows
	for len(a.partials) < numBands {
		a.partials = append(a.partials, make([]float32, GridSize*GridSize))
	}
	for i := 0; i < numBands; i++ {
		clearCells(a.partials[i])
	}

	workers := a.params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > numBands {
		workers = numBands
	}

	var wg sync.WaitGroup
	bandChan := make(chan int, numBands)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for band := range bandChan {
				a.accumulateBand(src, band, weight)
			}
		}()
	}
	for band := 0; band < numBands; band++ {
		bandChan <- band
	}
	close(bandChan)
	wg.Wait()

	// Merge barrier: composition must not start before this returns.
	for band := 0; band < numBands; band++ {
		cells := a.partials[band]
		for i, v := range cells {
			if v != 0 {
				buf.cells[i] += v
			}
		}
	}
}

// accumulateBand processes rows [band*bandRows, ...) into the band's scratch.
func (a *Accumulator) accumulateBand(src *image.RGBA, band int, weight float32) {
	bounds := src.Bounds()
	w := bounds.Dx()
	cells := a.partials[band]

	y0 := band * bandRows
	y1 := y0 + bandRows
	if y1 > bounds.Dy() {
		y1 = bounds.Dy()
	}

	for y := y0; y < y1; y++ {
		off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := src.Pix[off : off+w*4]
		x0 := 0
		step := 1
		if a.params.Checkerboard {
			// Alternate which half of the row is sampled between rows.
			// Odd-sized frames sample one pixel more on even rows than on
			// odd ones, biasing the total by a single pixel weight at most.
			x0 = y & 1
			step = 2
		}
		for x := x0; x < w; x += step {
			i := x * 4
			r := float32(row[i]) / 255
			g := float32(row[i+1]) / 255
			b := float32(row[i+2]) / 255

			p := a.conv.RGBToChroma(r, g, b)
			if ix, iy, ok := CellFor(p); ok {
				cells[iy*GridSize+ix] += weight
			}
		}
	}
}

func clearCells(cells []float32) {
	for i := range cells {
		cells[i] = 0
	}
}
