// Package histogram accumulates per-pixel chroma samples into a fixed grid.
package histogram

import "vectorscope/internal/chroma"

// GridSize is the edge length of the square accumulation grid. The grid
// covers [-chroma.Extent, chroma.Extent] on both axes.
const GridSize = 256

// Buffer is the per-frame accumulation grid. Cells hold non-negative summed
// weights. The buffer is written only during the accumulation phase and
// read-only afterwards; it carries no state across frames beyond its
// allocation.
type Buffer struct {
	cells []float32
}

// NewBuffer allocates a cleared accumulation buffer.
func NewBuffer() *Buffer {
	return &Buffer{cells: make([]float32, GridSize*GridSize)}
}

// Clear zeroes every cell.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = 0
	}
}

// CellFor maps a chroma point to its grid address. ok is false when the
// point falls outside the grid; such samples contribute nothing.
func CellFor(p chroma.Point) (ix, iy int, ok bool) {
	fx := (p.Cb/(2*chroma.Extent) + 0.5) * GridSize
	fy := (p.Cr/(2*chroma.Extent) + 0.5) * GridSize
	ix, iy = int(fx), int(fy)
	if fx < 0 || fy < 0 || ix >= GridSize || iy >= GridSize {
		return 0, 0, false
	}
	return ix, iy, true
}

// Add accumulates a weight into the addressed cell. Out-of-range addresses
// are ignored.
func (b *Buffer) Add(ix, iy int, w float32) {
	if ix < 0 || ix >= GridSize || iy < 0 || iy >= GridSize {
		return
	}
	b.cells[iy*GridSize+ix] += w
}

// At returns the cell value, or zero beyond the grid edge.
func (b *Buffer) At(ix, iy int) float32 {
	if ix < 0 || ix >= GridSize || iy < 0 || iy >= GridSize {
		return 0
	}
	return b.cells[iy*GridSize+ix]
}

// Sample point-samples the buffer at a chroma position with border-clamped
// addressing.
func (b *Buffer) Sample(p chroma.Point) float32 {
	ix := int((p.Cb/(2*chroma.Extent) + 0.5) * GridSize)
	iy := int((p.Cr/(2*chroma.Extent) + 0.5) * GridSize)
	if ix < 0 {
		ix = 0
	} else if ix >= GridSize {
		ix = GridSize - 1
	}
	if iy < 0 {
		iy = 0
	} else if iy >= GridSize {
		iy = GridSize - 1
	}
	return b.cells[iy*GridSize+ix]
}

// Total returns the sum of all cell weights.
func (b *Buffer) Total() float64 {
	var sum float64
	for _, v := range b.cells {
		sum += float64(v)
	}
	return sum
}

// Peak returns the address and value of the largest cell.
func (b *Buffer) Peak() (ix, iy int, v float32) {
	for i, c := range b.cells {
		if c > v {
			v = c
			ix = i % GridSize
			iy = i / GridSize
		}
	}
	return ix, iy, v
}
