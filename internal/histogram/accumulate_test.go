package histogram

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectorscope/internal/chroma"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func noiseImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// Total accumulated energy must equal brightness regardless of image size
// or sampling pattern: every pixel weighs brightness/pixelCount, doubled
// when only half the pixels are sampled.
func TestConservation(t *testing.T) {
	conv := chroma.NewConverter(chroma.BT601)
	buf := NewBuffer()

	// Odd dimensions exercise the checkerboard's uneven row split: even rows
	// sample one pixel more than odd rows, a bias of one pixel weight.
	sizes := [][2]int{{160, 120}, {161, 121}, {159, 33}}

	for _, size := range sizes {
		for _, checker := range []bool{false, true} {
			acc := NewAccumulator(conv, Params{Brightness: 128, Checkerboard: checker})
			acc.Accumulate(noiseImage(size[0], size[1], 1), buf)
			assert.InEpsilon(t, 128.0, buf.Total(), 1e-3,
				"%dx%d checkerboard=%v", size[0], size[1], checker)
		}
	}
}

// Band merge order is fixed, so totals must not vary with worker count.
func TestOrderIndependence(t *testing.T) {
	conv := chroma.NewConverter(chroma.BT709)
	img := noiseImage(200, 150, 7)

	ref := NewBuffer()
	NewAccumulator(conv, Params{Brightness: 300, Workers: 1}).Accumulate(img, ref)

	for _, workers := range []int{2, 4, 8} {
		buf := NewBuffer()
		NewAccumulator(conv, Params{Brightness: 300, Workers: workers}).Accumulate(img, buf)
		for iy := 0; iy < GridSize; iy++ {
			for ix := 0; ix < GridSize; ix++ {
				if buf.At(ix, iy) != ref.At(ix, iy) {
					t.Fatalf("cell (%d,%d) differs with %d workers: %v != %v",
						ix, iy, workers, buf.At(ix, iy), ref.At(ix, iy))
				}
			}
		}
	}
}

// A solid pure-red frame concentrates all energy in the single cell
// addressed by the red chroma vertex.
func TestSolidRedPeak(t *testing.T) {
	conv := chroma.NewConverter(chroma.BT601)
	buf := NewBuffer()
	acc := NewAccumulator(conv, Params{Brightness: 128})
	acc.Accumulate(solidImage(64, 64, color.RGBA{255, 0, 0, 255}), buf)

	wantX, wantY, ok := CellFor(conv.RGBToChroma(1, 0, 0))
	require.True(t, ok)

	px, py, peak := buf.Peak()
	assert.Equal(t, wantX, px)
	assert.Equal(t, wantY, py)
	assert.InEpsilon(t, 128.0, float64(peak), 1e-3)

	// Every other cell stays zero.
	for iy := 0; iy < GridSize; iy++ {
		for ix := 0; ix < GridSize; ix++ {
			if ix == wantX && iy == wantY {
				continue
			}
			if buf.At(ix, iy) != 0 {
				t.Fatalf("unexpected energy at (%d,%d)", ix, iy)
			}
		}
	}
}

func TestBrightnessClamping(t *testing.T) {
	conv := chroma.NewConverter(chroma.BT601)
	buf := NewBuffer()

	acc := NewAccumulator(conv, Params{Brightness: 5000})
	acc.Accumulate(solidImage(8, 8, color.RGBA{0, 255, 0, 255}), buf)
	assert.InEpsilon(t, 1024.0, buf.Total(), 1e-3)

	acc = NewAccumulator(conv, Params{Brightness: -3})
	acc.Accumulate(solidImage(8, 8, color.RGBA{0, 255, 0, 255}), buf)
	assert.InEpsilon(t, 1.0, buf.Total(), 1e-3)
}

func TestOutOfRangeChromaIgnored(t *testing.T) {
	_, _, ok := CellFor(chroma.Point{Cb: 0.71, Cr: 0})
	assert.False(t, ok)
	_, _, ok = CellFor(chroma.Point{Cb: 0, Cr: -0.71})
	assert.False(t, ok)

	buf := NewBuffer()
	buf.Add(-1, 10, 5)
	buf.Add(10, GridSize, 5)
	assert.Zero(t, buf.Total())
	assert.Zero(t, buf.At(-1, 0))
}

func TestSampleBorderClamped(t *testing.T) {
	buf := NewBuffer()
	buf.Add(0, 0, 2.5)
	// Far outside the domain clamps to the corner cell.
	assert.Equal(t, float32(2.5), buf.Sample(chroma.Point{Cb: -5, Cr: -5}))
}
