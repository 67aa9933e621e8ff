package scope

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectorscope/internal/chroma"
	"vectorscope/internal/histogram"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCircleCoverageProfile(t *testing.T) {
	const radius = 100

	assert.Equal(t, float32(1), circleCoverage(radius-2, radius))
	assert.Equal(t, float32(0), circleCoverage(radius+2, radius))

	// Monotonic across the one-pixel band.
	prev := circleCoverage(radius-1, radius)
	for d := float32(radius) - 0.9; d <= radius+1; d += 0.1 {
		cov := circleCoverage(d, radius)
		assert.LessOrEqual(t, cov, prev, "coverage rises at distance %v", d)
		prev = cov
	}
}

func TestDefaultConfigClamped(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, cfg, cfg.Clamped())
}

func TestConfigClamping(t *testing.T) {
	cfg := Config{
		Brightness:      0,
		PositionX:       1.7,
		PositionY:       -2,
		Zoom:            3,
		UIOpacity:       -1,
		BackgroundAlpha: 0.1,
	}.Clamped()

	assert.Equal(t, 1, cfg.Brightness)
	assert.Equal(t, 1.0, cfg.PositionX)
	assert.Equal(t, 0.0, cfg.PositionY)
	assert.Equal(t, 1.0, cfg.Zoom)
	assert.Equal(t, 0.0, cfg.UIOpacity)
	assert.Equal(t, 0.5, cfg.BackgroundAlpha)
}

func TestPlacementInterpolation(t *testing.T) {
	// Zoomed out: native size at the configured corner.
	p := PlacementFor(1920, 1080, 0, 0, 0)
	assert.Equal(t, float32(histogram.GridSize), p.Size)
	assert.Equal(t, float32(0), p.OffsetX)
	assert.Equal(t, float32(0), p.OffsetY)

	// Zoomed in: full-screen square, centered.
	p = PlacementFor(1920, 1080, 0, 0, 1)
	assert.Equal(t, float32(1080), p.Size)
	assert.Equal(t, float32((1920-1080)/2), p.OffsetX)
	assert.Equal(t, float32(0), p.OffsetY)
}

func TestPlacementStaysOnScreen(t *testing.T) {
	for _, zoom := range []float64{0, 0.25, 0.5, 0.75, 1} {
		p := PlacementFor(800, 600, 1, 1, zoom)
		assert.GreaterOrEqual(t, p.OffsetX, float32(0), "zoom %v", zoom)
		assert.GreaterOrEqual(t, p.OffsetY, float32(0), "zoom %v", zoom)
		assert.LessOrEqual(t, p.OffsetX+p.Size, float32(800)+0.001, "zoom %v", zoom)
		assert.LessOrEqual(t, p.OffsetY+p.Size, float32(600)+0.001, "zoom %v", zoom)
	}
}

func TestPlacementSmallFrame(t *testing.T) {
	p := PlacementFor(100, 80, 0.5, 0.5, 0)
	assert.Equal(t, float32(80), p.Size)
}

// A solid pure-red frame puts all histogram energy into the single cell
// addressed by the red vertex, and the render leaves pixels outside the
// scope untouched.
func TestRenderSolidRed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PositionX = 0
	cfg.PositionY = 0
	cfg.Workers = 4

	pipe := NewPipeline(cfg)
	src := solidFrame(640, 480, color.RGBA{255, 0, 0, 255})
	out := pipe.Render(src)

	require.Equal(t, src.Bounds(), out.Bounds())

	conv := chroma.NewConverter(chroma.BT601)
	wantX, wantY, ok := histogram.CellFor(conv.RGBToChroma(1, 0, 0))
	require.True(t, ok)
	px, py, peak := pipe.Buffer().Peak()
	assert.Equal(t, wantX, px)
	assert.Equal(t, wantY, py)
	assert.InEpsilon(t, 128.0, float64(peak), 1e-2)

	// The scope sits in the top-left corner; the opposite corner is
	// untouched source.
	for y := 400; y < 480; y++ {
		for x := 560; x < 640; x++ {
			if out.RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) modified outside the scope", x, y)
			}
		}
	}

	// Inside the circle the background shows through at reduced strength.
	center := out.RGBAAt(128, 128)
	assert.NotEqual(t, src.RGBAAt(128, 128), center)
	assert.Equal(t, uint8(255), center.A)
}

// regionBrightness sums R+G+B over the top-left square of the frame.
func regionBrightness(img *image.RGBA, size int) float64 {
	var sum float64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := img.RGBAAt(x, y)
			sum += float64(c.R) + float64(c.G) + float64(c.B)
		}
	}
	return sum
}

// Gamma correction raises graticule color and coverage to the 2.2 power,
// dimming every partially covered pixel; LinearOutput skips it. Over a black
// frame only the graticule lights the scope square, so the linear render must
// be strictly brighter there.
func TestLinearOutputSkipsGammaDimming(t *testing.T) {
	src := solidFrame(320, 320, color.RGBA{0, 0, 0, 255})

	cfg := DefaultConfig()
	cfg.PositionX = 0
	cfg.PositionY = 0
	cfg.UIOpacity = 1

	cfg.LinearOutput = false
	gamma := NewPipeline(cfg).Render(src)

	cfg.LinearOutput = true
	linear := NewPipeline(cfg).Render(src)

	sumGamma := regionBrightness(gamma, histogram.GridSize)
	sumLinear := regionBrightness(linear, histogram.GridSize)
	require.Greater(t, sumGamma, 0.0)
	assert.Greater(t, sumLinear, sumGamma)

	// Pixels outside the scope square are identical either way.
	assert.Equal(t, gamma.RGBAAt(310, 310), linear.RGBAAt(310, 310))
}

// Stronger graticule opacity both scales the blend and lifts the synthetic
// luma toward white, so the drawn graticule gets strictly brighter.
func TestUIOpacityLiftsGraticule(t *testing.T) {
	src := solidFrame(320, 320, color.RGBA{0, 0, 0, 255})

	cfg := DefaultConfig()
	cfg.PositionX = 0
	cfg.PositionY = 0
	cfg.LinearOutput = true

	cfg.UIOpacity = 0.2
	dim := NewPipeline(cfg).Render(src)

	cfg.UIOpacity = 0.9
	bright := NewPipeline(cfg).Render(src)

	assert.Greater(t,
		regionBrightness(bright, histogram.GridSize),
		regionBrightness(dim, histogram.GridSize))
}

func TestSetConfigRebuildsOnStandardChange(t *testing.T) {
	pipe := NewPipeline(DefaultConfig())
	assert.Equal(t, chroma.BT601, pipe.Config().Standard)

	cfg := pipe.Config()
	cfg.Standard = chroma.BT709
	cfg.Brightness = 4000
	pipe.SetConfig(cfg)

	assert.Equal(t, chroma.BT709, pipe.Config().Standard)
	assert.Equal(t, 1024, pipe.Config().Brightness)

	// Still renders after the rebuild.
	out := pipe.Render(solidFrame(64, 64, color.RGBA{0, 255, 0, 255}))
	assert.NotNil(t, out)
}
