// Package scope runs the per-frame vectorscope pipeline: accumulate the
// source frame into the chroma histogram, then composite the scope display
// and graticule over the frame.
package scope

import (
	"vectorscope/internal/chroma"
	"vectorscope/internal/overlay"
)

// Config holds every knob of the pipeline. Standard and OverlayMode are
// fixed for the lifetime of a configuration; the scalar values may change
// between frames but never mid-frame.
type Config struct {
	// Standard selects the chroma matrix coefficients.
	Standard chroma.Standard

	// OverlayMode selects the graticule renderer.
	OverlayMode overlay.Mode

	// Brightness scales histogram energy. Integer in [1, 1024].
	Brightness int

	// PositionX, PositionY place the scope when zoomed out, in [0,1]
	// screen fractions. Zoom interpolates toward centered full-screen.
	PositionX float64
	PositionY float64
	Zoom      float64

	// UIOpacity is the graticule blend strength in [0,1]; it also lifts
	// the synthetic display luma toward white.
	UIOpacity float64

	// BackgroundAlpha is the scope-over-background transparency in [0.5,1].
	BackgroundAlpha float64

	// Checkerboard halves accumulation work by sampling alternating pixels.
	Checkerboard bool

	// LinearOutput skips gamma correction of the graticule for 10-bit or
	// linear display pipelines.
	LinearOutput bool

	// Workers caps pipeline parallelism; 0 means runtime.NumCPU().
	Workers int
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Standard:        chroma.BT601,
		OverlayMode:     overlay.ModePrecise,
		Brightness:      128,
		PositionX:       0.988,
		PositionY:       0.977,
		Zoom:            0.0,
		UIOpacity:       0.22,
		BackgroundAlpha: 0.99,
	}
}

// Clamped returns the configuration with every scalar forced into its
// documented range. Out-of-range values are a caller mistake, not an error.
func (c Config) Clamped() Config {
	c.Brightness = clampInt(c.Brightness, 1, 1024)
	c.PositionX = clampFloat(c.PositionX, 0, 1)
	c.PositionY = clampFloat(c.PositionY, 0, 1)
	c.Zoom = clampFloat(c.Zoom, 0, 1)
	c.UIOpacity = clampFloat(c.UIOpacity, 0, 1)
	c.BackgroundAlpha = clampFloat(c.BackgroundAlpha, 0.5, 1)
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
