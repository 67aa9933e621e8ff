package scope

import (
	"vectorscope/internal/histogram"
)

// Placement is the on-screen position of the scope square for one frame.
type Placement struct {
	OffsetX float32 // left edge in pixels
	OffsetY float32 // top edge in pixels
	Size    float32 // edge length in pixels
}

// Center returns the scope center in pixels.
func (p Placement) Center() (cx, cy float32) {
	return p.OffsetX + p.Size/2, p.OffsetY + p.Size/2
}

// Radius returns the circular display radius in pixels.
func (p Placement) Radius() float32 {
	return p.Size / 2
}

// PlacementFor interpolates between the corner placement at native size and
// a centered full-screen placement, by the zoom fraction. The result is
// clamped so the square always stays within the frame.
func PlacementFor(width, height int, posX, posY, zoom float64) Placement {
	full := float64(width)
	if float64(height) < full {
		full = float64(height)
	}
	native := float64(histogram.GridSize)
	if native > full {
		native = full
	}

	size := native + (full-native)*zoom

	cornerX := posX * (float64(width) - native)
	cornerY := posY * (float64(height) - native)
	centerX := (float64(width) - full) / 2
	centerY := (float64(height) - full) / 2

	offX := cornerX + (centerX-cornerX)*zoom
	offY := cornerY + (centerY-cornerY)*zoom

	offX = clampFloat(offX, 0, float64(width)-size)
	offY = clampFloat(offY, 0, float64(height)-size)

	return Placement{
		OffsetX: float32(offX),
		OffsetY: float32(offY),
		Size:    float32(size),
	}
}
