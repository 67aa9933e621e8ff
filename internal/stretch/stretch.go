// Package stretch applies the horizontal stretch remap that ships next to
// the scope: a plain coordinate rescale with nearest-pixel snapping.
package stretch

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

const (
	minFactor = 0.25
	maxFactor = 4.0
)

// Apply widens or narrows a frame horizontally by the given factor. Source
// coordinates snap to the nearest pixel; height is unchanged.
func Apply(src *image.RGBA, factor float64) *image.RGBA {
	if factor < minFactor {
		factor = minFactor
	}
	if factor > maxFactor {
		factor = maxFactor
	}

	bounds := src.Bounds()
	w := int(float64(bounds.Dx())*factor + 0.5)
	if w < 1 {
		w = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, w, bounds.Dy()))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), src, bounds, xdraw.Src, nil)
	return out
}
