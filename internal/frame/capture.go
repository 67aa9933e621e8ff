package frame

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Capture delivers live camera frames as RGBA images. The underlying
// buffer is reused between reads; a Capture is not safe for concurrent use.
type Capture struct {
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// OpenCapture opens a camera device by index.
func OpenCapture(device int) (*Capture, error) {
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", device, err)
	}
	return &Capture{cap: cap, mat: gocv.NewMat()}, nil
}

// Read grabs the next frame.
func (c *Capture) Read() (*image.RGBA, error) {
	if ok := c.cap.Read(&c.mat); !ok {
		return nil, fmt.Errorf("camera read failed")
	}
	if c.mat.Empty() {
		return nil, fmt.Errorf("camera delivered an empty frame")
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return ToRGBA(img), nil
}

// Close releases the device and scratch buffers.
func (c *Capture) Close() error {
	if err := c.mat.Close(); err != nil {
		return err
	}
	return c.cap.Close()
}
