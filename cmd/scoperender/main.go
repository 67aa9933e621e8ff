// Command scoperender renders the vectorscope over an input image and
// writes the result as PNG.
package main

import (
	"flag"
	"fmt"
	"os"

	"vectorscope/internal/chroma"
	"vectorscope/internal/frame"
	"vectorscope/internal/overlay"
	"vectorscope/internal/scope"
	"vectorscope/internal/stretch"
)

func main() {
	imagePath := flag.String("image", "", "Path to input image (PNG, JPEG, or TIFF)")
	outPath := flag.String("out", "vectorscope.png", "Output PNG path")
	standard := flag.String("standard", "601", "Chroma standard: 601 or 709")
	mode := flag.String("mode", "precise", "Graticule renderer: precise or fast")
	brightness := flag.Int("brightness", 128, "Histogram brightness (1-1024)")
	posX := flag.Float64("posx", 0.988, "Horizontal placement (0-1)")
	posY := flag.Float64("posy", 0.977, "Vertical placement (0-1)")
	zoom := flag.Float64("zoom", 0, "Zoom toward centered full-screen (0-1)")
	opacity := flag.Float64("opacity", 0.22, "Graticule opacity (0-1)")
	bgAlpha := flag.Float64("bg", 0.99, "Background transparency (0.5-1)")
	checker := flag.Bool("checkerboard", false, "Sample alternating pixels")
	linear := flag.Bool("linear", false, "Linear output pipeline (skip gamma)")
	stretchBy := flag.Float64("stretch", 1, "Horizontal stretch factor applied first")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: scoperender -image <path> [-out vectorscope.png]")
		os.Exit(1)
	}

	std, err := chroma.ParseStandard(*standard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	overlayMode, err := overlay.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	src, err := frame.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := src.Bounds()
	fmt.Printf("Loaded %s: %dx%d pixels\n", *imagePath, bounds.Dx(), bounds.Dy())

	if *stretchBy != 1 {
		src = stretch.Apply(src, *stretchBy)
		fmt.Printf("Stretched to %dx%d\n", src.Bounds().Dx(), src.Bounds().Dy())
	}

	cfg := scope.DefaultConfig()
	cfg.Standard = std
	cfg.OverlayMode = overlayMode
	cfg.Brightness = *brightness
	cfg.PositionX = *posX
	cfg.PositionY = *posY
	cfg.Zoom = *zoom
	cfg.UIOpacity = *opacity
	cfg.BackgroundAlpha = *bgAlpha
	cfg.Checkerboard = *checker
	cfg.LinearOutput = *linear

	pipe := scope.NewPipeline(cfg)
	out := pipe.Render(src)

	ix, iy, peak := pipe.Buffer().Peak()
	fmt.Printf("Standard: %s, renderer: %s\n", std, overlayMode)
	fmt.Printf("Histogram total: %.3f, peak %.3f at cell (%d,%d)\n",
		pipe.Buffer().Total(), peak, ix, iy)

	if err := frame.SavePNG(*outPath, out); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
