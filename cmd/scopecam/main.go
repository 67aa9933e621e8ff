// Command scopecam renders a live vectorscope over a camera feed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gocv.io/x/gocv"

	"vectorscope/internal/chroma"
	"vectorscope/internal/frame"
	"vectorscope/internal/overlay"
	"vectorscope/internal/scope"
)

func main() {
	device := flag.Int("device", 0, "Camera device index")
	standard := flag.String("standard", "601", "Chroma standard: 601 or 709")
	mode := flag.String("mode", "fast", "Graticule renderer: precise or fast")
	brightness := flag.Int("brightness", 128, "Histogram brightness (1-1024)")
	checker := flag.Bool("checkerboard", true, "Sample alternating pixels")
	flag.Parse()

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

	cfg := scope.DefaultConfig()
	cfg.Standard = std
	cfg.OverlayMode = overlayMode
	cfg.Brightness = *brightness
	cfg.Checkerboard = *checker
	pipe := scope.NewPipeline(cfg)

	capture, err := frame.OpenCapture(*device)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer capture.Close()

	window := gocv.NewWindow("Vectorscope")
	defer window.Close()

	log.Printf("Live scope on camera %d (%s, %s renderer); press Esc to quit",
		*device, std, overlayMode)

	for {
		src, err := capture.Read()
		if err != nil {
			log.Printf("%v", err)
			continue
		}

		out := pipe.Render(src)

		rgba, err := gocv.ImageToMatRGBA(out)
		if err != nil {
			log.Printf("Failed to convert output: %v", err)
			continue
		}
		bgr := gocv.NewMat()
		gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
		window.IMShow(bgr)
		bgr.Close()
		rgba.Close()

		if window.WaitKey(1) == 27 {
			return
		}
	}
}
