// Package panels provides the scope control panel.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"vectorscope/internal/app"
	"vectorscope/internal/chroma"
	"vectorscope/internal/overlay"
	"vectorscope/internal/scope"
)

// ControlPanel exposes every pipeline knob as a live control.
type ControlPanel struct {
	state     *app.State
	container fyne.CanvasObject
}

// NewControlPanel builds the panel for the given application state.
func NewControlPanel(state *app.State) *ControlPanel {
	cp := &ControlPanel{state: state}
	cp.buildUI()
	return cp
}

// Container returns the panel's root object.
func (cp *ControlPanel) Container() fyne.CanvasObject {
	return cp.container
}

// update mutates one config field and pushes the result to the state.
func (cp *ControlPanel) update(mutate func(*scope.Config)) {
	cfg := cp.state.Config()
	mutate(&cfg)
	cp.state.SetConfig(cfg)
}

func (cp *ControlPanel) buildUI() {
	cfg := cp.state.Config()

	// Histogram brightness
	brightLabel := widget.NewLabel(fmt.Sprintf("Brightness: %d", cfg.Brightness))
	brightSlider := widget.NewSlider(1, 1024)
	brightSlider.Value = float64(cfg.Brightness)
	brightSlider.OnChanged = func(v float64) {
		brightLabel.SetText(fmt.Sprintf("Brightness: %d", int(v)))
		cp.update(func(c *scope.Config) { c.Brightness = int(v) })
	}

	// Graticule opacity
	opacityLabel := widget.NewLabel(fmt.Sprintf("Graticule: %.2f", cfg.UIOpacity))
	opacitySlider := widget.NewSlider(0, 1)
	opacitySlider.Step = 0.01
	opacitySlider.Value = cfg.UIOpacity
	opacitySlider.OnChanged = func(v float64) {
		opacityLabel.SetText(fmt.Sprintf("Graticule: %.2f", v))
		cp.update(func(c *scope.Config) { c.UIOpacity = v })
	}

	// Background transparency
	bgLabel := widget.NewLabel(fmt.Sprintf("Background: %.2f", cfg.BackgroundAlpha))
	bgSlider := widget.NewSlider(0.5, 1)
	bgSlider.Step = 0.01
	bgSlider.Value = cfg.BackgroundAlpha
	bgSlider.OnChanged = func(v float64) {
		bgLabel.SetText(fmt.Sprintf("Background: %.2f", v))
		cp.update(func(c *scope.Config) { c.BackgroundAlpha = v })
	}

	// Placement
	posXSlider := widget.NewSlider(0, 1)
	posXSlider.Step = 0.001
	posXSlider.Value = cfg.PositionX
	posXSlider.OnChanged = func(v float64) {
		cp.update(func(c *scope.Config) { c.PositionX = v })
	}

	posYSlider := widget.NewSlider(0, 1)
	posYSlider.Step = 0.001
	posYSlider.Value = cfg.PositionY
	posYSlider.OnChanged = func(v float64) {
		cp.update(func(c *scope.Config) { c.PositionY = v })
	}

	zoomSlider := widget.NewSlider(0, 1)
	zoomSlider.Step = 0.01
	zoomSlider.Value = cfg.Zoom
	zoomSlider.OnChanged = func(v float64) {
		cp.update(func(c *scope.Config) { c.Zoom = v })
	}

	// Chroma standard
	standardSelect := widget.NewSelect(
		[]string{chroma.BT601.String(), chroma.BT709.String()},
		func(selected string) {
			std, err := chroma.ParseStandard(selected)
			if err != nil {
				return
			}
			cp.update(func(c *scope.Config) { c.Standard = std })
		})
	standardSelect.SetSelected(cfg.Standard.String())

	// Graticule renderer
	modeSelect := widget.NewSelect(
		[]string{overlay.ModePrecise.String(), overlay.ModeFast.String()},
		func(selected string) {
			mode, err := overlay.ParseMode(selected)
			if err != nil {
				return
			}
			cp.update(func(c *scope.Config) { c.OverlayMode = mode })
		})
	modeSelect.SetSelected(cfg.OverlayMode.String())

	checkerCheck := widget.NewCheck("Checkerboard sampling", func(checked bool) {
		cp.update(func(c *scope.Config) { c.Checkerboard = checked })
	})
	checkerCheck.Checked = cfg.Checkerboard

	linearCheck := widget.NewCheck("Linear output (skip gamma)", func(checked bool) {
		cp.update(func(c *scope.Config) { c.LinearOutput = checked })
	})
	linearCheck.Checked = cfg.LinearOutput

	displayCard := widget.NewCard("Display", "",
		container.NewVBox(
			container.NewHBox(brightLabel), brightSlider,
			container.NewHBox(opacityLabel), opacitySlider,
			container.NewHBox(bgLabel), bgSlider,
		),
	)

	placementCard := widget.NewCard("Placement", "",
		container.NewVBox(
			widget.NewLabel("Horizontal"), posXSlider,
			widget.NewLabel("Vertical"), posYSlider,
			widget.NewLabel("Zoom"), zoomSlider,
		),
	)

	analysisCard := widget.NewCard("Analysis", "",
		container.NewVBox(
			widget.NewLabel("Standard"), standardSelect,
			widget.NewLabel("Graticule renderer"), modeSelect,
			checkerCheck,
			linearCheck,
		),
	)

	cp.container = container.NewVScroll(container.NewVBox(
		displayCard,
		placementCard,
		analysisCard,
	))
}
