// Package mainwindow provides the main application window.
package mainwindow

import (
	"image"
	"log"
	"path/filepath"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"vectorscope/internal/app"
	"vectorscope/internal/frame"
	"vectorscope/internal/scope"
	"vectorscope/ui/panels"
	"vectorscope/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	display   *fynecanvas.Image
	statusBar *widget.Label

	renders *renderQueue
}

// New creates the main window wired to the application state.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Vectorscope")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}
	mw.renders = newRenderQueue(mw.renderOnce)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	win.Resize(fyne.NewSize(1280, 800))

	return mw
}

func (mw *MainWindow) setupUI() {
	mw.display = fynecanvas.NewImageFromImage(nil)
	mw.display.FillMode = fynecanvas.ImageFillContain
	mw.display.SetMinSize(fyne.NewSize(640, 480))

	controls := panels.NewControlPanel(mw.state)
	mw.statusBar = widget.NewLabel("Open an image to begin")

	content := container.NewBorder(
		nil, mw.statusBar, nil, controls.Container(),
		mw.display,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.openImage),
		fyne.NewMenuItem("Save Output...", mw.saveOutput),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventFrameLoaded, func(data interface{}) {
		if path, ok := data.(string); ok && path != "" {
			mw.statusBar.SetText("Loaded " + filepath.Base(path))
		}
		mw.requestRender()
	})

	mw.state.On(app.EventConfigChanged, func(data interface{}) {
		if cfg, ok := data.(scope.Config); ok {
			mw.prefs.SetConfig(cfg)
		}
		mw.requestRender()
	})
}

// requestRender coalesces slider storms into the render queue: one render
// at a time, with a final one for the last request of a drag.
func (mw *MainWindow) requestRender() {
	mw.renders.request()
}

func (mw *MainWindow) renderOnce() {
	out, err := mw.state.Render()
	if err != nil {
		return
	}
	mw.showImage(out)
}

func (mw *MainWindow) showImage(img image.Image) {
	mw.display.Image = img
	mw.display.Refresh()
}

func (mw *MainWindow) openImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if err := mw.state.LoadFrame(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.Values.LastDirectory = filepath.Dir(path)
		mw.prefs.Values.LastImage = path
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}))
	if dir := mw.prefs.Values.LastDirectory; dir != "" {
		if uri, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(uri)
		}
	}
	fd.Show()
}

func (mw *MainWindow) saveOutput() {
	out := mw.state.Rendered()
	if out == nil {
		dialog.ShowInformation("Nothing to save", "Render a frame first.", mw.Window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()

		if err := frame.SavePNG(path, out); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText("Saved " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("vectorscope.png")
	fd.Show()
}

// SavePreferences persists the UI state; called on shutdown.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}
