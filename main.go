// Command vectorscope is the desktop host: it shows a live vectorscope
// rendered over a loaded image, with sliders for every pipeline knob.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"vectorscope/internal/app"
	"vectorscope/internal/version"
	"vectorscope/ui/mainwindow"
	"vectorscope/ui/prefs"
)

const appTitle = "Vectorscope"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("vectorscope")
	fyneApp.Settings().SetTheme(&app.ScopeTheme{})

	appPrefs := prefs.Load()
	state := app.NewState()
	state.SetConfig(appPrefs.Config())

	win := mainwindow.New(fyneApp, state, appPrefs)

	// An image path on the command line skips the open dialog.
	if len(os.Args) > 1 {
		if err := state.LoadFrame(os.Args[1]); err != nil {
			log.Printf("Failed to load %s: %v", os.Args[1], err)
		}
	}

	win.Show()
	fyneApp.Run()
	win.SavePreferences()
}
