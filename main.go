// Package main provides the entry point for the PDF Stamper application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"pdf-stamper/internal/app"
	"pdf-stamper/ui/mainwindow"
	"pdf-stamper/ui/prefs"
)

const (
	appID      = "io.pdfstamper.app"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting pdf-stamper v%s", appVersion)

	appPrefs := prefs.Load()
	translator := app.NewTranslator(appPrefs.Language())
	session := app.NewSession()

	fyneApp := fyneapp.NewWithID(appID)
	win := mainwindow.New(fyneApp, session, appPrefs, translator)

	// Files named on the command line are opened as if dropped.
	for _, path := range os.Args[1:] {
		win.Open(path)
	}

	win.Window().ShowAndRun()

	if err := appPrefs.SaveIfChanged(); err != nil {
		log.Printf("Saving preferences: %v", err)
	}
}
