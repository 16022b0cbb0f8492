// Package mainwindow assembles the application window and wires the session
// to the widgets.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	appstate "pdf-stamper/internal/app"
	"pdf-stamper/internal/overlay"
	"pdf-stamper/internal/pdf"
	uicanvas "pdf-stamper/ui/canvas"
	"pdf-stamper/ui/prefs"
)

// MainWindow owns the window, its widgets, and their bindings to the session.
type MainWindow struct {
	fyneApp fyne.App
	win     fyne.Window
	session *appstate.Session
	prefs   *prefs.Prefs
	tr      *appstate.Translator

	ctrl     *overlay.Controller
	pageView *uicanvas.PageView

	pageLabel   *widget.Label
	prevButton  *widget.Button
	nextButton  *widget.Button
	openPdfBtn  *widget.Button
	openImgBtn  *widget.Button
	mergeButton *widget.Button
	resetButton *widget.Button
	removeBgChk *widget.Check
	darkChk     *widget.Check
	langSelect  *widget.Select
	status      *widget.Label
}

// New builds the main window for the given session.
func New(fyneApp fyne.App, session *appstate.Session, p *prefs.Prefs, tr *appstate.Translator) *MainWindow {
	mw := &MainWindow{
		fyneApp: fyneApp,
		session: session,
		prefs:   p,
		tr:      tr,
	}
	mw.win = fyneApp.NewWindow(tr.T("appTitle"))

	mw.ctrl = overlay.NewController(session.CommitOverlay)
	mw.pageView = uicanvas.NewPageView(mw.ctrl)
	mw.pageView.OnWidthChange(mw.renderAt)

	mw.buildWidgets()
	mw.wireSession()
	mw.win.SetOnDropped(mw.handleDrop)
	mw.win.SetOnClosed(func() {
		mw.pageView.Teardown()
		if err := p.SaveIfChanged(); err != nil {
			log.Printf("Saving preferences: %v", err)
		}
	})
	mw.win.SetContent(mw.layout())
	mw.win.Resize(fyne.NewSize(900, 700))
	mw.applyTheme(p.Theme())
	return mw
}

// Window returns the underlying fyne window.
func (mw *MainWindow) Window() fyne.Window {
	return mw.win
}

func (mw *MainWindow) buildWidgets() {
	tr := mw.tr
	mw.pageLabel = widget.NewLabel("")
	mw.prevButton = widget.NewButton("<", func() { mw.navigate(-1) })
	mw.nextButton = widget.NewButton(">", func() { mw.navigate(1) })
	mw.resetButton = widget.NewButton(tr.T("labelReset"), func() {
		mw.ctrl.Reset()
		mw.pageView.Refresh()
	})
	mw.mergeButton = widget.NewButton(tr.T("labelMerge"), mw.mergeAndSave)
	mw.openPdfBtn = widget.NewButton(tr.T("labelDropPdf"), mw.pickPdf)
	mw.openImgBtn = widget.NewButton(tr.T("labelDropImage"), mw.pickImage)
	mw.removeBgChk = widget.NewCheck(tr.T("labelRemoveBackground"), mw.session.SetRemoveBackground)
	mw.darkChk = widget.NewCheck(tr.T("labelDarkTheme"), func(on bool) {
		name := prefs.ThemeLight
		if on {
			name = prefs.ThemeDark
		}
		mw.prefs.SetTheme(name)
		mw.applyTheme(name)
	})
	mw.darkChk.SetChecked(mw.prefs.Theme() == prefs.ThemeDark)
	mw.langSelect = widget.NewSelect([]string{"en", "de"}, func(tag string) {
		if tag == mw.prefs.Language() {
			return
		}
		mw.prefs.SetLanguage(tag)
		mw.tr = appstate.NewTranslator(tag)
		mw.refreshTexts()
	})
	mw.langSelect.SetSelected(mw.prefs.Language())
	mw.status = widget.NewLabel("")
	mw.status.Wrapping = fyne.TextWrapWord
}

// refreshTexts re-applies translated labels after a language change.
func (mw *MainWindow) refreshTexts() {
	tr := mw.tr
	mw.win.SetTitle(tr.T("appTitle"))
	mw.resetButton.SetText(tr.T("labelReset"))
	mw.mergeButton.SetText(tr.T("labelMerge"))
	mw.openPdfBtn.SetText(tr.T("labelDropPdf"))
	mw.openImgBtn.SetText(tr.T("labelDropImage"))
	mw.removeBgChk.Text = tr.T("labelRemoveBackground")
	mw.removeBgChk.Refresh()
	mw.darkChk.Text = tr.T("labelDarkTheme")
	mw.darkChk.Refresh()
	if mw.session.Document() != nil {
		mw.updatePageLabel()
	}
}

func (mw *MainWindow) layout() fyne.CanvasObject {
	top := container.NewVBox(
		container.NewHBox(mw.openPdfBtn, mw.openImgBtn, mw.removeBgChk, mw.darkChk, mw.langSelect),
		container.NewHBox(mw.prevButton, mw.pageLabel, mw.nextButton, mw.resetButton, mw.mergeButton),
	)
	return container.NewBorder(top, mw.status, nil, nil, container.NewScroll(mw.pageView))
}

// wireSession connects session events to widget updates.
func (mw *MainWindow) wireSession() {
	mw.session.On(appstate.EventError, func(data interface{}) {
		err, _ := data.(error)
		if err == nil {
			return
		}
		log.Printf("Session error: %v", err)
		mw.status.SetText(mw.tr.T(appstate.MessageKey(err)))
	})
	mw.session.On(appstate.EventDocumentLoaded, func(interface{}) {
		mw.status.SetText("")
		mw.updatePageLabel()
		mw.renderAt(float64(mw.pageView.Size().Width))
	})
	mw.session.On(appstate.EventImageLoaded, func(interface{}) {
		mw.status.SetText("")
		mw.ctrl.Reset()
		mw.pageView.SetOverlayImage(mw.session.Preview())
	})
	mw.session.On(appstate.EventExported, func(interface{}) {
		mw.status.SetText(mw.tr.T("statusExported"))
	})
}

// handleDrop routes dropped files by their declared media type.
func (mw *MainWindow) handleDrop(_ fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		mw.openPath(u.Path())
	}
}

// Open loads a file as if it had been dropped on the window.
func (mw *MainWindow) Open(path string) {
	mw.openPath(path)
}

// openPath loads a file as document or overlay image depending on its type.
func (mw *MainWindow) openPath(path string) {
	name := filepath.Base(path)
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Reading %s: %v", path, err)
		dialog.ShowError(err, mw.win)
		return
	}

	if strings.HasPrefix(mimeType, "image/") {
		if mw.session.SetImage(name, mimeType, data) == nil {
			log.Printf("Accepted image %s (%d bytes)", name, len(data))
		}
		return
	}
	go func() {
		if err := mw.session.LoadDocument(context.Background(), name, mimeType, data); err == nil {
			log.Printf("Loaded document %s (%d pages)", name, mw.session.PageCount())
		}
	}()
}

func (mw *MainWindow) pickPdf() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		mw.openPath(path)
	}, mw.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.Show()
}

func (mw *MainWindow) pickImage() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		_ = rc.Close()
		mw.openPath(path)
	}, mw.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif"}))
	fd.Show()
}

// navigate moves pages; moving past either end is a no-op.
func (mw *MainWindow) navigate(delta int) {
	if !mw.session.SetPage(mw.session.PageIndex() + delta) {
		return
	}
	mw.updatePageLabel()
	mw.renderAt(float64(mw.pageView.Size().Width))
}

func (mw *MainWindow) updatePageLabel() {
	mw.pageLabel.SetText(fmt.Sprintf("%s %d / %d", mw.tr.T("labelPage"), mw.session.PageIndex(), mw.session.PageCount()))
}

// renderAt requests a render of the current page fitted to width. Superseded
// results are discarded by the session; only an applied result reaches the
// page view.
func (mw *MainWindow) renderAt(width float64) {
	if mw.session.Document() == nil || width <= 0 {
		return
	}
	go func() {
		res, applied, err := mw.session.RenderPage(width)
		if err != nil {
			log.Printf("Render failed: %v", err)
			return
		}
		if applied {
			mw.applyRender(res)
		}
	}()
}

func (mw *MainWindow) applyRender(res *pdf.RenderResult) {
	mw.pageView.SetPage(res)
	mw.pageView.SetOverlayImage(mw.session.Preview())
}

// mergeAndSave exports the composited document and offers it as a download.
func (mw *MainWindow) mergeAndSave() {
	mw.status.SetText(mw.tr.T("statusProcessing"))
	go func() {
		data, name, err := mw.session.Export(context.Background())
		if err != nil {
			return // the error event already updated the status slot
		}
		mw.offerSave(data, name)
	}()
}

func (mw *MainWindow) offerSave(data []byte, name string) {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if _, err := wc.Write(data); err != nil {
			log.Printf("Writing %s: %v", name, err)
			dialog.ShowError(err, mw.win)
			return
		}
		log.Printf("Saved %s (%d bytes)", name, len(data))
	}, mw.win)
	fd.SetFileName(name)
	fd.Show()
}

// applyTheme installs the theme variant matching the preference.
func (mw *MainWindow) applyTheme(name string) {
	variant := theme.VariantLight
	if name == prefs.ThemeDark {
		variant = theme.VariantDark
	}
	mw.fyneApp.Settings().SetTheme(&appstate.StamperTheme{Variant: variant})
}
