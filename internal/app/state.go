// Package app provides the session state, events, and user-facing error
// handling that tie the document, overlay, and export components together.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	goimage "image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"pdf-stamper/internal/export"
	"pdf-stamper/internal/imaging"
	"pdf-stamper/internal/overlay"
	"pdf-stamper/internal/pdf"
	"pdf-stamper/pkg/geometry"
)

// EventType identifies different session events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventImageLoaded
	EventPageRendered
	EventOverlayCommitted
	EventError
	EventExported
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session holds everything a single user session owns: the loaded document,
// the accepted overlay image, the committed overlay geometry, and the single
// user-visible error slot. Replacing the document or the image releases the
// previous one wholesale; nothing is mutated in place.
type Session struct {
	mu sync.RWMutex

	doc       *pdf.Document
	renderer  *pdf.Renderer
	viewport  pdf.ViewportState
	raster    *goimage.RGBA
	pageIndex int

	imageData []byte
	imageMIME string
	preview   goimage.Image // decoded display handle for the overlay image

	overlay          geometry.Rect
	removeBackground bool

	lastErr error

	listeners map[EventType][]EventListener
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		renderer:  &pdf.Renderer{},
		overlay:   overlay.Default(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadDocument validates and parses a dropped PDF. On failure the previous
// document stays in place and the error is surfaced.
func (s *Session) LoadDocument(ctx context.Context, name, mimeType string, data []byte) error {
	if mimeType != "application/pdf" {
		return s.fail(fmt.Errorf("%w: %s is %q", ErrInvalidPDFType, name, mimeType))
	}

	doc, err := pdf.Load(ctx, name, data)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.doc = doc
	s.pageIndex = 1
	s.viewport = pdf.ViewportState{}
	s.raster = nil
	s.lastErr = nil
	s.mu.Unlock()

	s.Emit(EventDocumentLoaded, doc)
	return nil
}

// SetImage validates and accepts a dropped overlay image, optionally running
// the background-removal preprocessor. Accepting an image resets the overlay
// geometry to its defaults and replaces the previous preview handle.
func (s *Session) SetImage(name, mimeType string, data []byte) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return s.fail(fmt.Errorf("%w: %s is %q", ErrInvalidImageType, name, mimeType))
	}

	s.mu.RLock()
	removeBg := s.removeBackground
	s.mu.RUnlock()

	if removeBg {
		processed, err := imaging.RemoveBackground(data)
		if err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrImageProcessing, err))
		}
		data = processed
		mimeType = "image/png"
	}

	preview, _, err := goimage.Decode(bytes.NewReader(data))
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", ErrInvalidImageType, err))
	}

	s.mu.Lock()
	s.imageData = data
	s.imageMIME = mimeType
	s.preview = preview
	s.overlay = overlay.Default()
	s.lastErr = nil
	s.mu.Unlock()

	s.Emit(EventImageLoaded, preview)
	return nil
}

// ClearImage drops the overlay image and its preview handle.
func (s *Session) ClearImage() {
	s.mu.Lock()
	s.imageData = nil
	s.imageMIME = ""
	s.preview = nil
	s.mu.Unlock()
	s.Emit(EventImageLoaded, nil)
}

// SetRemoveBackground toggles the preprocessing step for future images.
func (s *Session) SetRemoveBackground(on bool) {
	s.mu.Lock()
	s.removeBackground = on
	s.mu.Unlock()
}

// RemoveBackground reports whether preprocessing is enabled.
func (s *Session) RemoveBackground() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.removeBackground
}

// Document returns the loaded document, or nil.
func (s *Session) Document() *pdf.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Preview returns the decoded overlay image, or nil.
func (s *Session) Preview() goimage.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// PageIndex returns the current 1-based page index (0 when no document).
func (s *Session) PageIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0
	}
	return s.pageIndex
}

// PageCount returns the number of pages (0 when no document).
func (s *Session) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return 0
	}
	return s.doc.PageCount()
}

// SetPage moves to the given page, clamped to the document. It reports
// whether the index actually changed; navigating past either end is a no-op.
func (s *Session) SetPage(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return false
	}
	clamped := pdf.ClampPage(index, s.doc.PageCount())
	if clamped == s.pageIndex {
		return false
	}
	s.pageIndex = clamped
	return true
}

// NextPage advances one page if possible.
func (s *Session) NextPage() bool { return s.SetPage(s.PageIndex() + 1) }

// PrevPage goes back one page if possible.
func (s *Session) PrevPage() bool { return s.SetPage(s.PageIndex() - 1) }

// RenderPage renders the current page fitted to containerWidth. The result
// is applied to the session's viewport only if no newer render was requested
// in the meantime; superseded results are discarded silently and applied is
// false. Safe to call from any goroutine.
func (s *Session) RenderPage(containerWidth float64) (res *pdf.RenderResult, applied bool, err error) {
	s.mu.RLock()
	doc := s.doc
	pageIndex := s.pageIndex
	s.mu.RUnlock()

	seq := s.renderer.Begin()
	res, err = s.renderer.Render(doc, pageIndex, containerWidth, seq)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if !s.renderer.Current(res.Seq) {
		s.mu.Unlock()
		return res, false, nil
	}
	s.viewport = res.Viewport
	s.raster = res.Raster
	s.mu.Unlock()

	s.Emit(EventPageRendered, res)
	return res, true, nil
}

// Viewport returns the state of the most recent applied render.
func (s *Session) Viewport() pdf.ViewportState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

// Raster returns the most recent applied page raster, or nil.
func (s *Session) Raster() *goimage.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raster
}

// CommitOverlay stores the committed overlay geometry. Commits arrive in
// interaction order from the controller; each is propagated exactly once.
func (s *Session) CommitOverlay(box geometry.Rect) {
	s.mu.Lock()
	s.overlay = box
	s.mu.Unlock()
	s.Emit(EventOverlayCommitted, box)
}

// Overlay returns the last committed overlay geometry.
func (s *Session) Overlay() geometry.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay
}

// Export merges the committed overlay into the current page and returns the
// document bytes together with the suggested output file name. The viewport
// scale and page index are captured at the moment of the call and used once.
func (s *Session) Export(ctx context.Context) ([]byte, string, error) {
	s.mu.RLock()
	doc := s.doc
	req := export.Request{
		PageIndex: s.pageIndex,
		Overlay:   s.overlay,
		Scale:     s.viewport.DisplayScale,
		ImageData: s.imageData,
		ImageMIME: s.imageMIME,
	}
	s.mu.RUnlock()

	if doc == nil || len(req.ImageData) == 0 {
		return nil, "", s.fail(ErrMissingInputs)
	}

	out, err := export.Merge(ctx, doc, req)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedImageType) {
			return nil, "", s.fail(err)
		}
		return nil, "", s.fail(fmt.Errorf("%w: %v", ErrMergeFailed, err))
	}

	name := "merged-" + doc.Name()
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	s.Emit(EventExported, name)
	return out, name, nil
}

// Err returns the current user-visible error, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError empties the error slot.
func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

// fail installs err in the single error slot, replacing any previous one,
// and notifies listeners. The session stays usable after any failure.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.Emit(EventError, err)
	return err
}
