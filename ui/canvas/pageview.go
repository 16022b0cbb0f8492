// Package canvas provides the page view widget: the rendered page raster
// with the draggable, resizable overlay image box on top.
package canvas

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"pdf-stamper/internal/overlay"
	"pdf-stamper/internal/pdf"
	"pdf-stamper/pkg/geometry"
)

// handleSize is the edge length of the bottom-right resize handle in pixels.
const handleSize = 14

// PageView displays the current page raster and owns the pointer and
// keyboard interaction with the overlay box. Geometry decisions are
// delegated to the overlay controller; this widget only translates events.
type PageView struct {
	widget.BaseWidget

	raster     *fynecanvas.Raster
	page       *image.RGBA
	overlayImg image.Image
	ctrl       *overlay.Controller

	dragging  bool
	shiftDown bool
	focused   bool

	// onWidthChange fires when layout gives the widget a new width, so the
	// owner can request a re-render fitted to it.
	onWidthChange func(width float64)
	renderedWidth float32
}

// NewPageView creates a page view bound to the given controller.
func NewPageView(ctrl *overlay.Controller) *PageView {
	pv := &PageView{ctrl: ctrl}
	pv.raster = fynecanvas.NewRaster(pv.draw)
	pv.raster.ScaleMode = fynecanvas.ImageScalePixels
	pv.raster.SetMinSize(fyne.NewSize(400, 300))
	pv.ExtendBaseWidget(pv)
	return pv
}

// OnWidthChange sets the callback invoked when the widget width changes.
func (pv *PageView) OnWidthChange(callback func(width float64)) {
	pv.onWidthChange = callback
}

// SetPage installs a freshly rendered page. The widget resizes itself to the
// raster and re-clamps the overlay box into the new bounds.
func (pv *PageView) SetPage(res *pdf.RenderResult) {
	pv.page = res.Raster
	pv.renderedWidth = float32(res.Viewport.RasterWidth)
	pv.ctrl.SetBounds(float64(res.Viewport.RasterWidth), float64(res.Viewport.RasterHeight))
	pv.raster.SetMinSize(fyne.NewSize(float32(res.Viewport.RasterWidth), float32(res.Viewport.RasterHeight)))
	pv.Refresh()
}

// SetOverlayImage installs the decoded overlay image, or clears it with nil.
func (pv *PageView) SetOverlayImage(img image.Image) {
	pv.overlayImg = img
	pv.Refresh()
}

// Refresh redraws the raster.
func (pv *PageView) Refresh() {
	pv.raster.Refresh()
	pv.BaseWidget.Refresh()
}

// Resize reports width changes upward so the page can be re-rendered to fit.
func (pv *PageView) Resize(size fyne.Size) {
	pv.BaseWidget.Resize(size)
	if pv.onWidthChange == nil || size.Width <= 0 {
		return
	}
	if size.Width != pv.renderedWidth {
		pv.onWidthChange(float64(size.Width))
	}
}

// Dragged routes pointer movement into the controller. The first event of a
// gesture decides between move and resize by hit-testing the gesture origin
// against the resize handle and the box.
func (pv *PageView) Dragged(ev *fyne.DragEvent) {
	if pv.overlayImg == nil || pv.page == nil {
		return
	}
	pos := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))

	if !pv.dragging {
		start := geometry.NewPoint2D(
			float64(ev.Position.X-ev.Dragged.DX),
			float64(ev.Position.Y-ev.Dragged.DY),
		)
		box := pv.ctrl.Box()
		release := func() { pv.dragging = false }
		switch {
		case handleRect(box).Contains(start):
			pv.ctrl.BeginResize(release)
		case box.Contains(start):
			pv.ctrl.BeginMove(start, release)
		default:
			return
		}
		pv.dragging = true
	}

	pv.ctrl.UpdatePointer(pos)
	pv.Refresh()
}

// DragEnd commits the interaction. The controller tolerates duplicate ends,
// so a gesture cancelled by the driver cannot double-commit.
func (pv *PageView) DragEnd() {
	pv.ctrl.End()
	pv.Refresh()
}

// Tapped focuses the widget so arrow keys nudge the overlay.
func (pv *PageView) Tapped(_ *fyne.PointEvent) {
	if c := fyne.CurrentApp().Driver().CanvasForObject(pv); c != nil {
		c.Focus(pv)
	}
}

// FocusGained implements fyne.Focusable.
func (pv *PageView) FocusGained() {
	pv.focused = true
}

// FocusLost ends any in-flight interaction; the pointer may never come back.
func (pv *PageView) FocusLost() {
	pv.focused = false
	pv.shiftDown = false
	if pv.dragging {
		pv.ctrl.End()
		pv.Refresh()
	}
}

// TypedRune implements fyne.Focusable.
func (pv *PageView) TypedRune(_ rune) {}

// TypedKey nudges the overlay with the arrow keys. Shift selects the larger
// step; each key press commits immediately.
func (pv *PageView) TypedKey(ev *fyne.KeyEvent) {
	if pv.overlayImg == nil {
		return
	}
	var dx, dy int
	switch ev.Name {
	case fyne.KeyLeft:
		dx = -1
	case fyne.KeyRight:
		dx = 1
	case fyne.KeyUp:
		dy = -1
	case fyne.KeyDown:
		dy = 1
	default:
		return
	}
	pv.ctrl.Nudge(dx, dy, pv.shiftDown)
	pv.Refresh()
}

// KeyDown implements desktop.Keyable to track the nudge modifier.
func (pv *PageView) KeyDown(ev *fyne.KeyEvent) {
	if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
		pv.shiftDown = true
	}
}

// KeyUp implements desktop.Keyable.
func (pv *PageView) KeyUp(ev *fyne.KeyEvent) {
	if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
		pv.shiftDown = false
	}
}

// CreateRenderer implements fyne.Widget.
func (pv *PageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pv.raster)
}

// Teardown releases interaction state when the owning window goes away.
func (pv *PageView) Teardown() {
	pv.ctrl.Teardown()
}

// draw composes page, overlay image, and the interaction chrome. The
// composition happens at page-raster resolution and is scaled to the backing
// surface, which keeps pointer coordinates aligned on any display scale.
func (pv *PageView) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	if pv.page == nil {
		blank := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
		return blank
	}

	composed := pv.compose()
	if composed.Bounds().Dx() == w && composed.Bounds().Dy() == h {
		return composed
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), composed, composed.Bounds(), xdraw.Src, nil)
	return out
}

// compose renders the page raster with the overlay box on top.
func (pv *PageView) compose() *image.RGBA {
	out := image.NewRGBA(pv.page.Bounds())
	draw.Draw(out, out.Bounds(), pv.page, image.Point{}, draw.Src)

	if pv.overlayImg == nil {
		return out
	}

	box := pv.ctrl.Box()
	target := image.Rect(int(box.X+0.5), int(box.Y+0.5), int(box.Right()+0.5), int(box.Bottom()+0.5))
	xdraw.ApproxBiLinear.Scale(out, target, pv.overlayImg, pv.overlayImg.Bounds(), xdraw.Over, nil)

	drawBoxOutline(out, target)
	drawResizeHandle(out, target, handleSize)
	return out
}

// handleRect returns the hit area of the bottom-right resize handle.
func handleRect(box geometry.Rect) geometry.Rect {
	return geometry.NewRect(box.Right()-handleSize, box.Bottom()-handleSize, handleSize, handleSize)
}
