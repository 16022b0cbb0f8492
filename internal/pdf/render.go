package pdf

import (
	"errors"
	"image"
	"sync"
)

// ViewportState describes the currently rendered page.
type ViewportState struct {
	PageIndex    int
	DisplayScale float64
	RasterWidth  int
	RasterHeight int
}

// RenderResult is the output of a single render request.
type RenderResult struct {
	Viewport ViewportState
	Raster   *image.RGBA
	Seq      uint64
}

// Renderer rasterizes document pages at a scale that fits a container width.
//
// Requests are numbered. A render that finished while a newer request was
// already issued is stale; its result must be discarded instead of
// overwriting the newer target state. The renderer itself is stateless apart
// from the sequence counter, so renders may run on any goroutine.
type Renderer struct {
	mu   sync.Mutex
	last uint64
}

// Begin issues a new request number, superseding all earlier requests.
func (r *Renderer) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	return r.last
}

// Current reports whether seq is still the newest issued request.
func (r *Renderer) Current(seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return seq == r.last
}

// Render rasterizes the given page fitted to containerWidthPx and tags the
// result with seq. It fetches the page's intrinsic size, computes
// displayScale = containerWidthPx / naturalWidth and produces a raster of
// naturalWidth*scale x naturalHeight*scale pixels.
//
// The preview is best-effort: images and filled rectangles are drawn, text
// is greeked as light bars. Fidelity beyond that is not needed for
// positioning the overlay.
func (r *Renderer) Render(doc *Document, pageIndex int, containerWidthPx float64, seq uint64) (*RenderResult, error) {
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if containerWidthPx <= 0 {
		return nil, errors.New("container width must be positive")
	}

	naturalW, naturalH, err := doc.PageSize(pageIndex)
	if err != nil {
		return nil, err
	}
	if naturalW <= 0 || naturalH <= 0 {
		return nil, errors.New("page has no usable media box")
	}

	scale := containerWidthPx / naturalW
	page, err := doc.Page(pageIndex)
	if err != nil {
		return nil, err
	}

	raster := rasterizePage(page, naturalW, naturalH, scale)
	return &RenderResult{
		Viewport: ViewportState{
			PageIndex:    pageIndex,
			DisplayScale: scale,
			RasterWidth:  raster.Bounds().Dx(),
			RasterHeight: raster.Bounds().Dy(),
		},
		Raster: raster,
		Seq:    seq,
	}, nil
}

// ClampPage limits a 1-based page index to [1, pageCount].
func ClampPage(index, pageCount int) int {
	if index < 1 {
		return 1
	}
	if index > pageCount {
		return pageCount
	}
	return index
}
