// Package pdf loads PDF documents and renders page previews at a scale
// fitted to a display container.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wudi/pdfkit/ir"
	"github.com/wudi/pdfkit/ir/semantic"
)

// ErrInvalidPDF is returned when the supplied bytes are not a parseable PDF.
var ErrInvalidPDF = errors.New("not a valid PDF document")

// ErrPageOutOfRange is returned for page indexes outside [1, PageCount].
var ErrPageOutOfRange = errors.New("page index out of range")

// Document is a loaded PDF. The parsed representation backing the preview is
// never mutated; export re-parses the original bytes for its own copy.
type Document struct {
	name string
	data []byte
	sem  *semantic.Document
}

// Load parses the given file bytes into a Document.
func Load(ctx context.Context, name string, data []byte) (*Document, error) {
	sem, err := ir.NewDefault().Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if len(sem.Pages) == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidPDF)
	}
	return &Document{name: name, data: data, sem: sem}, nil
}

// Name returns the file name the document was loaded from.
func (d *Document) Name() string {
	return d.name
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.sem.Pages)
}

// Page returns the parsed page for a 1-based index.
func (d *Document) Page(index int) (*semantic.Page, error) {
	if index < 1 || index > len(d.sem.Pages) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, index, len(d.sem.Pages))
	}
	return d.sem.Pages[index-1], nil
}

// PageSize returns the intrinsic size of a page in points. Pages rotated by
// 90 or 270 degrees report swapped width and height.
func (d *Document) PageSize(index int) (width, height float64, err error) {
	page, err := d.Page(index)
	if err != nil {
		return 0, 0, err
	}
	width = page.MediaBox.URX - page.MediaBox.LLX
	height = page.MediaBox.URY - page.MediaBox.LLY
	rot := ((page.Rotate % 360) + 360) % 360
	if rot == 90 || rot == 270 {
		width, height = height, width
	}
	return width, height, nil
}

// Reopen parses the original bytes again, producing an independent document
// the caller may mutate without invalidating the preview.
func (d *Document) Reopen(ctx context.Context) (*semantic.Document, error) {
	return ir.NewDefault().Parse(ctx, bytes.NewReader(d.data))
}
