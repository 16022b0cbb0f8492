package app

import (
	"errors"

	"pdf-stamper/internal/export"
	"pdf-stamper/internal/pdf"
)

// User-facing error kinds. Every failure surfaced to the UI maps to exactly
// one of these; the session keeps a single error slot where the newest one
// replaces the previous.
var (
	ErrInvalidPDFType       = errors.New("dropped file is not a PDF")
	ErrInvalidImageType     = errors.New("dropped file is not an image")
	ErrImageProcessing      = errors.New("image preprocessing failed")
	ErrMissingInputs        = errors.New("both a PDF and an image are required")
	ErrUnsupportedImageType = errors.New("only PNG and JPEG images can be merged")
	ErrMergeFailed          = errors.New("merging the document failed")
)

// MessageKey maps an error to its translation catalog ID. Unknown errors
// fall back to the generic merge failure message.
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPDFType), errors.Is(err, pdf.ErrInvalidPDF):
		return "errorInvalidPdf"
	case errors.Is(err, ErrInvalidImageType):
		return "errorInvalidImageType"
	case errors.Is(err, ErrImageProcessing):
		return "errorImageProcessing"
	case errors.Is(err, ErrMissingInputs):
		return "errorMissingInputs"
	case errors.Is(err, ErrUnsupportedImageType), errors.Is(err, export.ErrUnsupportedImageType):
		return "errorUnsupportedImageType"
	default:
		return "errorMergeFailed"
	}
}
