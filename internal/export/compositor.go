// Package export merges the positioned overlay image into a copy of the PDF
// document and serializes the result.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"

	"pdf-stamper/internal/pdf"
	"pdf-stamper/pkg/geometry"
)

// ErrUnsupportedImageType is returned for images that are neither PNG nor JPEG.
var ErrUnsupportedImageType = errors.New("image must be PNG or JPEG")

// ErrEmbedFailed is returned when the image bytes cannot be embedded.
var ErrEmbedFailed = errors.New("embedding image failed")

// Request captures one export invocation. Overlay geometry and scale are the
// values committed at the moment the export was triggered.
type Request struct {
	PageIndex int
	Overlay   geometry.Rect // display pixels, top-left origin
	Scale     float64       // displayScale of the viewport the overlay was placed in
	ImageData []byte
	ImageMIME string
}

// Merge draws the overlay image onto the requested page and returns the
// serialized document. The viewing document is left untouched: the original
// bytes are parsed again and only that copy is mutated.
func Merge(ctx context.Context, doc *pdf.Document, req Request) ([]byte, error) {
	if req.ImageMIME != "image/png" && req.ImageMIME != "image/jpeg" {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedImageType, req.ImageMIME)
	}
	if req.Scale <= 0 {
		return nil, fmt.Errorf("viewport scale must be positive, got %v", req.Scale)
	}

	out, err := doc.Reopen(ctx)
	if err != nil {
		return nil, err
	}
	if req.PageIndex < 1 || req.PageIndex > len(out.Pages) {
		return nil, fmt.Errorf("%w: %d of %d", pdf.ErrPageOutOfRange, req.PageIndex, len(out.Pages))
	}
	page := out.Pages[req.PageIndex-1]

	xobj, err := embedImage(req.ImageData, req.ImageMIME)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedFailed, err)
	}

	rect := ToPointSpace(req.Overlay, req.Scale, page.MediaBox.URY-page.MediaBox.LLY)
	drawImage(page, xobj, rect)

	var buf bytes.Buffer
	w := writer.NewWriter()
	if err := w.Write(ctx, out, &buf, writer.Config{}); err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPointSpace converts a display-pixel rectangle (top-left origin) into
// point space (bottom-left origin) for a page of the given height. The
// vertical flip places the rectangle's bottom edge at
// pageHeight - y/scale - height/scale.
func ToPointSpace(r geometry.Rect, scale, pageHeightPt float64) geometry.Rect {
	return geometry.Rect{
		X:      r.X / scale,
		Y:      pageHeightPt - r.Y/scale - r.Height/scale,
		Width:  r.Width / scale,
		Height: r.Height / scale,
	}
}

// ToDisplaySpace is the inverse of ToPointSpace.
func ToDisplaySpace(r geometry.Rect, scale, pageHeightPt float64) geometry.Rect {
	return geometry.Rect{
		X:      r.X * scale,
		Y:      (pageHeightPt - r.Y - r.Height) * scale,
		Width:  r.Width * scale,
		Height: r.Height * scale,
	}
}

// drawImage registers the XObject under a fresh resource name and appends a
// content stream painting it at the given point-space rectangle.
func drawImage(page *semantic.Page, xobj semantic.XObject, rect geometry.Rect) {
	if page.Resources == nil {
		page.Resources = &semantic.Resources{}
	}
	if page.Resources.XObjects == nil {
		page.Resources.XObjects = make(map[string]semantic.XObject)
	}

	name := "ImStamp"
	for i := 1; ; i++ {
		if _, taken := page.Resources.XObjects[name]; !taken {
			break
		}
		name = fmt.Sprintf("ImStamp%d", i)
	}
	page.Resources.XObjects[name] = xobj

	ops := []semantic.Operation{
		{Operator: "q"},
		{Operator: "cm", Operands: []semantic.Operand{
			semantic.NumberOperand{Value: rect.Width},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: rect.Height},
			semantic.NumberOperand{Value: rect.X},
			semantic.NumberOperand{Value: rect.Y},
		}},
		{Operator: "Do", Operands: []semantic.Operand{semantic.NameOperand{Value: name}}},
		{Operator: "Q"},
	}
	page.Contents = append(page.Contents, semantic.ContentStream{Operations: ops})
}

// embedImage decodes the image bytes and converts them into an RGB image
// XObject. PNG alpha becomes a DeviceGray soft mask.
func embedImage(data []byte, mime string) (semantic.XObject, error) {
	var img image.Image
	var err error
	switch mime {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return semantic.XObject{}, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return semantic.XObject{}, errors.New("image has no pixels")
	}

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// The SMask carries the alpha, so the color samples must be
			// straight (un-premultiplied) per PDF 1.7 §11.6.5.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rgb = append(rgb, c.R, c.G, c.B)
			alpha = append(alpha, c.A)
			if c.A != 0xff {
				opaque = false
			}
		}
	}

	xobj := semantic.XObject{
		Subtype:          "Image",
		Width:            w,
		Height:           h,
		BitsPerComponent: 8,
		ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceRGB"},
		Data:             rgb,
		Interpolate:      true,
	}
	if !opaque {
		xobj.SMask = &semantic.XObject{
			Subtype:          "Image",
			Width:            w,
			Height:           h,
			BitsPerComponent: 8,
			ColorSpace:       semantic.DeviceColorSpace{Name: "DeviceGray"},
			Data:             alpha,
		}
	}
	return xobj, nil
}
