package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/wudi/pdfkit/ir/semantic"
)

// decodeImageXObject turns an image XObject into a drawable image. Only the
// encodings the preview actually meets are handled; anything else reports an
// error and the caller leaves the area blank.
func decodeImageXObject(xo *semantic.XObject) (image.Image, error) {
	if len(xo.Data) == 0 {
		return nil, errors.New("image data is empty")
	}

	base, err := decodePixels(xo)
	if err != nil {
		return nil, err
	}
	if xo.SMask == nil {
		return base, nil
	}
	return applySoftMask(base, xo.SMask)
}

func decodePixels(xo *semantic.XObject) (image.Image, error) {
	// pdfkit's semantic layer does not retain the /Filter name; DCTDecode
	// streams reach us as raw JPEG bytes only when upstream decoding failed,
	// so detect them by the JPEG SOI marker instead.
	if bytes.HasPrefix(xo.Data, []byte{0xFF, 0xD8, 0xFF}) {
		return jpeg.Decode(bytes.NewReader(xo.Data))
	}

	pixelCount := xo.Width * xo.Height
	if pixelCount <= 0 {
		return nil, errors.New("invalid image dimensions")
	}
	rect := image.Rect(0, 0, xo.Width, xo.Height)

	switch len(xo.Data) {
	case pixelCount * 4:
		return &image.RGBA{Pix: xo.Data, Stride: xo.Width * 4, Rect: rect}, nil
	case pixelCount * 3:
		return &rgbImage{Pix: xo.Data, Stride: xo.Width * 3, Rect: rect}, nil
	case pixelCount:
		return &image.Gray{Pix: xo.Data, Stride: xo.Width, Rect: rect}, nil
	}
	return nil, fmt.Errorf("unsupported image encoding: %d bytes for %dx%d", len(xo.Data), xo.Width, xo.Height)
}

// applySoftMask combines the base image with a DeviceGray soft mask into an
// NRGBA image. Masks with a geometry other than the base image are sampled
// proportionally.
func applySoftMask(base image.Image, mask *semantic.XObject) (image.Image, error) {
	if mask.Width <= 0 || mask.Height <= 0 || len(mask.Data) < mask.Width*mask.Height {
		return base, nil
	}
	b := base.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		my := (y - b.Min.Y) * mask.Height / b.Dy()
		for x := b.Min.X; x < b.Max.X; x++ {
			mx := (x - b.Min.X) * mask.Width / b.Dx()
			alpha := mask.Data[my*mask.Width+mx]
			r, g, bl, _ := base.At(x, y).RGBA()
			out.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(bl >> 8),
				A: alpha,
			})
		}
	}
	return out, nil
}

// rgbImage exposes raw 3-byte-per-pixel RGB data as an image.Image.
type rgbImage struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

func (p *rgbImage) ColorModel() color.Model { return color.RGBAModel }
func (p *rgbImage) Bounds() image.Rectangle { return p.Rect }

func (p *rgbImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
	return color.RGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: 255}
}
