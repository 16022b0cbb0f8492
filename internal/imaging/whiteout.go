// Package imaging preprocesses overlay images before they enter the session.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
)

// WhiteThreshold is the per-channel brightness above which a pixel counts as
// background.
const WhiteThreshold = 240

// RemoveBackground makes near-white pixels fully transparent: any pixel
// whose R, G and B channels all exceed WhiteThreshold gets alpha 0. The
// result is always re-encoded as PNG so the transparency survives.
func RemoveBackground(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	out := whiteout(img, WhiteThreshold)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// whiteout returns a copy of img with background pixels cleared. The copy
// holds straight (un-premultiplied) samples; the threshold compares the
// pixel's own color, not one darkened by its alpha.
func whiteout(img image.Image, threshold uint8) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R > threshold && c.G > threshold && c.B > threshold {
				c.A = 0
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
