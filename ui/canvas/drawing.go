package canvas

import (
	"image"
	"image/color"
)

// Chrome colors for the overlay box.
var (
	outlineColor = color.RGBA{R: 0x1A, G: 0x5C, B: 0xB0, A: 255}
	handleColor  = color.RGBA{R: 0x1A, G: 0x5C, B: 0xB0, A: 255}
)

// drawBoxOutline draws a dashed rectangle outline (alternate pixel runs).
func drawBoxOutline(output *image.RGBA, rect image.Rectangle) {
	bounds := output.Bounds()
	x1, y1 := rect.Min.X, rect.Min.Y
	x2, y2 := rect.Max.X-1, rect.Max.Y-1

	// Top and bottom edges
	for x := x1; x <= x2; x++ {
		if (x+y1)%6 < 4 && x >= bounds.Min.X && x < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			output.Set(x, y1, outlineColor)
		}
		if (x+y2)%6 < 4 && x >= bounds.Min.X && x < bounds.Max.X && y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
			output.Set(x, y2, outlineColor)
		}
	}
	// Left and right edges
	for y := y1; y <= y2; y++ {
		if (x1+y)%6 < 4 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x1, y, outlineColor)
		}
		if (x2+y)%6 < 4 && x2 >= bounds.Min.X && x2 < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			output.Set(x2, y, outlineColor)
		}
	}
}

// drawResizeHandle fills the bottom-right grab square.
func drawResizeHandle(output *image.RGBA, rect image.Rectangle, size int) {
	bounds := output.Bounds()
	for y := rect.Max.Y - size; y < rect.Max.Y; y++ {
		for x := rect.Max.X - size; x < rect.Max.X; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x, y, handleColor)
			}
		}
	}
}
