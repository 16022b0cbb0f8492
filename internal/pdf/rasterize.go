package pdf

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/wudi/pdfkit/ir/semantic"
	xdraw "golang.org/x/image/draw"

	"pdf-stamper/pkg/geometry"
)

// graphicsState is the subset of the PDF graphics state the preview needs.
type graphicsState struct {
	ctm  geometry.AffineTransform
	fill color.RGBA
}

// rasterizer walks a page's content streams and paints a simplified preview.
type rasterizer struct {
	out    *image.RGBA
	page   *semantic.Page
	scale  float64
	pageH  float64
	state  graphicsState
	stack  []graphicsState
	path   []geometry.Rect // pending rectangle subpaths (point space)
	fontSz float64
	textX  float64
	textY  float64
}

// rasterizePage renders a page to an RGBA surface of size
// naturalW*scale x naturalH*scale with a white background.
func rasterizePage(page *semantic.Page, naturalW, naturalH, scale float64) *image.RGBA {
	w := int(naturalW*scale + 0.5)
	h := int(naturalH*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	rz := &rasterizer{
		out:   out,
		page:  page,
		scale: scale,
		pageH: naturalH,
		state: graphicsState{
			ctm:  geometry.Identity(),
			fill: color.RGBA{A: 255},
		},
	}
	for _, cs := range page.Contents {
		for _, op := range cs.Operations {
			rz.apply(op)
		}
	}
	return out
}

// device converts a point-space position to raster pixels, flipping the
// vertical axis from the document's bottom-left origin to top-left.
func (rz *rasterizer) device(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: p.X * rz.scale,
		Y: (rz.pageH - p.Y) * rz.scale,
	}
}

func (rz *rasterizer) apply(op semantic.Operation) {
	switch op.Operator {
	case "q":
		rz.stack = append(rz.stack, rz.state)
	case "Q":
		if n := len(rz.stack); n > 0 {
			rz.state = rz.stack[n-1]
			rz.stack = rz.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixOperands(op.Operands); ok {
			rz.state.ctm = rz.state.ctm.Compose(m)
		}
	case "rg":
		if v, ok := numberOperands(op.Operands, 3); ok {
			rz.state.fill = rgba(v[0], v[1], v[2])
		}
	case "g":
		if v, ok := numberOperands(op.Operands, 1); ok {
			rz.state.fill = rgba(v[0], v[0], v[0])
		}
	case "k":
		if v, ok := numberOperands(op.Operands, 4); ok {
			rz.state.fill = rgba((1-v[0])*(1-v[3]), (1-v[1])*(1-v[3]), (1-v[2])*(1-v[3]))
		}
	case "re":
		if v, ok := numberOperands(op.Operands, 4); ok {
			rz.path = append(rz.path, geometry.NewRect(v[0], v[1], v[2], v[3]))
		}
	case "f", "F", "f*", "b", "b*", "B", "B*":
		for _, r := range rz.path {
			rz.fillRect(r, rz.state.fill)
		}
		rz.path = nil
	case "n", "S", "s":
		rz.path = nil
	case "Do":
		rz.drawXObject(op.Operands)
	case "BT":
		rz.fontSz = 12
		rz.textX, rz.textY = 0, 0
	case "Tf":
		if len(op.Operands) == 2 {
			if n, ok := op.Operands[1].(semantic.NumberOperand); ok {
				rz.fontSz = n.Value
			}
		}
	case "Tm":
		if v, ok := numberOperands(op.Operands, 6); ok {
			rz.textX, rz.textY = v[4], v[5]
		}
	case "Td", "TD":
		if v, ok := numberOperands(op.Operands, 2); ok {
			rz.textX += v[0]
			rz.textY += v[1]
		}
	case "Tj", "'", "\"":
		rz.greekText(runLength(op.Operands))
	case "TJ":
		rz.greekText(arrayRunLength(op.Operands))
	}
}

// fillRect paints an axis-aligned bounding box of the transformed rectangle.
func (rz *rasterizer) fillRect(r geometry.Rect, col color.RGBA) {
	bounds := rz.deviceBounds(r)
	if bounds.Empty() {
		return
	}
	draw.Draw(rz.out, bounds.Intersect(rz.out.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// deviceBounds maps a point-space rectangle through the CTM into raster
// pixels and returns its bounding box. Rotation and skew collapse to the
// bounding box, which is enough for a positioning preview.
func (rz *rasterizer) deviceBounds(r geometry.Rect) image.Rectangle {
	corners := []geometry.Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X, Y: r.Y + r.Height},
		{X: r.X + r.Width, Y: r.Y + r.Height},
	}
	var minX, minY, maxX, maxY float64
	for i, c := range corners {
		d := rz.device(rz.state.ctm.Apply(c))
		if i == 0 {
			minX, maxX = d.X, d.X
			minY, maxY = d.Y, d.Y
			continue
		}
		if d.X < minX {
			minX = d.X
		}
		if d.X > maxX {
			maxX = d.X
		}
		if d.Y < minY {
			minY = d.Y
		}
		if d.Y > maxY {
			maxY = d.Y
		}
	}
	return image.Rect(int(minX+0.5), int(minY+0.5), int(maxX+0.5), int(maxY+0.5))
}

// drawXObject paints an image XObject into the unit square mapped by the CTM.
func (rz *rasterizer) drawXObject(operands []semantic.Operand) {
	if len(operands) != 1 || rz.page.Resources == nil {
		return
	}
	name, ok := operands[0].(semantic.NameOperand)
	if !ok {
		return
	}
	xo, ok := rz.page.Resources.XObjects[name.Value]
	if !ok || (xo.Subtype != "" && xo.Subtype != "Image") {
		return
	}
	src, err := decodeImageXObject(&xo)
	if err != nil {
		return // undecodable image, leave the area blank
	}
	bounds := rz.deviceBounds(geometry.NewRect(0, 0, 1, 1))
	if bounds.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(rz.out, bounds, src, src.Bounds(), xdraw.Over, nil)
}

// greekText draws a light bar where a text run would appear. Glyph metrics
// are not available without full font loading, so the bar width is an
// estimate of half the font size per character.
func (rz *rasterizer) greekText(chars int) {
	if chars <= 0 || rz.fontSz <= 0 {
		return
	}
	w := 0.5 * rz.fontSz * float64(chars)
	h := 0.66 * rz.fontSz
	saved := rz.state.fill
	rz.state.fill = color.RGBA{R: 0xB8, G: 0xB8, B: 0xB8, A: 255}
	rz.fillRect(geometry.NewRect(rz.textX, rz.textY, w, h), rz.state.fill)
	rz.state.fill = saved
	rz.textX += w
}

func rgba(r, g, b float64) color.RGBA {
	return color.RGBA{
		R: uint8(geometry.Clamp(r, 0, 1)*255 + 0.5),
		G: uint8(geometry.Clamp(g, 0, 1)*255 + 0.5),
		B: uint8(geometry.Clamp(b, 0, 1)*255 + 0.5),
		A: 255,
	}
}

func numberOperands(operands []semantic.Operand, n int) ([]float64, bool) {
	if len(operands) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, o := range operands {
		num, ok := o.(semantic.NumberOperand)
		if !ok {
			return nil, false
		}
		out[i] = num.Value
	}
	return out, true
}

func matrixOperands(operands []semantic.Operand) (geometry.AffineTransform, bool) {
	v, ok := numberOperands(operands, 6)
	if !ok {
		return geometry.AffineTransform{}, false
	}
	return geometry.FromPDFMatrix(v[0], v[1], v[2], v[3], v[4], v[5]), true
}

func runLength(operands []semantic.Operand) int {
	for _, o := range operands {
		if s, ok := o.(semantic.StringOperand); ok {
			return len(s.Value)
		}
	}
	return 0
}

func arrayRunLength(operands []semantic.Operand) int {
	total := 0
	for _, o := range operands {
		arr, ok := o.(semantic.ArrayOperand)
		if !ok {
			continue
		}
		for _, el := range arr.Values {
			if s, ok := el.(semantic.StringOperand); ok {
				total += len(s.Value)
			}
		}
	}
	return total
}
