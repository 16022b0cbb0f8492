package geometry

import (
	"math"
	"testing"
)

func approxPoint(a, b Point2D) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestTransformApply(t *testing.T) {
	p := Point2D{X: 3, Y: 4}

	if got := Identity().Apply(p); !approxPoint(got, p) {
		t.Errorf("identity moved the point: %+v", got)
	}
	if got := Translation(10, -2).Apply(p); !approxPoint(got, Point2D{X: 13, Y: 2}) {
		t.Errorf("translation gave %+v", got)
	}
	if got := Scaling(2, 0.5).Apply(p); !approxPoint(got, Point2D{X: 6, Y: 2}) {
		t.Errorf("scaling gave %+v", got)
	}
}

func TestFromPDFMatrix(t *testing.T) {
	// A cm of [w 0 0 h x y] scales the unit square to w x h at (x, y).
	m := FromPDFMatrix(306, 0, 0, 204, 102, 486)
	if got := m.Apply(Point2D{X: 1, Y: 1}); !approxPoint(got, Point2D{X: 408, Y: 690}) {
		t.Errorf("unit corner mapped to %+v", got)
	}
	if got := m.Apply(Point2D{}); !approxPoint(got, Point2D{X: 102, Y: 486}) {
		t.Errorf("origin mapped to %+v", got)
	}
}

func TestComposeAndInverse(t *testing.T) {
	m := Translation(5, 7).Compose(Scaling(2, 3))
	p := Point2D{X: 1, Y: 1}
	if got := m.Apply(p); !approxPoint(got, Point2D{X: 7, Y: 10}) {
		t.Errorf("composed transform gave %+v", got)
	}

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("invertible transform reported singular")
	}
	if got := inv.Apply(m.Apply(p)); !approxPoint(got, p) {
		t.Errorf("inverse round trip gave %+v", got)
	}

	if _, ok := Scaling(0, 1).Inverse(); ok {
		t.Error("singular transform reported invertible")
	}
}
