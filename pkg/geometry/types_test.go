package geometry

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
		{5, 8, 3, 8}, // hi < lo: lower bound wins
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	if r.Right() != 40 || r.Bottom() != 60 {
		t.Errorf("Right/Bottom = %v/%v, want 40/60", r.Right(), r.Bottom())
	}
	if r.Origin() != (Point2D{X: 10, Y: 20}) {
		t.Errorf("Origin = %+v", r.Origin())
	}
	if r.Center() != (Point2D{X: 25, Y: 40}) {
		t.Errorf("Center = %+v", r.Center())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 100, 50)
	inside := []Point2D{{50, 25}, {0, 0}, {100, 50}}
	outside := []Point2D{{-1, 0}, {101, 25}, {50, 51}}
	for _, p := range inside {
		if !r.Contains(p) {
			t.Errorf("Contains(%+v) = false, want true", p)
		}
	}
	for _, p := range outside {
		if r.Contains(p) {
			t.Errorf("Contains(%+v) = true, want false", p)
		}
	}
}

func TestRectScale(t *testing.T) {
	got := NewRect(10, 20, 30, 40).Scale(0.5)
	want := NewRect(5, 10, 15, 20)
	if got != want {
		t.Errorf("Scale(0.5) = %+v, want %+v", got, want)
	}
}
