package geometry

import "testing"

func TestPopperClientRect(t *testing.T) {
	r := Rect{Top: 120, Left: 85, Width: 80, Height: 30}
	c := PopperClientRect(r)

	if c.Right != r.Left+r.Width {
		t.Errorf("Right = %v, want %v", c.Right, r.Left+r.Width)
	}
	if c.Bottom != r.Top+r.Height {
		t.Errorf("Bottom = %v, want %v", c.Bottom, r.Top+r.Height)
	}

	again := PopperClientRect(c.Rect())
	if again != c {
		t.Errorf("PopperClientRect is not idempotent: %+v != %+v", again, c)
	}
}

func TestBoundariesInset(t *testing.T) {
	b := Boundaries{Top: 0, Left: 0, Right: 90, Bottom: 500}.Inset(10)
	want := Boundaries{Top: 10, Left: 10, Right: 80, Bottom: 490}
	if b != want {
		t.Errorf("Inset(10) = %+v, want %+v", b, want)
	}
	if b.Width() != 70 || b.Height() != 480 {
		t.Errorf("Width/Height = %v/%v, want 70/480", b.Width(), b.Height())
	}
}

func TestClientRectEdge(t *testing.T) {
	c := NewClientRect(100, 100, 50, 20)
	tests := []struct {
		side Side
		want float64
	}{
		{Top, 100},
		{Left, 100},
		{Right, 150},
		{Bottom, 120},
	}
	for _, tt := range tests {
		if got := c.Edge(tt.side); got != tt.want {
			t.Errorf("Edge(%s) = %v, want %v", tt.side, got, tt.want)
		}
		if got := BoundariesOf(c).Edge(tt.side); got != tt.want {
			t.Errorf("BoundariesOf().Edge(%s) = %v, want %v", tt.side, got, tt.want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.4, 1},
		{1.5, 2},
		{-1.5, -1},
		{-2.5, -2},
		{-2.6, -3},
	}
	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
