package geometry

import "math"

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position in the shared coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a position plus size.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Top: r.Top + dy, Left: r.Left + dx, Width: r.Width, Height: r.Height}
}

// ClientRect returns r with all four edges materialized.
func (r Rect) ClientRect() ClientRect {
	return ClientRect{
		Top:    r.Top,
		Left:   r.Left,
		Right:  r.Right(),
		Bottom: r.Bottom(),
		Width:  r.Width,
		Height: r.Height,
	}
}

// ClientRect mirrors the shape returned by getBoundingClientRect.
type ClientRect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewClientRect builds a ClientRect from a position and size.
func NewClientRect(left, top, width, height float64) ClientRect {
	return Rect{Top: top, Left: left, Width: width, Height: height}.ClientRect()
}

// Edge returns the coordinate of the given side.
func (c ClientRect) Edge(s Side) float64 {
	switch s {
	case Top:
		return c.Top
	case Right:
		return c.Right
	case Bottom:
		return c.Bottom
	default:
		return c.Left
	}
}

// Rect drops the derived edges.
func (c ClientRect) Rect() Rect {
	return Rect{Top: c.Top, Left: c.Left, Width: c.Width, Height: c.Height}
}

// Translate returns c moved by (dx, dy).
func (c ClientRect) Translate(dx, dy float64) ClientRect {
	return c.Rect().Translate(dx, dy).ClientRect()
}

// Boundaries are the four edges of a clipping region.
type Boundaries struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Inset shrinks every edge toward the center by padding.
func (b Boundaries) Inset(padding float64) Boundaries {
	return Boundaries{
		Top:    b.Top + padding,
		Right:  b.Right - padding,
		Bottom: b.Bottom - padding,
		Left:   b.Left + padding,
	}
}

// Width returns the horizontal extent.
func (b Boundaries) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent.
func (b Boundaries) Height() float64 { return b.Bottom - b.Top }

// Edge returns the coordinate of the given side.
func (b Boundaries) Edge(s Side) float64 {
	switch s {
	case Top:
		return b.Top
	case Right:
		return b.Right
	case Bottom:
		return b.Bottom
	default:
		return b.Left
	}
}

// BoundariesOf returns the edges of c.
func BoundariesOf(c ClientRect) Boundaries {
	return Boundaries{Top: c.Top, Right: c.Right, Bottom: c.Bottom, Left: c.Left}
}

// PopperClientRect returns the client rect of popper offsets.
// Applying it to its own result yields the same value.
func PopperClientRect(r Rect) ClientRect {
	return r.ClientRect()
}

// RoundHalfUp rounds to the nearest integer with halves toward positive
// infinity, matching the rounding browsers apply to style coordinates.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
