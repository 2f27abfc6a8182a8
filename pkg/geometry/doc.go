// Package geometry defines the axis-aligned rectangles and placement values
// shared by the popper engine and its DOM collaborators.
//
// All rectangles use screen orientation: the origin is the top-left corner
// and Y grows downward. Coordinates are float64 because layout measurements
// routinely carry fractional pixels; rounding happens only when styles are
// written.
//
// # Placements
//
// A [Placement] is a cardinal [Side] plus an optional [Variation]:
//
//	p, _ := geometry.ParsePlacement("bottom-start")
//	p.Side      // geometry.Bottom
//	p.Variation // geometry.Start
//	p.Opposite() // "top-start"
//
// # Rectangles
//
//   - [Rect]: position plus size, the shape of popper offsets
//   - [ClientRect]: all four edges plus size, as returned by getBoundingClientRect
//   - [Boundaries]: the four edges of a clipping region
//
// [PopperClientRect] converts popper offsets to a [ClientRect]; it is
// idempotent and always satisfies right = left + width and bottom = top + height.
package geometry
