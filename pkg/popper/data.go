package popper

import (
	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/geometry"
)

// Data is the record threaded through the modifier chain. A fresh one is
// built at the start of every update and discarded at its end.
type Data struct {
	// Placement is the current candidate; flip may change it.
	Placement geometry.Placement `json:"placement"`
	// OriginalPlacement is the placement the cycle started with.
	OriginalPlacement geometry.Placement `json:"originalPlacement"`
	// Flipped is set once flip has changed the placement in this cycle.
	Flipped bool `json:"flipped"`

	Offsets    Offsets             `json:"offsets"`
	Boundaries geometry.Boundaries `json:"boundaries"`

	// Styles holds extra properties contributed by modifiers. applyStyle
	// merges them last, so they override computed values.
	Styles dom.Styles `json:"styles,omitempty"`

	// ArrowElement is the arrow resolved by the arrow modifier.
	ArrowElement dom.Element `json:"-"`

	restart bool
	frozen  bool
}

// Offsets groups the rectangles computed for one cycle, all relative to the
// popper's offset parent.
type Offsets struct {
	Popper    PopperOffsets       `json:"popper"`
	Reference geometry.ClientRect `json:"reference"`
	// Arrow is nil until the arrow modifier succeeds.
	Arrow *ArrowOffsets `json:"arrow,omitempty"`
}

// PopperOffsets is the proposed popper box plus its positioning mode.
// Width and Height are fixed for the whole cycle.
type PopperOffsets struct {
	geometry.Rect
	Position string `json:"position"`
}

// ClientRect returns the popper box with all edges materialized.
func (p PopperOffsets) ClientRect() geometry.ClientRect {
	return geometry.PopperClientRect(p.Rect)
}

// ArrowOffsets positions the arrow along the popper edge facing the reference.
type ArrowOffsets struct {
	// Side is top for left/right placements and left otherwise.
	Side   geometry.Side `json:"side"`
	Offset float64       `json:"offset"`
}

// Styles returns the style writes for the arrow element. The alternate side
// is cleared so stale values from a previous placement do not linger.
func (a ArrowOffsets) Styles() dom.Styles {
	alt := geometry.Top
	if a.Side == geometry.Top {
		alt = geometry.Left
	}
	return dom.Styles{string(a.Side): a.Offset, string(alt): ""}
}

// Clone returns a deep copy of d without the arrow element handle.
func (d *Data) Clone() *Data {
	c := *d
	c.ArrowElement = nil
	c.restart, c.frozen = false, false
	if d.Offsets.Arrow != nil {
		a := *d.Offsets.Arrow
		c.Offsets.Arrow = &a
	}
	c.Styles = dom.Styles{}.Merge(d.Styles)
	return &c
}
