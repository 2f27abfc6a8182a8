package popper

import (
	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/geometry"
)

// computeOffsets returns the initial popper box for placement p and the
// reference rect, both relative to the popper's offset parent. Only the base
// side of p matters here; variations are handled by the shift modifier.
func (e *Engine) computeOffsets(p geometry.Placement) (PopperOffsets, geometry.ClientRect) {
	fixed := e.position == PositionFixed
	ref := relativeRect(e.doc, e.reference, e.doc.OffsetParent(e.popper), fixed)
	size := e.doc.OuterSize(e.popper)

	po := PopperOffsets{
		Rect:     geometry.Rect{Width: size.Width, Height: size.Height},
		Position: e.position,
	}
	switch p.Side {
	case geometry.Left, geometry.Right:
		po.Top = ref.Top + ref.Height/2 - size.Height/2
		if p.Side == geometry.Left {
			po.Left = ref.Left - size.Width
		} else {
			po.Left = ref.Right
		}
	default:
		po.Left = ref.Left + ref.Width/2 - size.Width/2
		if p.Side == geometry.Top {
			po.Top = ref.Top - size.Height
		} else {
			po.Top = ref.Bottom
		}
	}
	return po, ref
}

// relativeRect returns the bounding rect of el relative to parent. When the
// popper is fixed, the parent's scroll parent offset is added back so the
// result stays in viewport space.
func relativeRect(doc dom.Geometry, el, parent dom.Element, fixed bool) geometry.ClientRect {
	er := doc.BoundingRect(el)
	pr := doc.BoundingRect(parent)
	if fixed {
		s := doc.ScrollOffset(doc.ScrollParent(parent))
		pr = pr.Translate(s.X, s.Y)
	}
	return geometry.NewClientRect(er.Left-pr.Left, er.Top-pr.Top, er.Width, er.Height)
}

// computeBoundaries returns the padded clipping region for d.
//
// Viewport boundaries are expressed in the offset parent's space: the
// parent's offset rect is shifted by the popper's scroll parent offset,
// except for fixed poppers, which already live in viewport space.
func (e *Engine) computeBoundaries(d *Data) geometry.Boundaries {
	var b geometry.Boundaries
	switch e.opts.Boundaries.Mode {
	case BoundaryWindow:
		size := e.doc.DocumentSize()
		b = geometry.Boundaries{Right: size.Width, Bottom: size.Height}
	case BoundaryElement:
		el := e.opts.Boundaries.Element
		if e.doc.OffsetParent(e.popper) == el {
			size := e.doc.ClientSize(el)
			b = geometry.Boundaries{Right: size.Width, Bottom: size.Height}
		} else {
			b = geometry.BoundariesOf(e.doc.OffsetRect(el))
		}
	default:
		parent := e.doc.OffsetRect(e.doc.OffsetParent(e.popper))
		var scroll geometry.Point
		if d.Offsets.Popper.Position != PositionFixed {
			scroll = e.doc.ScrollOffset(e.doc.ScrollParent(e.popper))
		}
		vp := e.doc.ViewportSize()
		top := parent.Top - scroll.Y
		left := parent.Left - scroll.X
		b = geometry.Boundaries{
			Top:    -top,
			Right:  vp.Width - left,
			Bottom: vp.Height - top,
			Left:   -left,
		}
	}
	return b.Inset(e.opts.BoundariesPadding)
}

// ViewportRect converts r from the popper's offset parent space, the space of
// Data offsets and boundaries, into viewport coordinates.
func (e *Engine) ViewportRect(r geometry.Rect) geometry.Rect {
	parent := e.doc.OffsetParent(e.popper)
	pr := e.doc.BoundingRect(parent)
	if e.position == PositionFixed {
		s := e.doc.ScrollOffset(e.doc.ScrollParent(parent))
		pr = pr.Translate(s.X, s.Y)
	}
	return r.Translate(pr.Left, pr.Top)
}
