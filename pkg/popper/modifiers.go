package popper

import (
	"fmt"
	"math"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/observability"
)

// shift aligns the popper with the start or end edge of the reference along
// the offset axis instead of centering it.
func shift(_ *Engine, d *Data) {
	if d.Placement.Variation == geometry.Center {
		return
	}
	ref := d.Offsets.Reference
	p := &d.Offsets.Popper
	end := d.Placement.Variation == geometry.End

	if d.Placement.Side.Horizontal() {
		p.Top = ref.Top
		if end {
			p.Top = ref.Top + ref.Height - p.Height
		}
		return
	}
	p.Left = ref.Left
	if end {
		p.Left = ref.Left + ref.Width - p.Width
	}
}

// offset moves the popper along the cross axis by Options.Offset.
func offset(e *Engine, d *Data) {
	px := e.opts.Offset
	p := &d.Offsets.Popper
	switch d.Placement.Side {
	case geometry.Left:
		p.Top -= px
	case geometry.Right:
		p.Top += px
	case geometry.Top:
		p.Left -= px
	case geometry.Bottom:
		p.Left += px
	}
}

// preventOverflow clamps the popper inside the boundaries, one side at a
// time in Options.PreventOverflowOrder. When the popper is larger than the
// boundaries, whichever side is checked last wins.
func preventOverflow(e *Engine, d *Data) {
	b := d.Boundaries
	p := &d.Offsets.Popper
	for _, side := range e.opts.PreventOverflowOrder {
		switch side {
		case geometry.Left:
			if p.Left < b.Left {
				p.Left = math.Max(p.Left, b.Left)
			}
		case geometry.Right:
			if p.Right() > b.Right {
				p.Left = math.Min(p.Left, b.Right-p.Width)
			}
		case geometry.Top:
			if p.Top < b.Top {
				p.Top = math.Max(p.Top, b.Top)
			}
		case geometry.Bottom:
			if p.Bottom() > b.Bottom {
				p.Top = math.Min(p.Top, b.Bottom-p.Height)
			}
		}
	}
}

// keepTogether snaps the popper back against the reference when it has
// drifted past it with no overlap left on an axis.
func keepTogether(_ *Engine, d *Data) {
	ref := d.Offsets.Reference
	p := &d.Offsets.Popper
	f := math.Floor

	if p.Right() < f(ref.Left) {
		p.Left = f(ref.Left) - p.Width
	}
	if p.Left > f(ref.Right) {
		p.Left = f(ref.Right)
	}
	if p.Bottom() < f(ref.Top) {
		p.Top = f(ref.Top) - p.Height
	}
	if p.Top > f(ref.Bottom) {
		p.Top = f(ref.Bottom)
	}
}

// flip moves the popper to the next side in the flip order once it overlaps
// the reference on its base side, then asks the runner to restart the chain.
func flip(e *Engine, d *Data) {
	if !e.IsModifierRequired(nameFlip, namePreventOverflow) {
		e.skip(nameFlip, "preventOverflow must run before flip")
		return
	}
	if d.frozen {
		return
	}
	// Flipping back to where the cycle started means no side has room.
	if d.Flipped && d.Placement == d.OriginalPlacement {
		return
	}

	base := d.Placement.Side
	order := e.opts.flipOrder(base)
	idx := -1
	for i, s := range order {
		if s == base {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(order)-1 {
		return
	}

	ref := d.Offsets.Reference.Edge(base)
	pop := d.Offsets.Popper.ClientRect().Edge(base.Opposite())
	// Reference offsets may carry fractions that should not trigger a flip.
	overlaps := math.Floor(ref) > math.Floor(pop)
	if !base.Far() {
		overlaps = math.Floor(ref) < math.Floor(pop)
	}
	if !overlaps {
		return
	}

	from := d.Placement
	d.Flipped = true
	d.Placement = from.WithSide(order[idx+1])
	d.Offsets.Popper, _ = e.computeOffsets(d.Placement)
	d.restart = true

	e.logger.Debug("flipped", "from", from, "to", d.Placement)
	observability.Placement().OnFlip(e.id, from.String(), d.Placement.String())
}

// arrow keeps the arrow between popper and reference, centered on the
// reference unless Options.ArrowOffset is set, and at least arrowEdgeMargin
// away from the popper's ends.
func arrow(e *Engine, d *Data) {
	el := e.opts.Arrow.Element
	if el == nil && e.opts.Arrow.Selector != "" {
		el = e.doc.QuerySelector(e.popper, e.opts.Arrow.Selector)
	}
	if el == nil {
		return
	}
	if !e.doc.Contains(e.popper, el) {
		e.skip(nameArrow, "arrow element must be a child of the popper")
		return
	}
	if !e.IsModifierRequired(nameArrow, nameKeepTogether) {
		e.skip(nameArrow, "keepTogether must run before arrow")
		return
	}

	vertical := d.Placement.Side.Horizontal()
	side, opSide := geometry.Left, geometry.Right
	if vertical {
		side, opSide = geometry.Top, geometry.Bottom
	}
	length := func(w, h float64) float64 {
		if vertical {
			return h
		}
		return w
	}

	size := e.doc.OuterSize(el)
	arrowSize := length(size.Width, size.Height)
	ref := d.Offsets.Reference
	pop := d.Offsets.Popper.ClientRect()
	target := &d.Offsets.Popper.Left
	if vertical {
		target = &d.Offsets.Popper.Top
	}

	// Keep at least arrowSize of overlap between popper and reference.
	if ref.Edge(opSide)-arrowSize < pop.Edge(side) {
		*target -= pop.Edge(side) - (ref.Edge(opSide) - arrowSize)
	}
	if ref.Edge(side)+arrowSize > pop.Edge(opSide) {
		*target += ref.Edge(side) + arrowSize - pop.Edge(opSide)
	}

	shiftBy := e.opts.ArrowOffset
	if shiftBy == 0 {
		shiftBy = length(ref.Width, ref.Height)/2 - arrowSize/2
	}
	center := ref.Edge(side) + shiftBy
	value := center - pop.Edge(side)
	value = math.Max(math.Min(length(pop.Width, pop.Height)-arrowSize-arrowEdgeMargin, value), arrowEdgeMargin)

	d.Offsets.Arrow = &ArrowOffsets{Side: side, Offset: value}
	d.ArrowElement = el
}

// applyStyle writes the final position to the popper, the placement
// attribute, and the arrow offsets when arrow ran earlier in the chain.
func applyStyle(e *Engine, d *Data) {
	p := d.Offsets.Popper
	left := geometry.RoundHalfUp(p.Left)
	top := geometry.RoundHalfUp(p.Top)

	styles := dom.Styles{"position": p.Position}
	if prop, ok := e.doc.SupportedTransform(); e.opts.GPUAcceleration && ok {
		styles[prop] = fmt.Sprintf("translate3d(%.0fpx, %.0fpx, 0)", left, top)
		styles["top"] = 0
		styles["left"] = 0
	} else {
		styles["left"] = left
		styles["top"] = top
	}
	styles = styles.Merge(d.Styles)

	e.doc.SetStyles(e.popper, styles)
	e.doc.SetAttribute(e.popper, PlacementAttribute, d.Placement.String())

	if e.IsModifierRequired(nameApplyStyle, nameArrow) && d.Offsets.Arrow != nil && d.ArrowElement != nil {
		e.doc.SetStyles(d.ArrowElement, d.Offsets.Arrow.Styles())
	}
}
