package popper

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultBoundariesPadding is the inward padding applied to every boundary edge.
	DefaultBoundariesPadding = 5.0

	// DefaultArrowSelector locates the arrow inside the popper.
	DefaultArrowSelector = "[x-arrow]"

	// PlacementAttribute is written on the popper with the final placement.
	PlacementAttribute = "x-placement"

	// arrowEdgeMargin keeps the arrow away from the popper's rounded corners.
	arrowEdgeMargin = 8.0
)

// Positioning modes written to the popper's position style.
const (
	PositionAbsolute = "absolute"
	PositionFixed    = "fixed"
)

// DefaultPlacement is used when no placement is configured.
var DefaultPlacement = geometry.Placement{Side: geometry.Bottom}

// =============================================================================
// Boundaries
// =============================================================================

// BoundaryMode selects the clipping rectangle.
type BoundaryMode string

const (
	// BoundaryViewport clips to the visible viewport.
	BoundaryViewport BoundaryMode = "viewport"
	// BoundaryWindow clips to the whole scrollable document.
	BoundaryWindow BoundaryMode = "window"
	// BoundaryElement clips to an explicit container.
	BoundaryElement BoundaryMode = "element"
)

// Boundary describes the region the popper must stay within.
type Boundary struct {
	Mode    BoundaryMode
	Element dom.Element
}

// Viewport returns the viewport boundary.
func Viewport() Boundary { return Boundary{Mode: BoundaryViewport} }

// Window returns the whole-document boundary.
func Window() Boundary { return Boundary{Mode: BoundaryWindow} }

// Container returns a boundary clipped to el.
func Container(el dom.Element) Boundary { return Boundary{Mode: BoundaryElement, Element: el} }

// String returns the mode name.
func (b Boundary) String() string {
	if b.Mode == "" {
		return string(BoundaryViewport)
	}
	return string(b.Mode)
}

// =============================================================================
// Arrow
// =============================================================================

// ArrowRef identifies the arrow sub-element, either directly or by a selector
// evaluated inside the popper. Element wins when both are set.
type ArrowRef struct {
	Selector string
	Element  dom.Element
}

// =============================================================================
// Options
// =============================================================================

// Options configures an Engine. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Placement is the requested side and variation.
	Placement geometry.Placement

	// GPUAcceleration writes the position as a translate3d transform when the
	// document supports one.
	GPUAcceleration bool

	// Offset shifts the popper along the cross-axis of its placement, in px.
	Offset float64

	// Boundaries is the clipping region; BoundariesPadding insets it on every side.
	Boundaries        Boundary
	BoundariesPadding float64

	// PreventOverflowOrder lists the sides checked by the preventOverflow modifier.
	PreventOverflowOrder []geometry.Side

	// FlipBehavior lists the sides tried by the flip modifier in order.
	// Nil means toggle between the base side and its opposite.
	FlipBehavior []geometry.Side

	// Arrow locates the arrow; ArrowOffset overrides auto-centering when non-zero.
	Arrow       ArrowRef
	ArrowOffset float64

	// Modifiers is the ordered chain run on every update.
	Modifiers []Modifier

	// ModifiersIgnored names modifiers removed from the chain at construction.
	ModifiersIgnored []string

	// ForceAbsolute always positions absolutely, even inside fixed ancestors.
	ForceAbsolute bool

	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns a fresh default configuration.
func DefaultOptions() Options {
	return Options{
		Placement:            DefaultPlacement,
		GPUAcceleration:      true,
		Boundaries:           Viewport(),
		BoundariesPadding:    DefaultBoundariesPadding,
		PreventOverflowOrder: []geometry.Side{geometry.Left, geometry.Right, geometry.Top, geometry.Bottom},
		Arrow:                ArrowRef{Selector: DefaultArrowSelector},
		Modifiers:            DefaultModifiers(),
		ModifiersIgnored:     []string{},
	}
}

// Validate reports the first configuration error.
func (o Options) Validate() error {
	if !o.Placement.Side.Valid() {
		return errors.Field(errors.ErrCodeInvalidPlacement, "placement", "unknown side %q", o.Placement.Side)
	}
	switch o.Placement.Variation {
	case geometry.Center, geometry.Start, geometry.End:
	default:
		return errors.Field(errors.ErrCodeInvalidPlacement, "placement", "unknown variation %q", o.Placement.Variation)
	}
	if o.BoundariesPadding < 0 {
		return errors.Field(errors.ErrCodeInvalidConfig, "boundariesPadding", "must not be negative, got %v", o.BoundariesPadding)
	}
	switch o.Boundaries.Mode {
	case "", BoundaryViewport, BoundaryWindow:
	case BoundaryElement:
		if o.Boundaries.Element == nil {
			return errors.Field(errors.ErrCodeInvalidConfig, "boundariesElement", "container element is nil")
		}
	default:
		return errors.Field(errors.ErrCodeInvalidConfig, "boundariesElement", "unknown mode %q", o.Boundaries.Mode)
	}
	for _, s := range o.PreventOverflowOrder {
		if !s.Valid() {
			return errors.Field(errors.ErrCodeInvalidConfig, "preventOverflowOrder", "unknown side %q", s)
		}
	}
	if o.FlipBehavior != nil {
		if len(o.FlipBehavior) < 2 {
			return errors.Field(errors.ErrCodeInvalidConfig, "flipBehavior", "needs at least two sides, got %d", len(o.FlipBehavior))
		}
		for _, s := range o.FlipBehavior {
			if !s.Valid() {
				return errors.Field(errors.ErrCodeInvalidConfig, "flipBehavior", "unknown side %q", s)
			}
		}
	}
	if o.Arrow.Element == nil && o.Arrow.Selector != "" {
		if err := errors.ValidateSelector(o.Arrow.Selector); err != nil {
			return errors.Field(errors.ErrCodeInvalidSelector, "arrowElement", "%v", err)
		}
	}
	for i, m := range o.Modifiers {
		if m.Name == "" {
			return errors.Field(errors.ErrCodeInvalidConfig, "modifiers", "entry %d has no name", i)
		}
	}
	return nil
}

// flipOrder returns the sides flip walks through for base.
func (o Options) flipOrder(base geometry.Side) []geometry.Side {
	if o.FlipBehavior == nil {
		return []geometry.Side{base, base.Opposite()}
	}
	return o.FlipBehavior
}

// maxPasses bounds how often one update may restart the chain.
func (o Options) maxPasses() int {
	if o.FlipBehavior == nil {
		return 3
	}
	return len(o.FlipBehavior) + 1
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// =============================================================================
// Functional Options
// =============================================================================

// Option mutates Options during construction.
type Option func(*Options)

// WithOptions replaces the whole configuration.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// WithPlacement sets the requested placement.
func WithPlacement(p geometry.Placement) Option {
	return func(o *Options) { o.Placement = p }
}

// WithOffset sets the cross-axis offset in px.
func WithOffset(px float64) Option {
	return func(o *Options) { o.Offset = px }
}

// WithBoundaries sets the clipping region.
func WithBoundaries(b Boundary) Option {
	return func(o *Options) { o.Boundaries = b }
}

// WithBoundariesPadding sets the boundary padding in px.
func WithBoundariesPadding(px float64) Option {
	return func(o *Options) { o.BoundariesPadding = px }
}

// WithPreventOverflowOrder sets the sides checked by preventOverflow.
func WithPreventOverflowOrder(sides ...geometry.Side) Option {
	return func(o *Options) { o.PreventOverflowOrder = sides }
}

// WithFlipBehavior sets an explicit flip order. No sides restores the
// default toggle to the opposite side.
func WithFlipBehavior(sides ...geometry.Side) Option {
	return func(o *Options) {
		if len(sides) == 0 {
			o.FlipBehavior = nil
			return
		}
		o.FlipBehavior = sides
	}
}

// WithArrowSelector locates the arrow by selector inside the popper.
func WithArrowSelector(sel string) Option {
	return func(o *Options) { o.Arrow = ArrowRef{Selector: sel} }
}

// WithArrowElement sets the arrow element directly.
func WithArrowElement(el dom.Element) Option {
	return func(o *Options) { o.Arrow = ArrowRef{Element: el} }
}

// WithArrowOffset fixes the arrow offset instead of centering it.
func WithArrowOffset(px float64) Option {
	return func(o *Options) { o.ArrowOffset = px }
}

// WithModifiers replaces the modifier chain.
func WithModifiers(mods ...Modifier) Option {
	return func(o *Options) { o.Modifiers = mods }
}

// WithModifiersIgnored removes the named modifiers from the chain.
func WithModifiersIgnored(names ...string) Option {
	return func(o *Options) { o.ModifiersIgnored = names }
}

// WithGPUAcceleration toggles transform-based positioning.
func WithGPUAcceleration(on bool) Option {
	return func(o *Options) { o.GPUAcceleration = on }
}

// WithForceAbsolute toggles forced absolute positioning.
func WithForceAbsolute(on bool) Option {
	return func(o *Options) { o.ForceAbsolute = on }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
