// Package dom defines the document-access capabilities the popper engine
// consumes.
//
// The engine never touches a concrete document. It asks a [Document] for
// geometry (bounding rects, outer sizes, offset and scroll parents), writes
// styles and attributes through it, and registers resize/scroll listeners on
// it. Any backend that can answer these questions can host a popper: a
// browser bridge, a headless layout engine, or the in-memory implementation
// in [github.com/matzehuels/popper/pkg/dom/memdom] used by tests and the CLI.
//
// The capabilities are split into small interfaces ([Geometry], [Styler],
// [Events], [Query], [Builder]) so helpers can accept only what they use;
// [Document] composes all of them.
package dom

import (
	"github.com/matzehuels/popper/pkg/geometry"
)

// Event names the engine listens for.
const (
	EventResize = "resize"
	EventScroll = "scroll"
)

// Element is an opaque handle to a node owned by a Document.
// Handles are compared with ==, so implementations must hand out stable values.
type Element interface {
	NodeName() string
}

// ListenerID identifies a registered event listener.
type ListenerID uint64

// Geometry answers read-only layout queries.
type Geometry interface {
	// BoundingRect returns the border box of el in viewport coordinates.
	BoundingRect(el Element) geometry.ClientRect
	// OuterSize returns the border box size of el plus its margins.
	OuterSize(el Element) geometry.Size
	// OffsetRect returns the offsetLeft/Top/Width/Height box of el relative to its offset parent.
	OffsetRect(el Element) geometry.ClientRect
	// ClientSize returns the inner (padding box) size of el. For the root it is the viewport size.
	ClientSize(el Element) geometry.Size
	// ScrollOffset returns scrollLeft (X) and scrollTop (Y) of el.
	ScrollOffset(el Element) geometry.Point
	// OffsetParent returns the nearest positioned ancestor, substituting the root for the body.
	OffsetParent(el Element) Element
	// ScrollParent returns the nearest scrollable ancestor, substituting the root for body and root.
	ScrollParent(el Element) Element
	// IsFixed reports whether el or any ancestor up to the body has computed position "fixed".
	IsFixed(el Element) bool
	// DocumentSize returns the maximum of the body and root scroll, offset and client sizes.
	DocumentSize() geometry.Size
	// ViewportSize returns the root element client size.
	ViewportSize() geometry.Size
}

// Styler mutates presentation.
type Styler interface {
	// SetStyles writes inline styles; numeric geometry values get a px unit.
	SetStyles(el Element, styles Styles)
	SetAttribute(el Element, name, value string)
	// SupportedTransform returns the name of the composited-transform style
	// property, if the backend supports one.
	SupportedTransform() (string, bool)
}

// Events registers and removes listeners.
type Events interface {
	// Window returns the target that receives resize events and page scroll.
	Window() Element
	AddEventListener(target Element, event string, fn func()) ListenerID
	RemoveEventListener(target Element, event string, id ListenerID)
}

// Query resolves elements.
type Query interface {
	Root() Element
	Body() Element
	// QuerySelector returns the first descendant of scope matching selector, or nil.
	QuerySelector(scope Element, selector string) Element
	// QuerySelectorAll returns every element in the document matching selector.
	QuerySelectorAll(selector string) []Element
	// Contains reports whether el is ancestor or a descendant of ancestor.
	Contains(ancestor, el Element) bool
}

// Builder creates and attaches elements. It is only needed to synthesize poppers.
type Builder interface {
	CreateElement(tag string) Element
	AddClass(el Element, classes ...string)
	SetTextContent(el Element, text string)
	SetInnerHTML(el Element, markup string) error
	AppendChild(parent, child Element)
}

// Document is the full capability set required by the engine.
type Document interface {
	Geometry
	Styler
	Events
	Query
	Builder
}
