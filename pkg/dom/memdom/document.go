package memdom

import (
	"math"
	"strings"
	"sync"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/geometry"
)

var _ dom.Document = (*Document)(nil)

// DefaultTransformProperty is the composited-transform property reported by new documents.
const DefaultTransformProperty = "transform"

// Document is an in-memory document.
type Document struct {
	// Viewport is the visible client size of the root element.
	Viewport geometry.Size
	// TransformProperty is reported by SupportedTransform; empty disables transforms.
	TransformProperty string

	window *Node
	root   *Node
	body   *Node

	mu        sync.Mutex
	listeners map[*Node]map[string][]listener
	nextID    dom.ListenerID
}

type listener struct {
	id dom.ListenerID
	fn func()
}

// New creates a document whose root and body fill a viewport of the given size.
func New(width, height float64) *Document {
	d := &Document{
		Viewport:          geometry.Size{Width: width, Height: height},
		TransformProperty: DefaultTransformProperty,
		listeners:         make(map[*Node]map[string][]listener),
	}
	d.window = d.newNode("#window")
	d.root = d.newNode("html")
	d.body = d.newNode("body")
	d.root.Box = geometry.Rect{Width: width, Height: height}
	d.body.Box = geometry.Rect{Width: width, Height: height}
	d.root.appendChild(d.body)
	return d
}

func (d *Document) newNode(tag string) *Node {
	return &Node{
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string),
		style: make(map[string]string),
		doc:   d,
	}
}

// RootNode returns the html element.
func (d *Document) RootNode() *Node { return d.root }

// BodyNode returns the body element.
func (d *Document) BodyNode() *Node { return d.body }

// WindowNode returns the window event target.
func (d *Document) WindowNode() *Node { return d.window }

// Add creates an element with the given id and border box and appends it to parent.
// A nil parent appends to the body.
func (d *Document) Add(parent *Node, tag, id string, box geometry.Rect) *Node {
	n := d.newNode(tag)
	n.Box = box
	if id != "" {
		n.attrs["id"] = id
	}
	if parent == nil {
		parent = d.body
	}
	parent.appendChild(n)
	return n
}

// ByID returns the first element with the given id, or nil.
func (d *Document) ByID(id string) *Node {
	var found *Node
	d.root.walk(func(n *Node) bool {
		if n.attrs["id"] == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// node converts a handle back to a *Node; foreign or nil handles yield nil.
func node(el dom.Element) *Node {
	n, _ := el.(*Node)
	return n
}

// element converts a *Node to a handle, keeping nil untyped.
func element(n *Node) dom.Element {
	if n == nil {
		return nil
	}
	return n
}

// =============================================================================
// Geometry
// =============================================================================

// pageScroll is the document scroll position; browsers disagree on whether it
// lives on the body or the root, so the larger of both wins.
func (d *Document) pageScroll() geometry.Point {
	return geometry.Point{
		X: math.Max(d.root.Scroll.X, d.body.Scroll.X),
		Y: math.Max(d.root.Scroll.Y, d.body.Scroll.Y),
	}
}

// BoundingRect implements dom.Geometry.
func (d *Document) BoundingRect(el dom.Element) geometry.ClientRect {
	n := node(el)
	if n == nil || n == d.window {
		return geometry.ClientRect{}
	}
	x, y := n.Box.Left, n.Box.Top
	for cur := n; ; {
		if cur.position() == PositionFixed {
			break
		}
		p := cur.parent
		if p == nil || p == d.root || p == d.body {
			s := d.pageScroll()
			x -= s.X
			y -= s.Y
			break
		}
		x -= p.Scroll.X
		y -= p.Scroll.Y
		cur = p
	}
	return geometry.NewClientRect(x, y, n.Box.Width, n.Box.Height)
}

// OuterSize implements dom.Geometry.
func (d *Document) OuterSize(el dom.Element) geometry.Size {
	n := node(el)
	if n == nil {
		return geometry.Size{}
	}
	return geometry.Size{
		Width:  n.Box.Width + n.Margin.Left + n.Margin.Right,
		Height: n.Box.Height + n.Margin.Top + n.Margin.Bottom,
	}
}

// positionedAncestor is the raw offsetParent: the nearest non-static ancestor,
// or the body.
func (d *Document) positionedAncestor(n *Node) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p == d.body || p == d.root {
			return d.body
		}
		if p.position() != PositionStatic {
			return p
		}
	}
	return d.body
}

// OffsetParent implements dom.Geometry.
func (d *Document) OffsetParent(el dom.Element) dom.Element {
	n := node(el)
	if n == nil {
		return element(d.root)
	}
	p := d.positionedAncestor(n)
	if p == d.body {
		return element(d.root)
	}
	return element(p)
}

// OffsetRect implements dom.Geometry.
func (d *Document) OffsetRect(el dom.Element) geometry.ClientRect {
	n := node(el)
	if n == nil {
		return geometry.ClientRect{}
	}
	if n == d.root || n == d.body || n.position() == PositionFixed {
		return n.Box.ClientRect()
	}
	p := d.positionedAncestor(n)
	return geometry.NewClientRect(n.Box.Left-p.Box.Left, n.Box.Top-p.Box.Top, n.Box.Width, n.Box.Height)
}

// ClientSize implements dom.Geometry.
func (d *Document) ClientSize(el dom.Element) geometry.Size {
	n := node(el)
	switch {
	case n == nil:
		return geometry.Size{}
	case n == d.root || n == d.window:
		return d.Viewport
	case n.Client != nil:
		return *n.Client
	}
	return geometry.Size{Width: n.Box.Width, Height: n.Box.Height}
}

// ScrollOffset implements dom.Geometry.
func (d *Document) ScrollOffset(el dom.Element) geometry.Point {
	n := node(el)
	switch {
	case n == nil:
		return geometry.Point{}
	case n == d.root || n == d.body || n == d.window:
		return d.pageScroll()
	}
	return n.Scroll
}

// ScrollParent implements dom.Geometry.
func (d *Document) ScrollParent(el dom.Element) dom.Element {
	n := node(el)
	if n == nil {
		return element(d.root)
	}
	if n == d.root {
		if d.body.Scroll.X != 0 || d.body.Scroll.Y != 0 {
			return element(d.body)
		}
		return element(d.root)
	}
	p := n.parent
	if p == nil {
		return element(n)
	}
	if p.scrollable() {
		return element(p)
	}
	return d.ScrollParent(p)
}

// IsFixed implements dom.Geometry.
func (d *Document) IsFixed(el dom.Element) bool {
	for n := node(el); n != nil; n = n.parent {
		if n == d.body {
			return false
		}
		if n.position() == PositionFixed {
			return true
		}
	}
	return false
}

// DocumentSize implements dom.Geometry.
func (d *Document) DocumentSize() geometry.Size {
	size := d.Viewport
	grow := func(r geometry.Rect) {
		size.Width = math.Max(size.Width, r.Right())
		size.Height = math.Max(size.Height, r.Bottom())
	}
	grow(d.root.Box)
	d.body.walk(func(n *Node) bool {
		if n.position() == PositionFixed {
			return true
		}
		grow(n.Box)
		return true
	})
	return size
}

// ViewportSize implements dom.Geometry.
func (d *Document) ViewportSize() geometry.Size {
	return d.Viewport
}

// =============================================================================
// Styler
// =============================================================================

// SetStyles implements dom.Styler.
func (d *Document) SetStyles(el dom.Element, styles dom.Styles) {
	n := node(el)
	if n == nil {
		return
	}
	for prop, v := range styles {
		s := dom.FormatStyle(prop, v)
		if prop == "position" {
			n.Position = s
		}
		if s == "" {
			delete(n.style, prop)
			continue
		}
		n.style[prop] = s
	}
}

// SetAttribute implements dom.Styler.
func (d *Document) SetAttribute(el dom.Element, name, value string) {
	if n := node(el); n != nil {
		n.SetAttr(name, value)
	}
}

// SupportedTransform implements dom.Styler.
func (d *Document) SupportedTransform() (string, bool) {
	return d.TransformProperty, d.TransformProperty != ""
}

// =============================================================================
// Query
// =============================================================================

// Root implements dom.Query.
func (d *Document) Root() dom.Element { return element(d.root) }

// Body implements dom.Query.
func (d *Document) Body() dom.Element { return element(d.body) }

// QuerySelector implements dom.Query.
func (d *Document) QuerySelector(scope dom.Element, selector string) dom.Element {
	s := node(scope)
	if s == nil {
		s = d.root
	}
	sel, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	var found *Node
	for _, c := range s.children {
		c.walk(func(n *Node) bool {
			if sel.matches(n) {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return element(found)
}

// QuerySelectorAll implements dom.Query.
func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	var out []dom.Element
	d.root.walk(func(n *Node) bool {
		if sel.matches(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Contains implements dom.Query.
func (d *Document) Contains(ancestor, el dom.Element) bool {
	a := node(ancestor)
	if a == nil {
		return false
	}
	for n := node(el); n != nil; n = n.parent {
		if n == a {
			return true
		}
	}
	return false
}

// =============================================================================
// Builder
// =============================================================================

// CreateElement implements dom.Builder. The element is detached until appended.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.newNode(tag)
}

// AddClass implements dom.Builder.
func (d *Document) AddClass(el dom.Element, classes ...string) {
	n := node(el)
	if n == nil {
		return
	}
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			n.addClass(f)
		}
	}
}

// SetTextContent implements dom.Builder.
func (d *Document) SetTextContent(el dom.Element, text string) {
	n := node(el)
	if n == nil {
		return
	}
	for _, c := range append([]*Node(nil), n.children...) {
		n.removeChild(c)
	}
	n.text = text
}

// AppendChild implements dom.Builder.
func (d *Document) AppendChild(parent, child dom.Element) {
	p, c := node(parent), node(child)
	if p == nil || c == nil {
		return
	}
	p.appendChild(c)
}
