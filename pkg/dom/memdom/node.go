package memdom

import (
	"sort"
	"strings"

	"github.com/matzehuels/popper/pkg/geometry"
)

// CSS position values understood by the document.
const (
	PositionStatic   = "static"
	PositionRelative = "relative"
	PositionAbsolute = "absolute"
	PositionFixed    = "fixed"
)

// Edges holds per-side lengths such as margins.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Node is an element in the document tree.
type Node struct {
	// Box is the border box, in page coordinates (viewport coordinates inside a fixed subtree).
	Box geometry.Rect
	// Margin is added to Box by OuterSize.
	Margin Edges
	// Position is the computed CSS position; empty means static.
	Position string
	// Overflow is the computed CSS overflow; "auto" and "scroll" make the node a scroll parent.
	Overflow string
	// Scroll holds scrollLeft (X) and scrollTop (Y).
	Scroll geometry.Point
	// Client overrides the client size; nil means the box size.
	Client *geometry.Size

	tag      string
	attrs    map[string]string
	classes  []string
	style    map[string]string
	text     string
	parent   *Node
	children []*Node
	doc      *Document
}

// NodeName returns the upper-case tag name, or "#window" for the window target.
func (n *Node) NodeName() string {
	if strings.HasPrefix(n.tag, "#") {
		return n.tag
	}
	return strings.ToUpper(n.tag)
}

// Tag returns the lower-case tag name.
func (n *Node) Tag() string { return n.tag }

// ID returns the id attribute.
func (n *Node) ID() string { return n.attrs["id"] }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes.
func (n *Node) Children() []*Node { return n.children }

// Text returns the text content of n and its descendants.
func (n *Node) Text() string {
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	b.WriteString(n.text)
	for _, c := range n.children {
		c.collectText(b)
	}
}

// Attr returns an attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Classes returns the class list.
func (n *Node) Classes() []string { return n.classes }

// HasClass reports whether the class list contains c.
func (n *Node) HasClass(c string) bool {
	for _, have := range n.classes {
		if have == c {
			return true
		}
	}
	return false
}

// Style returns the inline style value written for prop.
func (n *Node) Style(prop string) string { return n.style[prop] }

// Styles returns a copy of the inline styles.
func (n *Node) Styles() map[string]string {
	out := make(map[string]string, len(n.style))
	for k, v := range n.style {
		out[k] = v
	}
	return out
}

// SetAttr sets an attribute. The class attribute also replaces the class list.
func (n *Node) SetAttr(name, value string) {
	n.attrs[name] = value
	if name == "class" {
		n.classes = strings.Fields(value)
	}
}

// position returns the computed position with the static default applied.
func (n *Node) position() string {
	if n.Position == "" {
		return PositionStatic
	}
	return n.Position
}

func (n *Node) scrollable() bool {
	return n.Overflow == "auto" || n.Overflow == "scroll"
}

func (n *Node) addClass(c string) {
	if c == "" || n.HasClass(c) {
		return
	}
	n.classes = append(n.classes, c)
	n.attrs["class"] = strings.Join(n.classes, " ")
}

func (n *Node) appendChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, have := range n.children {
		if have == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// walk visits n and its descendants depth-first until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}
