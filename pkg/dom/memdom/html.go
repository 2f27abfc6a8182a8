package memdom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
)

// Layout attributes read by the HTML loader.
const (
	AttrBox    = "data-box"    // "left top width height"
	AttrMargin = "data-margin" // "all" or "top right bottom left"
	AttrScroll = "data-scroll" // "x y"
	AttrClient = "data-client" // "width height"
)

// Parse builds a document from HTML markup. The html and body elements map to
// the document root and body; every other element becomes a [Node] whose
// layout comes from the data-box, data-margin, data-scroll and data-client
// attributes and from position/overflow declarations in its style attribute.
func Parse(r io.Reader, width, height float64) (*Document, error) {
	tree, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse html")
	}
	d := New(width, height)
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			if err := d.convertInto(d.root, c); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// SetInnerHTML implements dom.Builder. Existing children are replaced by the
// parsed fragment.
func (d *Document) SetInnerHTML(el dom.Element, markup string) error {
	n := node(el)
	if n == nil {
		return errors.New(errors.ErrCodeElementNotFound, "set inner html: nil element")
	}
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse inner html")
	}
	d.SetTextContent(n, "")
	for _, hn := range nodes {
		if err := d.convertChild(n, hn); err != nil {
			return err
		}
	}
	return nil
}

// convertInto copies attributes of src onto dst and converts src's children.
func (d *Document) convertInto(dst *Node, src *html.Node) error {
	if err := d.applyAttributes(dst, src.Attr); err != nil {
		return err
	}
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if err := d.convertChild(dst, c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) convertChild(parent *Node, src *html.Node) error {
	switch src.Type {
	case html.TextNode:
		parent.text += strings.TrimSpace(src.Data)
		return nil
	case html.ElementNode:
	default:
		return nil
	}
	switch src.DataAtom {
	case atom.Head:
		return nil
	case atom.Body:
		return d.convertInto(d.body, src)
	}
	n := d.newNode(src.Data)
	parent.appendChild(n)
	return d.convertInto(n, src)
}

func (d *Document) applyAttributes(n *Node, attrs []html.Attribute) error {
	for _, a := range attrs {
		var err error
		switch a.Key {
		case AttrBox:
			var v []float64
			if v, err = parseNumbers(a.Val, 4); err == nil {
				n.Box = geometry.Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}
			}
		case AttrMargin:
			var v []float64
			if v, err = parseNumbers(a.Val, 1, 4); err == nil {
				if len(v) == 1 {
					v = []float64{v[0], v[0], v[0], v[0]}
				}
				n.Margin = Edges{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
			}
		case AttrScroll:
			var v []float64
			if v, err = parseNumbers(a.Val, 2); err == nil {
				n.Scroll = geometry.Point{X: v[0], Y: v[1]}
			}
		case AttrClient:
			var v []float64
			if v, err = parseNumbers(a.Val, 2); err == nil {
				n.Client = &geometry.Size{Width: v[0], Height: v[1]}
			}
		case "style":
			applyStyleAttr(n, a.Val)
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "<%s %s=%q>", n.tag, a.Key, a.Val)
		}
		n.SetAttr(a.Key, a.Val)
	}
	return nil
}

// applyStyleAttr picks the layout-relevant declarations out of an inline style.
func applyStyleAttr(n *Node, decl string) {
	for _, part := range strings.Split(decl, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))
		switch prop {
		case "position":
			n.Position = value
		case "overflow", "overflow-x", "overflow-y":
			if n.Overflow == "" || value == "auto" || value == "scroll" {
				n.Overflow = value
			}
		}
		n.style[prop] = value
	}
}

// parseNumbers parses whitespace or comma separated numbers; counts lists the
// accepted lengths.
func parseNumbers(s string, counts ...int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	ok := false
	for _, c := range counts {
		ok = ok || len(fields) == c
	}
	if !ok {
		return nil, fmt.Errorf("want %v numbers, got %d", counts, len(fields))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
