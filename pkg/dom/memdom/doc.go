// Package memdom is an in-memory [dom.Document] with explicit layout boxes.
//
// Nothing is laid out automatically: every element carries the border box the
// caller assigns it ([Node.Box]), in page coordinates before any scrolling.
// Elements with Position "fixed" (and their descendants) use viewport
// coordinates instead. From these boxes the document answers the geometry
// queries the popper engine needs, applying the scroll offsets of scrolled
// ancestors and of the page.
//
// A document starts with a root (html) and body element sized to the
// viewport:
//
//	doc := memdom.New(1024, 768)
//	ref := doc.Add(doc.BodyNode(), "button", "ref", geometry.Rect{Top: 100, Left: 100, Width: 50, Height: 20})
//	tip := doc.Add(doc.BodyNode(), "div", "tip", geometry.Rect{Width: 80, Height: 30})
//
// Documents can also be loaded from HTML with [Parse]; boxes then come from
// data-box attributes.
//
// Events are dispatched synchronously. [Document.ScrollTo] and
// [Document.Resize] change geometry and fire the corresponding event.
package memdom
