package popper

import (
	"github.com/matzehuels/popper/pkg/dom"
)

// registration is one listener the engine added and must remove.
type registration struct {
	target dom.Element
	event  string
	id     dom.ListenerID
}

// setupEventListeners re-runs Update on window resize and, unless the
// boundaries are the whole window, on scroll of the reference's scroll
// parent. Page-level scroll parents are replaced by the window target.
func (e *Engine) setupEventListeners() {
	handler := func() { e.Update() }
	win := e.doc.Window()
	e.listen(win, dom.EventResize, handler)

	if e.opts.Boundaries.Mode == BoundaryWindow {
		return
	}
	target := e.doc.ScrollParent(e.reference)
	if target == nil || target == e.doc.Body() || target == e.doc.Root() {
		target = win
	}
	e.listen(target, dom.EventScroll, handler)
	e.scrollTarget = target
}

func (e *Engine) listen(target dom.Element, event string, fn func()) {
	id := e.doc.AddEventListener(target, event, fn)
	e.listeners = append(e.listeners, registration{target: target, event: event, id: id})
	e.logger.Debug("listening", "event", event, "target", target.NodeName())
}

// removeEventListeners removes exactly the listeners added by
// setupEventListeners; the caller holds e.mu.
func (e *Engine) removeEventListeners() {
	for _, r := range e.listeners {
		e.doc.RemoveEventListener(r.target, r.event, r.id)
	}
	e.listeners = nil
}

// ScrollTarget returns the element whose scroll events trigger updates, or
// nil when the engine does not listen for scroll (anymore).
func (e *Engine) ScrollTarget() dom.Element {
	if e.closed.Load() {
		return nil
	}
	return e.scrollTarget
}
