package memdom

import (
	"github.com/matzehuels/popper/pkg/dom"
)

// Window implements dom.Events.
func (d *Document) Window() dom.Element { return element(d.window) }

// AddEventListener implements dom.Events.
func (d *Document) AddEventListener(target dom.Element, event string, fn func()) dom.ListenerID {
	n := node(target)
	if n == nil || fn == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	byEvent := d.listeners[n]
	if byEvent == nil {
		byEvent = make(map[string][]listener)
		d.listeners[n] = byEvent
	}
	byEvent[event] = append(byEvent[event], listener{id: d.nextID, fn: fn})
	return d.nextID
}

// RemoveEventListener implements dom.Events. Unknown ids are ignored.
func (d *Document) RemoveEventListener(target dom.Element, event string, id dom.ListenerID) {
	n := node(target)
	if n == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	listeners := d.listeners[n][event]
	for i, l := range listeners {
		if l.id == id {
			d.listeners[n][event] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for event on target.
func (d *Document) ListenerCount(target dom.Element, event string) int {
	n := node(target)
	if n == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[n][event])
}

// TotalListeners returns the number of listeners registered on the whole document.
func (d *Document) TotalListeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, byEvent := range d.listeners {
		for _, ls := range byEvent {
			total += len(ls)
		}
	}
	return total
}

// Dispatch synchronously invokes the listeners registered for event on target
// and returns how many ran. Listeners added or removed during dispatch take
// effect on the next dispatch.
func (d *Document) Dispatch(target dom.Element, event string) int {
	n := node(target)
	if n == nil {
		return 0
	}
	d.mu.Lock()
	snapshot := append([]listener(nil), d.listeners[n][event]...)
	d.mu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
	return len(snapshot)
}

// ScrollTo sets the scroll offset of el and dispatches a scroll event. Scrolling
// the root or body scrolls the page, and the event goes to the window.
func (d *Document) ScrollTo(el dom.Element, x, y float64) {
	n := node(el)
	if n == nil {
		return
	}
	target := n
	switch n {
	case d.root, d.body, d.window:
		d.root.Scroll.X, d.root.Scroll.Y = x, y
		d.body.Scroll.X, d.body.Scroll.Y = 0, 0
		target = d.window
	default:
		n.Scroll.X, n.Scroll.Y = x, y
	}
	d.Dispatch(target, dom.EventScroll)
}

// Resize changes the viewport, grows the root and body to at least the new
// size, and dispatches a resize event on the window.
func (d *Document) Resize(width, height float64) {
	d.Viewport.Width, d.Viewport.Height = width, height
	for _, n := range []*Node{d.root, d.body} {
		n.Box.Width, n.Box.Height = width, height
	}
	d.Dispatch(d.window, dom.EventResize)
}
