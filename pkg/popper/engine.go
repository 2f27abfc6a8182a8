package popper

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/observability"
)

// Engine keeps one popper placed against one reference element.
//
// An Engine is safe for concurrent use: Update and Close are serialized, and
// updates after Close are ignored. Last, Closed, ScrollTarget and the other
// accessors never block, so modifiers may call them. A ModifierFunc must not
// call Update, OnUpdate, Bind or Close.
type Engine struct {
	id        string
	doc       dom.Document
	reference dom.Element
	popper    dom.Element
	opts      Options
	modifiers []Modifier
	logger    *log.Logger

	// position is "fixed" or "absolute", decided once at construction.
	position string

	// scrollTarget is set once by setupEventListeners.
	scrollTarget dom.Element

	closed atomic.Bool
	last   atomic.Pointer[Data]

	mu        sync.Mutex
	onUpdate  func(*Data)
	listeners []registration
	unbind    []func() bool
}

// New places popper against reference and starts listening for resize and
// scroll events. Callers must Close the engine (or Bind it to a context) to
// release the listeners.
func New(doc dom.Document, reference, popper dom.Element, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	if reference == nil {
		return nil, errors.New(errors.ErrCodeElementNotFound, "reference element is nil")
	}
	if popper == nil {
		return nil, errors.New(errors.ErrCodeElementNotFound, "popper element is nil")
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		id:        uuid.NewString(),
		doc:       doc,
		reference: reference,
		popper:    popper,
		opts:      o,
	}
	e.logger = o.logger().WithPrefix("popper").With("engine", e.ShortID())
	e.modifiers = filterIgnored(o.Modifiers, o.ModifiersIgnored)
	for _, m := range e.modifiers {
		if m.Fn == nil {
			e.logger.Debug("modifier has no implementation, keeping placeholder", "modifier", m.Name)
		}
	}

	// Margins may depend on the placement attribute, so it has to be set
	// before the first measurement.
	if indexOf(e.modifiers, nameApplyStyle) >= 0 {
		doc.SetAttribute(popper, PlacementAttribute, o.Placement.String())
	}

	e.position = PositionAbsolute
	if !o.ForceAbsolute && doc.IsFixed(reference) {
		e.position = PositionFixed
	}
	doc.SetStyles(popper, dom.Styles{"position": e.position, "top": 0})

	e.mu.Lock()
	e.update()
	e.setupEventListeners()
	e.mu.Unlock()

	e.logger.Debug("created",
		"placement", o.Placement,
		"position", e.position,
		"boundaries", o.Boundaries,
		"modifiers", ModifierNames(e.modifiers))
	return e, nil
}

// Update runs one placement cycle and then the OnUpdate callback, if any.
func (e *Engine) Update() {
	e.mu.Lock()
	if e.closed.Load() {
		e.mu.Unlock()
		return
	}
	d := e.update()
	cb := e.onUpdate
	e.mu.Unlock()

	if cb != nil {
		cb(d)
	}
}

// update runs one cycle; the caller holds e.mu. The returned record belongs
// to the caller, Last sees a separate copy.
func (e *Engine) update() *Data {
	start := time.Now()

	d := &Data{
		Placement:         e.opts.Placement,
		OriginalPlacement: e.opts.Placement,
		Styles:            dom.Styles{},
	}
	d.Offsets.Popper, d.Offsets.Reference = e.computeOffsets(d.Placement)
	d.Boundaries = e.computeBoundaries(d)

	e.runModifiers(d, e.modifiers)
	e.last.Store(d.Clone())

	elapsed := time.Since(start)
	observability.Placement().OnUpdate(e.id, d.Placement.String(), d.Flipped, elapsed)
	e.logger.Debug("updated",
		"placement", d.Placement,
		"flipped", d.Flipped,
		"top", d.Offsets.Popper.Top,
		"left", d.Offsets.Popper.Left,
		"duration", elapsed)
	return d
}

// OnCreate calls fn once, synchronously, with the engine.
func (e *Engine) OnCreate(fn func(*Engine)) *Engine {
	fn(e)
	return e
}

// OnUpdate registers fn to run after every subsequent update. The update
// performed during construction does not call it.
func (e *Engine) OnUpdate(fn func(*Data)) *Engine {
	e.mu.Lock()
	e.onUpdate = fn
	e.mu.Unlock()
	return e
}

// Close removes every listener the engine registered. It is safe to call
// more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		return nil
	}
	e.closed.Store(true)
	e.removeEventListeners()
	for _, stop := range e.unbind {
		stop()
	}
	e.unbind = nil
	e.onUpdate = nil
	e.logger.Debug("closed")
	return nil
}

// Bind closes the engine when ctx is done.
func (e *Engine) Bind(ctx context.Context) *Engine {
	stop := context.AfterFunc(ctx, func() { _ = e.Close() })
	e.mu.Lock()
	if e.closed.Load() {
		e.mu.Unlock()
		stop()
		return e
	}
	e.unbind = append(e.unbind, stop)
	e.mu.Unlock()
	return e
}

// Closed reports whether Close has run.
func (e *Engine) Closed() bool {
	return e.closed.Load()
}

// =============================================================================
// Accessors
// =============================================================================

// ID returns the engine's unique id.
func (e *Engine) ID() string { return e.id }

// ShortID returns the first eight characters of the id, for logs.
func (e *Engine) ShortID() string { return e.id[:8] }

// Position returns the positioning mode, "fixed" or "absolute".
func (e *Engine) Position() string { return e.position }

// Options returns the effective configuration.
func (e *Engine) Options() Options { return e.opts }

// Modifiers returns the chain after ignored modifiers were removed.
func (e *Engine) Modifiers() []Modifier {
	return append([]Modifier(nil), e.modifiers...)
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *log.Logger { return e.logger }

// Reference returns the reference element.
func (e *Engine) Reference() dom.Element { return e.reference }

// Popper returns the popper element.
func (e *Engine) Popper() dom.Element { return e.popper }

// Document returns the document the engine measures.
func (e *Engine) Document() dom.Document { return e.doc }

// Last returns a copy of the record produced by the most recent update.
func (e *Engine) Last() *Data {
	d := e.last.Load()
	if d == nil {
		return nil
	}
	return d.Clone()
}
