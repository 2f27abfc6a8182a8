package scene

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popper/pkg/dom/memdom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
	"github.com/matzehuels/popper/pkg/popper/script"
)

// Stage is a built scene: a laid-out document, the two elements to place and
// the engine options.
type Stage struct {
	Scene     *Scene
	Doc       *memdom.Document
	Reference *memdom.Node
	Popper    *memdom.Node
	Options   popper.Options
	Scripts   []*script.Script
}

// Build lays out the scene. The logger is handed to the engine options and
// to popper synthesis; nil discards.
func (s *Scene) Build(logger *log.Logger) (*Stage, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	if s.Scroll != nil {
		root := doc.RootNode()
		root.Scroll = geometry.Point{X: s.Scroll.X, Y: s.Scroll.Y}
	}
	for i, el := range s.Elements {
		if err := addElement(doc, el); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "elements[%d]", i)
		}
	}

	st := &Stage{Scene: s, Doc: doc}
	if st.Reference = doc.ByID(s.Reference); st.Reference == nil {
		return nil, errors.Field(errors.ErrCodeElementNotFound, "reference", "no element with id %q", s.Reference)
	}
	if st.Popper, err = s.popper(doc, logger); err != nil {
		return nil, err
	}
	if st.Options, st.Scripts, err = s.options(doc, logger); err != nil {
		return nil, err
	}
	return st, nil
}

// Engine creates an engine for the stage. The first placement has run when
// it returns.
func (st *Stage) Engine() (*popper.Engine, error) {
	return popper.New(st.Doc, st.Reference, st.Popper, popper.WithOptions(st.Options))
}

// Apply performs one event against the stage's document. Listeners
// registered by an engine run synchronously.
func (st *Stage) Apply(ev Event) error {
	switch ev.Type {
	case EventResize:
		st.Doc.Resize(ev.Width, ev.Height)
	case EventScroll:
		target := st.Doc.Window()
		if ev.Target != "" && ev.Target != "window" {
			n := st.Doc.ByID(ev.Target)
			if n == nil {
				return errors.New(errors.ErrCodeElementNotFound, "scroll target %q", ev.Target)
			}
			target = n
		}
		st.Doc.ScrollTo(target, ev.X, ev.Y)
	default:
		return errors.New(errors.ErrCodeInvalidScene, "unknown event %q", ev.Type)
	}
	return nil
}

// Replay applies the scene's events in order. After each event fn receives
// the update it triggered, or nil when no listener fired. Replay installs its
// own update callback on e.
func (st *Stage) Replay(e *popper.Engine, fn func(i int, ev Event, d *popper.Data)) error {
	var last *popper.Data
	e.OnUpdate(func(d *popper.Data) { last = d })
	defer e.OnUpdate(nil)
	for i, ev := range st.Scene.Events {
		last = nil
		if err := st.Apply(ev); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "events[%d]", i)
		}
		if fn != nil {
			fn(i, ev, last)
		}
	}
	return nil
}

func (s *Scene) document() (*memdom.Document, error) {
	markup := s.HTML
	if s.HTMLFile != "" {
		path := s.resolve(s.HTMLFile)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "html_file %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read %s", path)
		}
		markup = string(data)
	}
	if markup == "" {
		return memdom.New(s.Viewport.Width, s.Viewport.Height), nil
	}
	return memdom.Parse(strings.NewReader(markup), s.Viewport.Width, s.Viewport.Height)
}

func addElement(doc *memdom.Document, el Element) error {
	var parent *memdom.Node
	if el.Parent != "" {
		if parent = doc.ByID(el.Parent); parent == nil {
			return errors.Field(errors.ErrCodeElementNotFound, "parent", "no element with id %q", el.Parent)
		}
	}
	tag := el.Tag
	if tag == "" {
		tag = "div"
	}
	n := doc.Add(parent, tag, el.ID, el.Box.rect())
	n.Margin = edges(el.Margin)
	n.Position = el.Position
	n.Overflow = el.Overflow
	if el.Scroll != nil {
		n.Scroll = geometry.Point{X: el.Scroll.X, Y: el.Scroll.Y}
	}
	if el.Client != nil {
		n.Client = &geometry.Size{Width: el.Client.Width, Height: el.Client.Height}
	}
	doc.AddClass(n, el.Classes...)
	for name, value := range el.Attributes {
		n.SetAttr(name, value)
	}
	if el.Text != "" {
		doc.SetTextContent(n, el.Text)
	}
	return nil
}

func (s *Scene) popper(doc *memdom.Document, logger *log.Logger) (*memdom.Node, error) {
	p := s.Popper
	if !p.Synthesized() {
		n := doc.ByID(p.ID)
		if n == nil {
			return nil, errors.Field(errors.ErrCodeElementNotFound, "popper.id", "no element with id %q", p.ID)
		}
		return n, nil
	}

	spec := popper.PopperSpec{
		TagName:     p.Tag,
		ClassNames:  p.Classes,
		Attributes:  p.Attributes,
		Parent:      popper.ParentRef{Selector: p.Parent},
		Content:     p.Content,
		ContentType: popper.ContentType(p.ContentType),
		NoArrow:     p.NoArrow,
	}
	el, err := popper.Synthesize(doc, spec, logger)
	if err != nil {
		return nil, err
	}
	n := el.(*memdom.Node)
	n.Box = geometry.Rect{Width: p.Size.Width, Height: p.Size.Height}
	n.Margin = edges(p.Margin)
	if !p.NoArrow {
		for _, c := range n.Children() {
			if _, ok := c.Attr("x-arrow"); ok {
				c.Box = geometry.Rect{Width: p.ArrowSize.Width, Height: p.ArrowSize.Height}
			}
		}
	}
	return n, nil
}

func (s *Scene) options(doc *memdom.Document, logger *log.Logger) (popper.Options, []*script.Script, error) {
	ob := s.Options
	o := popper.DefaultOptions()
	o.Logger = logger

	if ob.Placement != "" {
		p, err := geometry.ParsePlacement(ob.Placement)
		if err != nil {
			return o, nil, err
		}
		o.Placement = p
	}
	if ob.GPUAcceleration != nil {
		o.GPUAcceleration = *ob.GPUAcceleration
	}
	o.Offset = ob.Offset
	o.ArrowOffset = ob.ArrowOffset
	o.ForceAbsolute = ob.ForceAbsolute
	if ob.BoundariesPadding != nil {
		o.BoundariesPadding = *ob.BoundariesPadding
	}
	if ob.ArrowElement != "" {
		o.Arrow = popper.ArrowRef{Selector: ob.ArrowElement}
	}

	b, err := boundary(doc, ob.Boundaries)
	if err != nil {
		return o, nil, err
	}
	o.Boundaries = b

	if len(ob.PreventOverflowOrder) > 0 {
		if o.PreventOverflowOrder, err = sides("options.prevent_overflow_order", ob.PreventOverflowOrder); err != nil {
			return o, nil, err
		}
	}
	if !isDefaultFlip(ob.FlipBehavior) {
		if o.FlipBehavior, err = sides("options.flip_behavior", ob.FlipBehavior); err != nil {
			return o, nil, err
		}
	}

	if len(ob.Modifiers) > 0 {
		o.Modifiers = make([]popper.Modifier, len(ob.Modifiers))
		for i, name := range ob.Modifiers {
			o.Modifiers[i], _ = popper.ModifierByName(name)
		}
	}
	o.ModifiersIgnored = append([]string(nil), ob.ModifiersIgnored...)

	scripts := make([]*script.Script, 0, len(ob.Scripts))
	for _, path := range ob.Scripts {
		sc, err := script.Load(s.resolve(path))
		if err != nil {
			return o, nil, err
		}
		scripts = append(scripts, sc)
		o.Modifiers = withScript(o.Modifiers, sc.Modifier())
	}
	return o, scripts, nil
}

// withScript puts m into the slot named after it, or just before applyStyle.
func withScript(mods []popper.Modifier, m popper.Modifier) []popper.Modifier {
	out := append([]popper.Modifier(nil), mods...)
	at := len(out)
	for i, cur := range out {
		if cur.Name == m.Name {
			out[i] = m
			return out
		}
		if cur.ID == popper.ModifierApplyStyle && at == len(out) {
			at = i
		}
	}
	out = append(out, popper.Modifier{})
	copy(out[at+1:], out[at:])
	out[at] = m
	return out
}

func boundary(doc *memdom.Document, v string) (popper.Boundary, error) {
	switch v {
	case "", "viewport":
		return popper.Viewport(), nil
	case "window":
		return popper.Window(), nil
	}
	if err := errors.ValidateSelector(v); err != nil {
		return popper.Boundary{}, errors.Field(errors.ErrCodeInvalidSelector, "options.boundaries", "%s", errors.UserMessage(err))
	}
	matches := doc.QuerySelectorAll(v)
	if len(matches) == 0 {
		return popper.Boundary{}, errors.Field(errors.ErrCodeElementNotFound, "options.boundaries", "%q matched no element", v)
	}
	return popper.Container(matches[0]), nil
}

func (b Box) rect() geometry.Rect {
	return geometry.Rect{Left: b.Left, Top: b.Top, Width: b.Width, Height: b.Height}
}

func edges(m []float64) memdom.Edges {
	switch len(m) {
	case 1:
		return memdom.Edges{Top: m[0], Right: m[0], Bottom: m[0], Left: m[0]}
	case 4:
		return memdom.Edges{Top: m[0], Right: m[1], Bottom: m[2], Left: m[3]}
	}
	return memdom.Edges{}
}
