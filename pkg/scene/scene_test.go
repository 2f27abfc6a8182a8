package scene

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
)

func mustLoad(t *testing.T, name string) *Scene {
	t.Helper()
	s, err := Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s) error: %v", name, err)
	}
	return s
}

func mustStage(t *testing.T, s *Scene) (*Stage, *popper.Engine) {
	t.Helper()
	st, err := s.Build(nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	e, err := st.Engine()
	if err != nil {
		t.Fatalf("Engine() error: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return st, e
}

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"tooltip.toml", "tooltip.yaml", "tooltip.json"} {
		t.Run(name, func(t *testing.T) {
			s := mustLoad(t, name)
			if s.Name != "tooltip" || s.Reference != "ref" {
				t.Errorf("name/reference = %q/%q", s.Name, s.Reference)
			}
			if len(s.Elements) != 2 || s.Elements[1].Overflow != "auto" {
				t.Errorf("elements = %+v", s.Elements)
			}
			if s.Elements[0].Box != (Box{Left: 100, Top: 100, Width: 50, Height: 20}) {
				t.Errorf("ref box = %+v", s.Elements[0].Box)
			}
			if !s.Popper.Synthesized() || s.Popper.Size != (Size{Width: 80, Height: 30}) {
				t.Errorf("popper = %+v", s.Popper)
			}
			if s.Options.Placement != "bottom" {
				t.Errorf("placement = %q", s.Options.Placement)
			}
			if len(s.Events) != 3 || s.Events[1].Target != "panel" || s.Events[1].Y != 50 {
				t.Errorf("events = %+v", s.Events)
			}
			if s.Dir() != "testdata" {
				t.Errorf("Dir() = %q", s.Dir())
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		path string
		code errors.Code
	}{
		{"testdata/missing.toml", errors.ErrCodeFileNotFound},
		{"testdata/scene.txt", errors.ErrCodeInvalidFormat},
		{"", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		_, err := Load(tt.path)
		if !errors.Is(err, tt.code) {
			t.Errorf("Load(%q) error = %v, want code %s", tt.path, err, tt.code)
		}
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, "reference = \"r\"\nbogus = 1\n[viewport]\nwidth = 1\nheight = 1\n[popper]\nid = \"p\"\n"},
		{FormatYAML, "reference: r\nbogus: 1\nviewport: {width: 1, height: 1}\npopper: {id: p}\n"},
		{FormatJSON, `{"reference": "r", "bogus": 1, "viewport": {"width": 1, "height": 1}, "popper": {"id": "p"}}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.format); !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("Parse() error = %v, want INVALID_SCENE", err)
			}
		})
	}
	if _, err := Parse(nil, "xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Parse(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestDecode(t *testing.T) {
	in := `{"reference": "r", "viewport": {"width": 10, "height": 10}, "popper": {"id": "p"}}`
	s, err := Decode(bytes.NewBufferString(in), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.Reference != "r" || s.Popper.ID != "p" {
		t.Errorf("scene = %+v", s)
	}
}

func validScene() Scene {
	return Scene{
		Viewport:  Size{Width: 800, Height: 600},
		Elements:  []Element{{ID: "ref", Box: Box{Width: 10, Height: 10}}},
		Reference: "ref",
		Popper:    PopperBlock{Size: Size{Width: 20, Height: 20}},
	}
}

func TestValidate(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name   string
		mutate func(*Scene)
		code   errors.Code
		field  string
	}{
		{"ok", func(*Scene) {}, "", ""},
		{"viewport", func(s *Scene) { s.Viewport.Width = 0 }, errors.ErrCodeInvalidScene, "viewport"},
		{"both html sources", func(s *Scene) { s.HTML, s.HTMLFile = "<p>", "a.html" }, errors.ErrCodeInvalidScene, "html_file"},
		{"no reference", func(s *Scene) { s.Reference = "" }, errors.ErrCodeInvalidScene, "reference"},
		{"element id", func(s *Scene) { s.Elements[0].ID = "" }, errors.ErrCodeInvalidScene, "elements[0].id"},
		{"duplicate id", func(s *Scene) { s.Elements = append(s.Elements, s.Elements[0]) }, errors.ErrCodeInvalidScene, "elements[1].id"},
		{"unknown parent", func(s *Scene) { s.Elements[0].Parent = "nope" }, errors.ErrCodeInvalidScene, "elements[0].parent"},
		{"parent from markup", func(s *Scene) { s.HTML = "<p>"; s.Elements[0].Parent = "nope" }, "", ""},
		{"position", func(s *Scene) { s.Elements[0].Position = "sticky" }, errors.ErrCodeInvalidScene, "elements[0].position"},
		{"overflow", func(s *Scene) { s.Elements[0].Overflow = "clip" }, errors.ErrCodeInvalidScene, "elements[0].overflow"},
		{"margin", func(s *Scene) { s.Elements[0].Margin = []float64{1, 2} }, errors.ErrCodeInvalidScene, "elements[0].margin"},
		{"popper size", func(s *Scene) { s.Popper.Size = Size{} }, errors.ErrCodeInvalidScene, "popper.size"},
		{"popper by id needs no size", func(s *Scene) { s.Popper = PopperBlock{ID: "tip"} }, "", ""},
		{"content type", func(s *Scene) { s.Popper.ContentType = "node" }, errors.ErrCodeInvalidScene, "popper.content_type"},
		{"popper parent", func(s *Scene) { s.Popper.Parent = "div span" }, errors.ErrCodeInvalidSelector, "popper.parent"},
		{"placement", func(s *Scene) { s.Options.Placement = "up" }, errors.ErrCodeInvalidPlacement, "options.placement"},
		{"boundaries", func(s *Scene) { s.Options.Boundaries = "a > b" }, errors.ErrCodeInvalidSelector, "options.boundaries"},
		{"padding", func(s *Scene) { s.Options.BoundariesPadding = &neg }, errors.ErrCodeInvalidConfig, "options.boundaries_padding"},
		{"overflow order", func(s *Scene) { s.Options.PreventOverflowOrder = []string{"left", "up"} }, errors.ErrCodeInvalidPlacement, "options.prevent_overflow_order[1]"},
		{"flip keyword", func(s *Scene) { s.Options.FlipBehavior = []string{"flip"} }, "", ""},
		{"flip sides", func(s *Scene) { s.Options.FlipBehavior = []string{"top", "flip"} }, errors.ErrCodeInvalidPlacement, "options.flip_behavior[1]"},
		{"script extension", func(s *Scene) { s.Options.Scripts = []string{"a.py"} }, errors.ErrCodeInvalidPath, "options.scripts[0]"},
		{"event type", func(s *Scene) { s.Events = []Event{{Type: "click"}} }, errors.ErrCodeInvalidScene, "events[0].type"},
		{"resize size", func(s *Scene) { s.Events = []Event{{Type: EventResize}} }, errors.ErrCodeInvalidScene, "events[0]"},
		{"viewport too large", func(s *Scene) { s.Viewport.Height = MaxViewport + 1 }, errors.ErrCodeInvalidScene, "viewport"},
		{"viewport not a number", func(s *Scene) { s.Viewport.Width = math.NaN() }, errors.ErrCodeInvalidScene, "viewport"},
		{"resize too large", func(s *Scene) { s.Events = []Event{{Type: EventResize, Width: 1e12, Height: 10}} }, errors.ErrCodeInvalidScene, "events[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			tt.mutate(&s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("Validate() error = %v, want code %s", err, tt.code)
			}
			var fe *errors.FieldError
			if !asFieldError(err, &fe) || fe.Field != tt.field {
				t.Errorf("field = %v, want %q", fe, tt.field)
			}
		})
	}
}

func asFieldError(err error, target **errors.FieldError) bool {
	e, ok := err.(*errors.Error)
	if !ok {
		return false
	}
	*target, ok = e.Cause.(*errors.FieldError)
	return ok
}

func TestBuildAndPlace(t *testing.T) {
	st, e := mustStage(t, mustLoad(t, "tooltip.toml"))

	r := st.NewResult(e)
	if r.Placement != "bottom" || r.Flipped {
		t.Errorf("placement = %s flipped=%v", r.Placement, r.Flipped)
	}
	if r.Popper.Top != 120 || r.Popper.Left != 85 {
		t.Errorf("popper = %+v, want top 120 left 85", r.Popper)
	}
	if r.Boundaries != (geometry.Boundaries{Top: 5, Right: 795, Bottom: 595, Left: 5}) {
		t.Errorf("boundaries = %+v", r.Boundaries)
	}
	if got := r.Styles["transform"]; got != "translate3d(85px, 120px, 0)" {
		t.Errorf("transform = %q", got)
	}
	if r.Arrow == nil || r.Arrow.Side != geometry.Left || r.Arrow.Offset != 35 {
		t.Errorf("arrow = %+v", r.Arrow)
	}
	if got := r.ArrowStyles["left"]; got != "35px" {
		t.Errorf("arrow left = %q", got)
	}
	if r.Attribute != "bottom" || r.Position != popper.PositionAbsolute {
		t.Errorf("attribute/position = %q/%q", r.Attribute, r.Position)
	}
	if st.Popper.Text() != "Hello" {
		t.Errorf("popper text = %q", st.Popper.Text())
	}
}

func TestReplay(t *testing.T) {
	st, e := mustStage(t, mustLoad(t, "tooltip.yaml"))

	type step struct {
		updated   bool
		placement string
		top       float64
	}
	var got []step
	err := st.Replay(e, func(i int, ev Event, d *popper.Data) {
		if d == nil {
			got = append(got, step{})
			return
		}
		got = append(got, step{true, d.Placement.String(), d.Offsets.Popper.Top})
	})
	if err != nil {
		t.Fatalf("Replay() error: %v", err)
	}
	want := []step{
		{true, "top", 70},
		{false, "", 0},
		{true, "bottom", 120},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d steps, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestApplyUnknownTarget(t *testing.T) {
	st, _ := mustStage(t, mustLoad(t, "tooltip.json"))
	if err := st.Apply(Event{Type: EventScroll, Target: "ghost"}); !errors.Is(err, errors.ErrCodeElementNotFound) {
		t.Errorf("Apply() error = %v, want ELEMENT_NOT_FOUND", err)
	}
}

func TestBuildHTMLFixture(t *testing.T) {
	st, e := mustStage(t, mustLoad(t, "html.toml"))

	if len(st.Scripts) != 1 || st.Scripts[0].Name() != "nudge" {
		t.Fatalf("scripts = %v", st.Scripts)
	}
	names := popper.ModifierNames(e.Modifiers())
	if names[len(names)-2] != "nudge" || names[len(names)-1] != "applyStyle" {
		t.Errorf("modifiers = %v", names)
	}

	r := st.NewResult(e)
	if r.Placement != "right" || r.Popper.Left != 154 || r.Popper.Top != 95 {
		t.Errorf("result = %s (%v, %v), want right (95, 154)", r.Placement, r.Popper.Top, r.Popper.Left)
	}
	if r.Boundaries != (geometry.Boundaries{Top: 5, Right: 295, Bottom: 295, Left: 5}) {
		t.Errorf("boundaries = %+v", r.Boundaries)
	}
	if r.Styles["z-index"] != "10" {
		t.Errorf("z-index = %q", r.Styles["z-index"])
	}
	if got := r.Styles["transform"]; got != "translate3d(154px, 95px, 0)" {
		t.Errorf("transform = %q", got)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		code   errors.Code
	}{
		{"reference", func(s *Scene) { s.Reference = "ghost" }, errors.ErrCodeElementNotFound},
		{"popper id", func(s *Scene) { s.Popper = PopperBlock{ID: "ghost"} }, errors.ErrCodeElementNotFound},
		{"popper parent", func(s *Scene) { s.Popper.Parent = "#ghost" }, errors.ErrCodeParentNotFound},
		{"boundary element", func(s *Scene) { s.Options.Boundaries = "#ghost" }, errors.ErrCodeElementNotFound},
		{"element parent in markup", func(s *Scene) {
			s.HTML = "<html><body></body></html>"
			s.Elements = append(s.Elements, Element{ID: "x", Parent: "ghost"})
		}, errors.ErrCodeElementNotFound},
		{"html file", func(s *Scene) { s.HTMLFile = "ghost.html" }, errors.ErrCodeFileNotFound},
		{"script", func(s *Scene) { s.Options.Scripts = []string{"ghost.js"} }, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			s.SetDir(t.TempDir())
			tt.mutate(&s)
			if err := s.Validate(); err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if _, err := s.Build(nil); !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestBuildOptions(t *testing.T) {
	off := false
	pad := 12.0
	s := validScene()
	s.Elements = append(s.Elements, Element{ID: "frame", Box: Box{Width: 400, Height: 400}})
	s.Options = OptionBlock{
		Placement:            "left-end",
		GPUAcceleration:      &off,
		Offset:               4,
		Boundaries:           "#frame",
		BoundariesPadding:    &pad,
		PreventOverflowOrder: []string{"top", "bottom"},
		FlipBehavior:         []string{"left", "right", "top"},
		ArrowElement:         ".arrow",
		ArrowOffset:          3,
		Modifiers:            []string{"offset", "preventOverflow", "flip", "custom", "applyStyle"},
		ModifiersIgnored:     []string{"flip"},
		ForceAbsolute:        true,
	}
	st, err := s.Build(nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	o := st.Options
	if o.Placement != geometry.MustParsePlacement("left-end") || o.GPUAcceleration || o.Offset != 4 || !o.ForceAbsolute {
		t.Errorf("scalars = %+v", o)
	}
	if o.Boundaries.Mode != popper.BoundaryElement || o.Boundaries.Element != st.Doc.ByID("frame") {
		t.Errorf("boundaries = %v", o.Boundaries)
	}
	if o.BoundariesPadding != 12 || o.ArrowOffset != 3 || o.Arrow.Selector != ".arrow" {
		t.Errorf("padding/arrow = %v/%v/%+v", o.BoundariesPadding, o.ArrowOffset, o.Arrow)
	}
	if len(o.PreventOverflowOrder) != 2 || len(o.FlipBehavior) != 3 || o.FlipBehavior[2] != geometry.Top {
		t.Errorf("orders = %v %v", o.PreventOverflowOrder, o.FlipBehavior)
	}
	names := popper.ModifierNames(o.Modifiers)
	if len(names) != 5 || names[3] != "custom" || o.Modifiers[3].Fn != nil {
		t.Errorf("modifiers = %v", names)
	}
	if len(o.ModifiersIgnored) != 1 {
		t.Errorf("ignored = %v", o.ModifiersIgnored)
	}
}

func TestWithScript(t *testing.T) {
	noop := func(*popper.Engine, *popper.Data) {}
	m := popper.Custom("nudge", noop)

	got := popper.ModifierNames(withScript(popper.DefaultModifiers(), m))
	want := []string{"shift", "offset", "preventOverflow", "keepTogether", "arrow", "flip", "nudge", "applyStyle"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	slot := []popper.Modifier{popper.Builtin(popper.ModifierShift), {Name: "nudge"}, popper.Builtin(popper.ModifierApplyStyle)}
	out := withScript(slot, m)
	if len(out) != 3 || out[1].Fn == nil {
		t.Errorf("named slot not replaced: %v", popper.ModifierNames(out))
	}

	out = withScript([]popper.Modifier{popper.Builtin(popper.ModifierShift)}, m)
	if names := popper.ModifierNames(out); len(names) != 2 || names[1] != "nudge" {
		t.Errorf("append = %v", names)
	}
}

func TestResultJSON(t *testing.T) {
	st, e := mustStage(t, mustLoad(t, "tooltip.toml"))
	var buf bytes.Buffer
	if err := st.NewResult(e).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"engine", "placement", "popper", "boundaries", "styles", "arrow", "x_placement"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, buf.String())
		}
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := st.NewResult(e).WriteFile(path); err != nil {
		t.Errorf("WriteFile() error: %v", err)
	}
}

func TestExampleScenes(t *testing.T) {
	for _, name := range []string{"tooltip.toml", "dropdown.yaml", "sidebar.toml"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(filepath.Join("..", "..", "examples", name))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			st, e := mustStage(t, s)
			if res := st.NewResult(e); res.Placement == "" {
				t.Error("no placement computed")
			}
			if err := st.Replay(e, nil); err != nil {
				t.Errorf("Replay() error: %v", err)
			}
		})
	}
}
