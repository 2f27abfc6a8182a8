package popper

import (
	"testing"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/geometry"
)

func dataFor(placement string, ref geometry.ClientRect, popper geometry.Rect) *Data {
	p := geometry.MustParsePlacement(placement)
	d := &Data{Placement: p, OriginalPlacement: p, Styles: dom.Styles{}}
	d.Offsets.Reference = ref
	d.Offsets.Popper = PopperOffsets{Rect: popper, Position: PositionAbsolute}
	return d
}

func TestShift(t *testing.T) {
	ref := geometry.NewClientRect(100, 100, 50, 20)
	tests := []struct {
		placement string
		popper    geometry.Rect
		want      geometry.Rect
	}{
		{"bottom", geometry.Rect{Top: 120, Left: 85, Width: 80, Height: 30}, geometry.Rect{Top: 120, Left: 85, Width: 80, Height: 30}},
		{"bottom-start", geometry.Rect{Top: 120, Left: 85, Width: 80, Height: 30}, geometry.Rect{Top: 120, Left: 100, Width: 80, Height: 30}},
		{"top-end", geometry.Rect{Top: 70, Left: 85, Width: 80, Height: 30}, geometry.Rect{Top: 70, Left: 70, Width: 80, Height: 30}},
		{"right-start", geometry.Rect{Top: 95, Left: 150, Width: 80, Height: 30}, geometry.Rect{Top: 100, Left: 150, Width: 80, Height: 30}},
		{"left-end", geometry.Rect{Top: 95, Left: 20, Width: 80, Height: 30}, geometry.Rect{Top: 90, Left: 20, Width: 80, Height: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.placement, func(t *testing.T) {
			d := dataFor(tt.placement, ref, tt.popper)
			shift(nil, d)
			if d.Offsets.Popper.Rect != tt.want {
				t.Fatalf("shift = %+v, want %+v", d.Offsets.Popper.Rect, tt.want)
			}
			shift(nil, d)
			if d.Offsets.Popper.Rect != tt.want {
				t.Errorf("second shift = %+v, want %+v", d.Offsets.Popper.Rect, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	e := &Engine{opts: Options{Offset: 10}}
	tests := []struct {
		placement string
		top, left float64
	}{
		{"left", -10, 0},
		{"right-start", 10, 0},
		{"top", 0, -10},
		{"bottom-end", 0, 10},
	}
	for _, tt := range tests {
		d := dataFor(tt.placement, geometry.ClientRect{}, geometry.Rect{})
		offset(e, d)
		if d.Offsets.Popper.Top != tt.top || d.Offsets.Popper.Left != tt.left {
			t.Errorf("%s: offset = (%v, %v), want (%v, %v)", tt.placement,
				d.Offsets.Popper.Top, d.Offsets.Popper.Left, tt.top, tt.left)
		}
	}
}

func TestPreventOverflowKeepsPopperInside(t *testing.T) {
	e := &Engine{opts: DefaultOptions()}
	b := geometry.Boundaries{Top: 10, Right: 300, Bottom: 200, Left: 10}

	for left := -200.0; left <= 500; left += 37 {
		for top := -100.0; top <= 400; top += 41 {
			d := dataFor("bottom", geometry.ClientRect{}, geometry.Rect{Top: top, Left: left, Width: 80, Height: 30})
			d.Boundaries = b
			preventOverflow(e, d)

			p := d.Offsets.Popper
			if p.Left < b.Left || p.Right() > b.Right || p.Top < b.Top || p.Bottom() > b.Bottom {
				t.Fatalf("start (%v, %v): popper %+v escapes %+v", top, left, p.Rect, b)
			}
			if p.Width != 80 || p.Height != 30 {
				t.Fatalf("size changed to %vx%v", p.Width, p.Height)
			}
		}
	}
}

func TestPreventOverflowInsufficientSpace(t *testing.T) {
	e := &Engine{opts: DefaultOptions()}
	d := dataFor("bottom", geometry.ClientRect{}, geometry.Rect{Top: 0, Left: 40, Width: 100, Height: 10})
	d.Boundaries = geometry.Boundaries{Top: 0, Right: 60, Bottom: 100, Left: 10}

	preventOverflow(e, d)

	// Left is checked before right, so right wins and pins the popper's
	// left edge at right - width.
	if got := d.Offsets.Popper.Left; got != -40 {
		t.Errorf("left = %v, want -40", got)
	}
}

func TestKeepTogether(t *testing.T) {
	ref := geometry.NewClientRect(100.7, 100.2, 50, 20)
	tests := []struct {
		name   string
		popper geometry.Rect
		want   geometry.Rect
	}{
		{"overlapping", geometry.Rect{Top: 120, Left: 90, Width: 80, Height: 30}, geometry.Rect{Top: 120, Left: 90, Width: 80, Height: 30}},
		{"past left", geometry.Rect{Top: 120, Left: 0, Width: 80, Height: 30}, geometry.Rect{Top: 120, Left: 20, Width: 80, Height: 30}},
		{"past right", geometry.Rect{Top: 120, Left: 400, Width: 80, Height: 30}, geometry.Rect{Top: 120, Left: 150, Width: 80, Height: 30}},
		{"above", geometry.Rect{Top: 0, Left: 90, Width: 80, Height: 30}, geometry.Rect{Top: 70, Left: 90, Width: 80, Height: 30}},
		{"below", geometry.Rect{Top: 300, Left: 90, Width: 80, Height: 30}, geometry.Rect{Top: 120, Left: 90, Width: 80, Height: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dataFor("bottom", ref, tt.popper)
			keepTogether(nil, d)
			if d.Offsets.Popper.Rect != tt.want {
				t.Errorf("keepTogether = %+v, want %+v", d.Offsets.Popper.Rect, tt.want)
			}
		})
	}
}

func TestArrowOffsetsStyles(t *testing.T) {
	got := ArrowOffsets{Side: geometry.Top, Offset: 12}.Styles()
	if got["top"] != 12.0 || got["left"] != "" {
		t.Errorf("Styles() = %v", got)
	}
	got = ArrowOffsets{Side: geometry.Left, Offset: 9}.Styles()
	if got["left"] != 9.0 || got["top"] != "" {
		t.Errorf("Styles() = %v", got)
	}
}

func TestDataClone(t *testing.T) {
	d := dataFor("top", geometry.ClientRect{}, geometry.Rect{Width: 10})
	d.Offsets.Arrow = &ArrowOffsets{Side: geometry.Left, Offset: 8}
	d.Styles["color"] = "red"

	c := d.Clone()
	c.Offsets.Arrow.Offset = 20
	c.Styles["color"] = "blue"

	if d.Offsets.Arrow.Offset != 8 || d.Styles["color"] != "red" {
		t.Error("Clone() shares state with the original")
	}
}

func TestModifierTable(t *testing.T) {
	for id := ModifierShift; id < ModifierCustom; id++ {
		m := Builtin(id)
		if m.Fn == nil || m.ID != id {
			t.Errorf("Builtin(%d) = %+v", id, m)
		}
		byName, ok := ModifierByName(m.Name)
		if !ok || byName.ID != id {
			t.Errorf("ModifierByName(%q) = %+v, %v", m.Name, byName, ok)
		}
		if id.String() != m.Name {
			t.Errorf("String() = %q, want %q", id.String(), m.Name)
		}
	}
	if ModifierCustom.String() != "custom" {
		t.Errorf("ModifierCustom.String() = %q", ModifierCustom.String())
	}

	defer func() {
		if recover() == nil {
			t.Error("Builtin(ModifierCustom) should panic")
		}
	}()
	Builtin(ModifierCustom)
}
