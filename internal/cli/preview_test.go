package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/popper/pkg/geometry"
)

func newTestPreview(t *testing.T) previewModel {
	t.Helper()
	st, e, err := placeStage(tooltipScene, newLogger(io.Discard, LogInfo))
	if err != nil {
		t.Fatalf("placeStage: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return newPreviewModel(st, e)
}

func press(m previewModel, msg tea.KeyMsg) (previewModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(previewModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPreviewScroll(t *testing.T) {
	m := newTestPreview(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if *m.updates != 1 {
		t.Errorf("updates = %d, want 1", *m.updates)
	}
	if m.last != "scroll #window (0, 10)" {
		t.Errorf("last = %q", m.last)
	}
	if m.result.Placement != "bottom" || m.result.Popper.Top != 120 {
		t.Errorf("result = %+v", m.result)
	}

	// Scrolling back past the top clamps at zero.
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.last != "scroll #window (0, 0)" {
		t.Errorf("last = %q", m.last)
	}
}

func TestPreviewResize(t *testing.T) {
	m := newTestPreview(t)

	m, _ = press(m, runes("-"))
	if vs := m.stage.Doc.ViewportSize(); vs.Height != 590 || vs.Width != 800 {
		t.Errorf("viewport = %+v, want 800x590", vs)
	}
	m, _ = press(m, runes(">"))
	if vs := m.stage.Doc.ViewportSize(); vs.Width != 810 {
		t.Errorf("viewport width = %g, want 810", vs.Width)
	}
	if *m.updates != 2 {
		t.Errorf("updates = %d, want 2", *m.updates)
	}
}

func TestPreviewQuit(t *testing.T) {
	m := newTestPreview(t)
	if _, cmd := press(m, runes("q")); cmd == nil {
		t.Error("q should quit")
	}
	if _, cmd := press(m, runes("x")); cmd != nil {
		t.Error("unbound key returned a command")
	}
}

func TestPreviewView(t *testing.T) {
	m := newTestPreview(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 44, Height: 30})
	m = next.(previewModel)
	if m.cols != 40 {
		t.Errorf("cols = %d, want 40", m.cols)
	}

	view := m.View()
	for _, want := range []string{"Preview tooltip", "placement", "bottom", "800x600", "R", "P"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRasterize(t *testing.T) {
	grid := rasterize(geometry.Size{Width: 100, Height: 40}, 10, []layer{
		{geometry.Rect{Width: 100, Height: 40}, ':', true},
		{geometry.Rect{Left: 20, Width: 20, Height: 20}, 'R', false},
		{geometry.Rect{Left: 95, Top: 30, Width: 50, Height: 50}, 'P', false},
		{geometry.Rect{Left: 50, Top: 20}, 'X', false},
	})
	want := []string{
		"::RR::::::",
		":::::::::P",
	}
	if len(grid) != len(want) {
		t.Fatalf("rows = %d, want %d", len(grid), len(want))
	}
	for i := range want {
		if got := string(grid[i]); got != want[i] {
			t.Errorf("row %d = %q, want %q", i, got, want[i])
		}
	}

	if rasterize(geometry.Size{}, 10, nil) != nil {
		t.Error("empty viewport should yield no grid")
	}
}
