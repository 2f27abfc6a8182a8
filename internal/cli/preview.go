package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
	"github.com/matzehuels/popper/pkg/scene"
)

// Preview styles
var (
	previewFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	previewRefStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	previewPopStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	previewBoundStyle = lipgloss.NewStyle().Foreground(colorRed)
	previewEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	previewStep    = 10 // pixels per key press
	previewMaxCols = 72
	previewMinCols = 16
)

func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [scene]",
		Short: "Scroll and resize a scene interactively",
		Long: `Preview opens the placed scene in the terminal. Arrow keys (or hjkl) scroll
the reference's scroll container, + and - change the viewport height, < and >
its width. The popper is re-placed after every change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			st, e, err := placeStage(args[0], logger)
			if err != nil {
				return err
			}
			defer e.Close()

			_, err = tea.NewProgram(newPreviewModel(st, e), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// previewModel
// =============================================================================

// previewModel is the bubbletea model of the preview command. The stage and
// engine are shared across model copies.
type previewModel struct {
	stage   *scene.Stage
	engine  *popper.Engine
	result  scene.Result
	updates *int
	cols    int
	last    string
}

func newPreviewModel(st *scene.Stage, e *popper.Engine) previewModel {
	updates := new(int)
	e.OnUpdate(func(*popper.Data) { *updates++ })
	return previewModel{
		stage:   st,
		engine:  e,
		result:  st.NewResult(e),
		updates: updates,
		cols:    previewMaxCols,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll(0, -previewStep)
		case "down", "j":
			m.scroll(0, previewStep)
		case "left", "h":
			m.scroll(-previewStep, 0)
		case "right", "l":
			m.scroll(previewStep, 0)
		case "+", "=":
			m.resize(0, previewStep)
		case "-":
			m.resize(0, -previewStep)
		case ">":
			m.resize(previewStep, 0)
		case "<":
			m.resize(-previewStep, 0)
		case "u":
			m.engine.Update()
			m.last = "update"
		default:
			return m, nil
		}
		m.result = m.stage.NewResult(m.engine)
	case tea.WindowSizeMsg:
		m.cols = min(max(msg.Width-4, previewMinCols), previewMaxCols)
	}
	return m, nil
}

// scroll moves the element the engine listens to. Without a scroll listener
// (window boundaries) the page is scrolled.
func (m *previewModel) scroll(dx, dy float64) {
	doc := m.stage.Doc
	target := m.engine.ScrollTarget()
	if target == nil {
		target = doc.Window()
	}
	cur := doc.ScrollOffset(target)
	x, y := math.Max(0, cur.X+dx), math.Max(0, cur.Y+dy)
	doc.ScrollTo(target, x, y)
	m.last = fmt.Sprintf("scroll %s (%g, %g)", strings.ToLower(target.NodeName()), x, y)
}

func (m *previewModel) resize(dw, dh float64) {
	vs := m.stage.Doc.ViewportSize()
	w, h := math.Max(previewStep, vs.Width+dw), math.Max(previewStep, vs.Height+dh)
	m.stage.Doc.Resize(w, h)
	m.last = fmt.Sprintf("resize %gx%g", w, h)
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Preview " + m.result.Scene))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows scroll  +/- height  </> width  u update  q quit"))
	b.WriteString("\n\n")

	b.WriteString(previewFrameStyle.Render(m.minimap()))
	b.WriteString("\n")

	placement := StyleHighlight.Render(m.result.Placement)
	if m.result.Flipped {
		placement += StyleDim.Render(" (flipped from " + m.result.OriginalPlacement + ")")
	}
	vs := m.stage.Doc.ViewportSize()
	rows := [][2]string{
		{"placement", placement},
		{"popper", formatRect(m.result.Popper.Left, m.result.Popper.Top, m.result.Popper.Width, m.result.Popper.Height)},
		{"viewport", fmt.Sprintf("%gx%g", vs.Width, vs.Height)},
		{"updates", fmt.Sprintf("%d", *m.updates)},
	}
	if m.last != "" {
		rows = append(rows, [2]string{"last", m.last})
	}
	for _, r := range rows {
		b.WriteString(keyValue(r[0], r[1]) + "\n")
	}
	return b.String()
}

// minimap draws the viewport as a character grid: boundaries as ':', the
// reference as 'R' and the popper as 'P'.
func (m previewModel) minimap() string {
	vs := m.stage.Doc.ViewportSize()
	ref := m.stage.Doc.BoundingRect(m.stage.Reference).Rect()
	var pop, bounds geometry.Rect
	if d := m.engine.Last(); d != nil {
		pop = m.engine.ViewportRect(d.Offsets.Popper.Rect)
		b := d.Boundaries
		bounds = m.engine.ViewportRect(geometry.Rect{Left: b.Left, Top: b.Top, Width: b.Width(), Height: b.Height()})
	}
	grid := rasterize(vs, m.cols, []layer{
		{bounds, ':', true},
		{ref, 'R', false},
		{pop, 'P', false},
	})

	lines := make([]string, len(grid))
	for i, row := range grid {
		var line strings.Builder
		for _, r := range row {
			line.WriteString(cellStyle(r).Render(string(r)))
		}
		lines[i] = line.String()
	}
	return strings.Join(lines, "\n")
}

func cellStyle(r rune) lipgloss.Style {
	switch r {
	case 'R':
		return previewRefStyle
	case 'P':
		return previewPopStyle
	case ':':
		return previewBoundStyle
	}
	return previewEmptyStyle
}

// layer is one rectangle painted onto the minimap; later layers win.
type layer struct {
	rect    geometry.Rect
	glyph   rune
	outline bool
}

// rasterize maps viewport coordinates onto a grid cols wide. Cells are taken
// to be twice as tall as they are wide.
func rasterize(viewport geometry.Size, cols int, layers []layer) [][]rune {
	if viewport.Width <= 0 || viewport.Height <= 0 || cols <= 0 {
		return nil
	}
	cw := viewport.Width / float64(cols)
	ch := 2 * cw
	rows := max(1, int(math.Ceil(viewport.Height/ch)))

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(".", cols))
	}
	for _, l := range layers {
		if l.rect.Width <= 0 || l.rect.Height <= 0 {
			continue
		}
		c0 := clampInt(int(math.Floor(l.rect.Left/cw)), 0, cols-1)
		c1 := clampInt(int(math.Ceil((l.rect.Left+l.rect.Width)/cw))-1, 0, cols-1)
		r0 := clampInt(int(math.Floor(l.rect.Top/ch)), 0, rows-1)
		r1 := clampInt(int(math.Ceil((l.rect.Top+l.rect.Height)/ch))-1, 0, rows-1)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				if l.outline && r != r0 && r != r1 && c != c0 && c != c1 {
					continue
				}
				grid[r][c] = l.glyph
			}
		}
	}
	return grid
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
