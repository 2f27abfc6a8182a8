package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/popper/pkg/dom/memdom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
	"github.com/matzehuels/popper/pkg/scene"
)

// Palette holds the snapshot colors as hex strings.
type Palette struct {
	Background string
	Element    string
	Outline    string
	Reference  string
	Popper     string
	Arrow      string
	Boundaries string
	Text       string
}

// DefaultPalette is used unless WithPalette overrides it.
var DefaultPalette = Palette{
	Background: "#ffffff",
	Element:    "#f1f3f5",
	Outline:    "#adb5bd",
	Reference:  "#74c0fc",
	Popper:     "#ffd43b",
	Arrow:      "#f08c00",
	Boundaries: "#e03131",
	Text:       "#212529",
}

// MaxSnapshotPixels bounds the scaled image area Snapshot allocates.
const MaxSnapshotPixels = 1 << 26

// SnapshotOption configures Snapshot.
type SnapshotOption func(*snapshot)

type snapshot struct {
	scale   float64
	labels  bool
	palette Palette
}

// WithScale multiplies the image size (default 1).
func WithScale(s float64) SnapshotOption {
	return func(r *snapshot) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithLabels toggles element ids and the placement caption (default on).
func WithLabels(on bool) SnapshotOption {
	return func(r *snapshot) { r.labels = on }
}

// WithPalette replaces DefaultPalette.
func WithPalette(p Palette) SnapshotOption {
	return func(r *snapshot) { r.palette = p }
}

// Snapshot draws the viewport of a placed stage: every laid-out element, the
// reference, the padded boundaries (dashed), the popper at its computed
// position and its arrow.
func Snapshot(st *scene.Stage, e *popper.Engine, opts ...SnapshotOption) (image.Image, error) {
	d := e.Last()
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "engine has not placed the popper")
	}
	r := snapshot{scale: 1, labels: true, palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}

	vp := st.Doc.ViewportSize()
	w, h := vp.Width*r.scale, vp.Height*r.scale
	if !(w >= 1 && h >= 1 && w*h <= MaxSnapshotPixels) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"snapshot of %gx%g at scale %g exceeds %d pixels", vp.Width, vp.Height, r.scale, MaxSnapshotPixels)
	}
	dc := gg.NewContext(int(w+0.5), int(h+0.5))
	dc.Scale(r.scale, r.scale)
	dc.SetHexColor(r.palette.Background)
	dc.Clear()
	dc.SetLineWidth(1)

	r.drawTree(dc, st, st.Doc.BodyNode())

	ref := st.Doc.BoundingRect(st.Reference).Rect()
	r.box(dc, ref, r.palette.Reference, r.palette.Outline)
	r.label(dc, ref, st.Reference.ID())

	b := d.Boundaries
	bounds := e.ViewportRect(geometry.Rect{Left: b.Left, Top: b.Top, Width: b.Width(), Height: b.Height()})
	dc.SetHexColor(r.palette.Boundaries)
	dc.SetDash(6, 4)
	dc.DrawRectangle(bounds.Left, bounds.Top, bounds.Width, bounds.Height)
	dc.Stroke()
	dc.SetDash()

	pop := e.ViewportRect(d.Offsets.Popper.Rect)
	r.box(dc, pop, r.palette.Popper, r.palette.Arrow)
	if d.Offsets.Arrow != nil {
		if a := st.ArrowNode(); a != nil {
			r.arrow(dc, d, pop, st.Doc.OuterSize(a))
		}
	}
	if r.labels {
		caption := d.Placement.String()
		if d.Flipped {
			caption += " (flipped from " + d.OriginalPlacement.String() + ")"
		}
		dc.SetHexColor(r.palette.Text)
		dc.DrawStringAnchored(caption, pop.Left+pop.Width/2, pop.Top+pop.Height/2, 0.5, 0.35)
	}
	return dc.Image(), nil
}

// WritePNG encodes Snapshot as PNG.
func WritePNG(w io.Writer, st *scene.Stage, e *popper.Engine, opts ...SnapshotOption) error {
	img, err := Snapshot(st, e, opts...)
	if err != nil {
		return err
	}
	return EncodePNG(w, img)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

// SavePNG writes Snapshot to path.
func SavePNG(path string, st *scene.Stage, e *popper.Engine, opts ...SnapshotOption) error {
	if err := errors.ValidateExtension(path, ".png"); err != nil {
		return err
	}
	img, err := Snapshot(st, e, opts...)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// drawTree paints every element below n except the reference and popper
// subtrees, which are drawn on top afterwards.
func (r snapshot) drawTree(dc *gg.Context, st *scene.Stage, n *memdom.Node) {
	for _, c := range n.Children() {
		if c == st.Popper || c == st.Reference {
			continue
		}
		rect := st.Doc.BoundingRect(c).Rect()
		r.box(dc, rect, r.palette.Element, r.palette.Outline)
		r.label(dc, rect, c.ID())
		r.drawTree(dc, st, c)
	}
}

func (r snapshot) box(dc *gg.Context, rect geometry.Rect, fill, stroke string) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	dc.DrawRectangle(rect.Left, rect.Top, rect.Width, rect.Height)
	dc.SetHexColor(fill)
	dc.FillPreserve()
	dc.SetHexColor(stroke)
	dc.Stroke()
}

func (r snapshot) label(dc *gg.Context, rect geometry.Rect, text string) {
	if !r.labels || text == "" {
		return
	}
	dc.SetHexColor(r.palette.Text)
	dc.DrawString(text, rect.Left+3, rect.Top+12)
}

// arrow draws a triangle on the popper edge facing the reference, with its
// tip pointing at the reference.
func (r snapshot) arrow(dc *gg.Context, d *popper.Data, pop geometry.Rect, size geometry.Size) {
	a := d.Offsets.Arrow
	side := d.Placement.Side
	dc.SetHexColor(r.palette.Arrow)
	switch side {
	case geometry.Top, geometry.Bottom:
		x := pop.Left + a.Offset
		edge, tip := pop.Bottom(), pop.Bottom()+size.Height
		if side == geometry.Bottom {
			edge, tip = pop.Top, pop.Top-size.Height
		}
		dc.MoveTo(x, edge)
		dc.LineTo(x+size.Width, edge)
		dc.LineTo(x+size.Width/2, tip)
	default:
		y := pop.Top + a.Offset
		edge, tip := pop.Right(), pop.Right()+size.Width
		if side == geometry.Right {
			edge, tip = pop.Left, pop.Left-size.Width
		}
		dc.MoveTo(edge, y)
		dc.LineTo(edge, y+size.Height)
		dc.LineTo(tip, y+size.Height/2)
	}
	dc.ClosePath()
	dc.Fill()
}
