package scene

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/popper/pkg/dom/memdom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
)

// Result is the exported outcome of one placement.
type Result struct {
	Scene             string               `json:"scene,omitempty"`
	Engine            string               `json:"engine"`
	Position          string               `json:"position"`
	Placement         string               `json:"placement"`
	OriginalPlacement string               `json:"original_placement"`
	Flipped           bool                 `json:"flipped"`
	Popper            geometry.Rect        `json:"popper"`
	Reference         geometry.ClientRect  `json:"reference"`
	Boundaries        geometry.Boundaries  `json:"boundaries"`
	Arrow             *popper.ArrowOffsets `json:"arrow,omitempty"`
	Styles            map[string]string    `json:"styles"`
	ArrowStyles       map[string]string    `json:"arrow_styles,omitempty"`
	Attribute         string               `json:"x_placement,omitempty"`
}

// NewResult captures the engine's latest placement together with the styles
// that ended up on the popper and arrow elements.
func (st *Stage) NewResult(e *popper.Engine) Result {
	d := e.Last()
	r := Result{
		Scene:    st.Scene.Name,
		Engine:   e.ID(),
		Position: e.Position(),
		Styles:   st.Popper.Styles(),
	}
	if d == nil {
		return r
	}
	r.Placement = d.Placement.String()
	r.OriginalPlacement = d.OriginalPlacement.String()
	r.Flipped = d.Flipped
	r.Popper = d.Offsets.Popper.Rect
	r.Reference = d.Offsets.Reference
	r.Boundaries = d.Boundaries
	r.Arrow = d.Offsets.Arrow
	r.Attribute, _ = st.Popper.Attr(popper.PlacementAttribute)
	if d.Offsets.Arrow != nil {
		if n := st.ArrowNode(); n != nil {
			r.ArrowStyles = n.Styles()
		}
	}
	return r
}

// ArrowNode resolves the configured arrow inside the popper, or nil.
func (st *Stage) ArrowNode() *memdom.Node {
	a := st.Options.Arrow
	if a.Element != nil {
		n, _ := a.Element.(*memdom.Node)
		return n
	}
	if a.Selector == "" {
		return nil
	}
	n, _ := st.Doc.QuerySelector(st.Popper, a.Selector).(*memdom.Node)
	return n
}

// WriteJSON writes r as indented JSON.
func (r Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	return nil
}

// WriteFile writes r as indented JSON to path.
func (r Result) WriteFile(path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
