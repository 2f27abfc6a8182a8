package script

import (
	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
)

func exportData(d *popper.Data) map[string]any {
	p := d.Offsets.Popper
	r := d.Offsets.Reference
	var arrow any
	if a := d.Offsets.Arrow; a != nil {
		arrow = map[string]any{"side": string(a.Side), "offset": a.Offset}
	}
	styles := make(map[string]any, len(d.Styles))
	for k, v := range d.Styles {
		styles[k] = v
	}
	return map[string]any{
		"placement":         d.Placement.String(),
		"originalPlacement": d.OriginalPlacement.String(),
		"flipped":           d.Flipped,
		"offsets": map[string]any{
			"popper": map[string]any{
				"top":      p.Top,
				"left":     p.Left,
				"width":    p.Width,
				"height":   p.Height,
				"position": p.Position,
			},
			"reference": map[string]any{
				"top":    r.Top,
				"left":   r.Left,
				"right":  r.Right,
				"bottom": r.Bottom,
				"width":  r.Width,
				"height": r.Height,
			},
			"arrow": arrow,
		},
		"boundaries": map[string]any{
			"top":    d.Boundaries.Top,
			"right":  d.Boundaries.Right,
			"bottom": d.Boundaries.Bottom,
			"left":   d.Boundaries.Left,
		},
		"styles": styles,
	}
}

func exportOptions(o popper.Options) map[string]any {
	order := make([]any, len(o.PreventOverflowOrder))
	for i, s := range o.PreventOverflowOrder {
		order[i] = string(s)
	}
	return map[string]any{
		"placement":            o.Placement.String(),
		"offset":               o.Offset,
		"boundariesElement":    o.Boundaries.String(),
		"boundariesPadding":    o.BoundariesPadding,
		"preventOverflowOrder": order,
		"arrowOffset":          o.ArrowOffset,
		"gpuAcceleration":      o.GPUAcceleration,
		"forceAbsolute":        o.ForceAbsolute,
	}
}

// importData copies the writable fields of m back into d.
func importData(m map[string]any, d *popper.Data) error {
	offsets, _ := m["offsets"].(map[string]any)
	pop, _ := offsets["popper"].(map[string]any)

	top, left := d.Offsets.Popper.Top, d.Offsets.Popper.Left
	var err error
	if v, ok := pop["top"]; ok {
		if top, err = number(v, "offsets.popper.top"); err != nil {
			return err
		}
	}
	if v, ok := pop["left"]; ok {
		if left, err = number(v, "offsets.popper.left"); err != nil {
			return err
		}
	}

	styles := dom.Styles{}
	if raw, ok := m["styles"].(map[string]any); ok {
		for k, v := range raw {
			switch v.(type) {
			case string, int64, float64, nil:
				styles[k] = v
			default:
				return errors.Field(errors.ErrCodeScript, "styles."+k, "unsupported value %T", v)
			}
		}
	}

	d.Offsets.Popper.Rect = geometry.Rect{Top: top, Left: left, Width: d.Offsets.Popper.Width, Height: d.Offsets.Popper.Height}
	d.Styles = styles
	return nil
}

func number(v any, field string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, errors.Field(errors.ErrCodeScript, field, "want a number, got %T", v)
}
