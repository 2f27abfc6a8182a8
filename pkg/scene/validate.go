package scene

import (
	"fmt"

	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/geometry"
	"github.com/matzehuels/popper/pkg/popper"
)

var (
	validPositions = map[string]bool{"": true, "static": true, "relative": true, "absolute": true, "fixed": true}
	validOverflows = map[string]bool{"": true, "visible": true, "hidden": true, "auto": true, "scroll": true}
	validContent   = map[string]bool{"": true, string(popper.ContentText): true, string(popper.ContentHTML): true}
)

// Validate checks the scene's structure. Element ids coming from an HTML
// fixture are only known after Build, so references to them are resolved there.
func (s *Scene) Validate() error {
	if !validViewport(s.Viewport.Width, s.Viewport.Height) {
		return errors.Field(errors.ErrCodeInvalidScene, "viewport", "width and height must be in (0, %d]", MaxViewport)
	}
	if s.HTML != "" && s.HTMLFile != "" {
		return errors.Field(errors.ErrCodeInvalidScene, "html_file", "set either html or html_file")
	}
	if s.Reference == "" {
		return errors.Field(errors.ErrCodeInvalidScene, "reference", "is required")
	}

	ids := make(map[string]bool, len(s.Elements))
	for i, el := range s.Elements {
		field := fmt.Sprintf("elements[%d]", i)
		if el.ID == "" {
			return errors.Field(errors.ErrCodeInvalidScene, field+".id", "is required")
		}
		if ids[el.ID] {
			return errors.Field(errors.ErrCodeInvalidScene, field+".id", "duplicate id %q", el.ID)
		}
		if el.Parent != "" && !ids[el.Parent] && !s.hasMarkup() {
			return errors.Field(errors.ErrCodeInvalidScene, field+".parent", "unknown element %q (parents must be listed first)", el.Parent)
		}
		if el.Box.Width < 0 || el.Box.Height < 0 {
			return errors.Field(errors.ErrCodeInvalidScene, field+".box", "negative size")
		}
		if !validPositions[el.Position] {
			return errors.Field(errors.ErrCodeInvalidScene, field+".position", "unknown position %q", el.Position)
		}
		if !validOverflows[el.Overflow] {
			return errors.Field(errors.ErrCodeInvalidScene, field+".overflow", "unknown overflow %q", el.Overflow)
		}
		if err := validateMargin(field+".margin", el.Margin); err != nil {
			return err
		}
		ids[el.ID] = true
	}

	if err := s.Popper.validate(); err != nil {
		return err
	}
	if err := s.Options.validate(); err != nil {
		return err
	}

	for i, ev := range s.Events {
		field := fmt.Sprintf("events[%d]", i)
		switch ev.Type {
		case EventScroll:
		case EventResize:
			if !validViewport(ev.Width, ev.Height) {
				return errors.Field(errors.ErrCodeInvalidScene, field, "resize width and height must be in (0, %d]", MaxViewport)
			}
		default:
			return errors.Field(errors.ErrCodeInvalidScene, field+".type", "unknown event %q (want scroll or resize)", ev.Type)
		}
	}
	return nil
}

// validViewport also rejects NaN, which TOML can express.
func validViewport(w, h float64) bool {
	return w > 0 && w <= MaxViewport && h > 0 && h <= MaxViewport
}

func (s *Scene) hasMarkup() bool { return s.HTML != "" || s.HTMLFile != "" }

func (p PopperBlock) validate() error {
	if !p.Synthesized() {
		return nil
	}
	if p.Size.Width <= 0 || p.Size.Height <= 0 {
		return errors.Field(errors.ErrCodeInvalidScene, "popper.size", "a synthesized popper needs a positive size")
	}
	if !validContent[p.ContentType] {
		return errors.Field(errors.ErrCodeInvalidScene, "popper.content_type", "unknown content type %q (want text or html)", p.ContentType)
	}
	if p.Parent != "" {
		if err := errors.ValidateSelector(p.Parent); err != nil {
			return errors.Field(errors.ErrCodeInvalidSelector, "popper.parent", "%s", errors.UserMessage(err))
		}
	}
	return validateMargin("popper.margin", p.Margin)
}

func (o OptionBlock) validate() error {
	if o.Placement != "" {
		if _, err := geometry.ParsePlacement(o.Placement); err != nil {
			return errors.Field(errors.ErrCodeInvalidPlacement, "options.placement", "%s", errors.UserMessage(err))
		}
	}
	switch o.Boundaries {
	case "", "viewport", "window":
	default:
		if err := errors.ValidateSelector(o.Boundaries); err != nil {
			return errors.Field(errors.ErrCodeInvalidSelector, "options.boundaries", "%s", errors.UserMessage(err))
		}
	}
	if o.BoundariesPadding != nil && *o.BoundariesPadding < 0 {
		return errors.Field(errors.ErrCodeInvalidConfig, "options.boundaries_padding", "must not be negative")
	}
	if _, err := sides("options.prevent_overflow_order", o.PreventOverflowOrder); err != nil {
		return err
	}
	if !isDefaultFlip(o.FlipBehavior) {
		if _, err := sides("options.flip_behavior", o.FlipBehavior); err != nil {
			return err
		}
	}
	if o.ArrowElement != "" {
		if err := errors.ValidateSelector(o.ArrowElement); err != nil {
			return errors.Field(errors.ErrCodeInvalidSelector, "options.arrow_element", "%s", errors.UserMessage(err))
		}
	}
	for i, path := range o.Scripts {
		if err := errors.ValidateExtension(path, ".js"); err != nil {
			return errors.Field(errors.ErrCodeInvalidPath, fmt.Sprintf("options.scripts[%d]", i), "%s", errors.UserMessage(err))
		}
	}
	return nil
}

// isDefaultFlip reports whether the list selects the default "flip" behavior.
func isDefaultFlip(list []string) bool {
	return len(list) == 0 || (len(list) == 1 && list[0] == "flip")
}

func sides(field string, names []string) ([]geometry.Side, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]geometry.Side, len(names))
	for i, n := range names {
		side, err := geometry.ParseSide(n)
		if err != nil {
			return nil, errors.Field(errors.ErrCodeInvalidPlacement, fmt.Sprintf("%s[%d]", field, i), "%s", errors.UserMessage(err))
		}
		out[i] = side
	}
	return out, nil
}

func validateMargin(field string, m []float64) error {
	switch len(m) {
	case 0, 1, 4:
		return nil
	}
	return errors.Field(errors.ErrCodeInvalidScene, field, "want 1 or 4 values, got %d", len(m))
}
