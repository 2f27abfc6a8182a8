// Package scene loads declarative placement scenes and turns them into a
// memdom document plus engine options.
//
// A scene names a viewport, a set of laid-out elements (or an HTML fixture
// carrying data-box attributes), the reference element, the popper (an existing
// element or one to synthesize) and the engine options. Scenes may also list
// scroll and resize events to replay against a running engine.
//
// Scenes are read from TOML, YAML or JSON; the format follows the file
// extension:
//
//	s, err := scene.Load("tooltip.toml")
//	if err != nil {
//	    return err
//	}
//	st, err := s.Build(logger)
//	if err != nil {
//	    return err
//	}
//	e, err := st.Engine()
package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/popper/pkg/errors"
)

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// MaxViewport bounds the viewport width and height, in CSS pixels.
const MaxViewport = 16384

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// Scene is a complete placement scenario.
type Scene struct {
	Name     string    `toml:"name" yaml:"name" json:"name,omitempty"`
	Viewport Size      `toml:"viewport" yaml:"viewport" json:"viewport"`
	Scroll   *Point    `toml:"scroll" yaml:"scroll" json:"scroll,omitempty"`
	HTML     string    `toml:"html" yaml:"html" json:"html,omitempty"`
	HTMLFile string    `toml:"html_file" yaml:"html_file" json:"html_file,omitempty"`
	Elements []Element `toml:"elements" yaml:"elements" json:"elements,omitempty"`

	Reference string      `toml:"reference" yaml:"reference" json:"reference"`
	Popper    PopperBlock `toml:"popper" yaml:"popper" json:"popper"`
	Options   OptionBlock `toml:"options" yaml:"options" json:"options"`
	Events    []Event     `toml:"events" yaml:"events" json:"events,omitempty"`

	// dir resolves relative html_file and script paths.
	dir string
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `toml:"width" yaml:"width" json:"width"`
	Height float64 `toml:"height" yaml:"height" json:"height"`
}

// Point is a scroll offset.
type Point struct {
	X float64 `toml:"x" yaml:"x" json:"x"`
	Y float64 `toml:"y" yaml:"y" json:"y"`
}

// Box is a border box in page coordinates.
type Box struct {
	Left   float64 `toml:"left" yaml:"left" json:"left"`
	Top    float64 `toml:"top" yaml:"top" json:"top"`
	Width  float64 `toml:"width" yaml:"width" json:"width"`
	Height float64 `toml:"height" yaml:"height" json:"height"`
}

// Element is one laid-out node. Parent names another element's id; empty
// means the body.
type Element struct {
	ID         string            `toml:"id" yaml:"id" json:"id"`
	Tag        string            `toml:"tag" yaml:"tag" json:"tag,omitempty"`
	Parent     string            `toml:"parent" yaml:"parent" json:"parent,omitempty"`
	Box        Box               `toml:"box" yaml:"box" json:"box"`
	Margin     []float64         `toml:"margin" yaml:"margin" json:"margin,omitempty"`
	Position   string            `toml:"position" yaml:"position" json:"position,omitempty"`
	Overflow   string            `toml:"overflow" yaml:"overflow" json:"overflow,omitempty"`
	Scroll     *Point            `toml:"scroll" yaml:"scroll" json:"scroll,omitempty"`
	Client     *Size             `toml:"client" yaml:"client" json:"client,omitempty"`
	Classes    []string          `toml:"classes" yaml:"classes" json:"classes,omitempty"`
	Attributes map[string]string `toml:"attributes" yaml:"attributes" json:"attributes,omitempty"`
	Text       string            `toml:"text" yaml:"text" json:"text,omitempty"`
}

// PopperBlock selects the popper. With ID set an existing element is used;
// otherwise one is synthesized and given Size.
type PopperBlock struct {
	ID string `toml:"id" yaml:"id" json:"id,omitempty"`

	Tag         string    `toml:"tag" yaml:"tag" json:"tag,omitempty"`
	Classes     []string  `toml:"classes" yaml:"classes" json:"classes,omitempty"`
	Attributes  []string  `toml:"attributes" yaml:"attributes" json:"attributes,omitempty"`
	Parent      string    `toml:"parent" yaml:"parent" json:"parent,omitempty"`
	Content     string    `toml:"content" yaml:"content" json:"content,omitempty"`
	ContentType string    `toml:"content_type" yaml:"content_type" json:"content_type,omitempty"`
	Size        Size      `toml:"size" yaml:"size" json:"size"`
	Margin      []float64 `toml:"margin" yaml:"margin" json:"margin,omitempty"`
	NoArrow     bool      `toml:"no_arrow" yaml:"no_arrow" json:"no_arrow,omitempty"`
	ArrowSize   Size      `toml:"arrow_size" yaml:"arrow_size" json:"arrow_size"`
}

// Synthesized reports whether the popper is created rather than looked up.
func (p PopperBlock) Synthesized() bool { return p.ID == "" }

// OptionBlock mirrors popper.Options in file form. Zero values keep the
// engine defaults; pointer fields distinguish "unset" from false or zero.
type OptionBlock struct {
	Placement            string   `toml:"placement" yaml:"placement" json:"placement,omitempty"`
	GPUAcceleration      *bool    `toml:"gpu_acceleration" yaml:"gpu_acceleration" json:"gpu_acceleration,omitempty"`
	Offset               float64  `toml:"offset" yaml:"offset" json:"offset,omitempty"`
	Boundaries           string   `toml:"boundaries" yaml:"boundaries" json:"boundaries,omitempty"`
	BoundariesPadding    *float64 `toml:"boundaries_padding" yaml:"boundaries_padding" json:"boundaries_padding,omitempty"`
	PreventOverflowOrder []string `toml:"prevent_overflow_order" yaml:"prevent_overflow_order" json:"prevent_overflow_order,omitempty"`
	FlipBehavior         []string `toml:"flip_behavior" yaml:"flip_behavior" json:"flip_behavior,omitempty"`
	ArrowElement         string   `toml:"arrow_element" yaml:"arrow_element" json:"arrow_element,omitempty"`
	ArrowOffset          float64  `toml:"arrow_offset" yaml:"arrow_offset" json:"arrow_offset,omitempty"`
	Modifiers            []string `toml:"modifiers" yaml:"modifiers" json:"modifiers,omitempty"`
	ModifiersIgnored     []string `toml:"modifiers_ignored" yaml:"modifiers_ignored" json:"modifiers_ignored,omitempty"`
	ForceAbsolute        bool     `toml:"force_absolute" yaml:"force_absolute" json:"force_absolute,omitempty"`
	// Scripts are JavaScript modifier files. A script whose name appears in
	// Modifiers takes that slot; the rest run just before applyStyle.
	Scripts []string `toml:"scripts" yaml:"scripts" json:"scripts,omitempty"`
}

// Event kinds accepted in a scene's event list.
const (
	EventScroll = "scroll"
	EventResize = "resize"
)

// Event is a replayed scroll or resize. Target is an element id for scroll
// events; empty or "window" scrolls the page.
type Event struct {
	Type   string  `toml:"type" yaml:"type" json:"type"`
	Target string  `toml:"target" yaml:"target" json:"target,omitempty"`
	X      float64 `toml:"x" yaml:"x" json:"x,omitempty"`
	Y      float64 `toml:"y" yaml:"y" json:"y,omitempty"`
	Width  float64 `toml:"width" yaml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" yaml:"height" json:"height,omitempty"`
}

// =============================================================================
// Loading
// =============================================================================

// FormatOf returns the scene format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.ValidateExtension(path, Extensions...)
}

// Load reads, decodes and validates a scene file. Relative html_file and
// script paths are resolved against the file's directory.
func Load(path string) (*Scene, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read %s", path)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Decode reads a scene from r.
func Decode(r io.Reader, format Format) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read scene")
	}
	return Parse(data, format)
}

// Parse decodes and validates a scene. Unknown keys are rejected in every format.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Field(errors.ErrCodeInvalidScene, undecoded[0].String(), "unknown key")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the scene in the given format.
func (s *Scene) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
		return buf.Bytes(), nil
	case FormatYAML:
		out, err := yaml.Marshal(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		return out, nil
	case FormatJSON:
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format)
}

// Dir returns the directory relative paths resolve against.
func (s *Scene) Dir() string { return s.dir }

// SetDir sets the directory relative paths resolve against.
func (s *Scene) SetDir(dir string) { s.dir = dir }

func (s *Scene) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}
