package popper

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popper/pkg/dom"
	"github.com/matzehuels/popper/pkg/errors"
)

// ContentType selects how PopperSpec.Content is inserted.
type ContentType string

const (
	ContentText ContentType = "text"
	ContentHTML ContentType = "html"
	ContentNode ContentType = "node"
)

// ParentRef names the element a synthesized popper is appended to.
// Element wins over Selector; neither means the body.
type ParentRef struct {
	Element  dom.Element
	Selector string
}

// PopperSpec describes a popper element to create.
//
// Attributes use the "name" or "name:value" form. Empty fields take the
// values from DefaultPopperSpec.
type PopperSpec struct {
	TagName     string
	ClassNames  []string
	Attributes  []string
	Parent      ParentRef
	Content     string
	ContentType ContentType
	// ContentNode is appended when ContentType is ContentNode.
	ContentNode dom.Element

	NoArrow         bool
	ArrowTagName    string
	ArrowClassNames []string
	ArrowAttributes []string
}

// DefaultPopperSpec returns the defaults filled in by Synthesize.
func DefaultPopperSpec() PopperSpec {
	return PopperSpec{
		TagName:         "div",
		ClassNames:      []string{"popper"},
		ContentType:     ContentText,
		ArrowTagName:    "div",
		ArrowClassNames: []string{"popper__arrow"},
		ArrowAttributes: []string{"x-arrow"},
	}
}

func (s PopperSpec) withDefaults() PopperSpec {
	def := DefaultPopperSpec()
	if s.TagName == "" {
		s.TagName = def.TagName
	}
	if s.ClassNames == nil {
		s.ClassNames = def.ClassNames
	}
	if s.ContentType == "" {
		s.ContentType = def.ContentType
	}
	if s.ArrowTagName == "" {
		s.ArrowTagName = def.ArrowTagName
	}
	if s.ArrowClassNames == nil {
		s.ArrowClassNames = def.ArrowClassNames
	}
	if s.ArrowAttributes == nil {
		s.ArrowAttributes = def.ArrowAttributes
	}
	return s
}

// Synthesize creates the element described by spec and appends it to its
// parent. A parent selector that matches nothing is an error; one that
// matches several elements uses the first and logs a warning.
func Synthesize(doc dom.Document, spec PopperSpec, logger *log.Logger) (dom.Element, error) {
	if logger == nil {
		logger = Options{}.logger()
	}
	spec = spec.withDefaults()

	parent, err := resolveParent(doc, spec.Parent, logger)
	if err != nil {
		return nil, err
	}

	el := doc.CreateElement(spec.TagName)
	doc.AddClass(el, spec.ClassNames...)
	setAttributes(doc, el, spec.Attributes)

	switch spec.ContentType {
	case ContentNode:
		if spec.ContentNode != nil {
			doc.AppendChild(el, spec.ContentNode)
		}
	case ContentHTML:
		if err := doc.SetInnerHTML(el, spec.Content); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "popper content")
		}
	case ContentText:
		doc.SetTextContent(el, spec.Content)
	default:
		return nil, errors.Field(errors.ErrCodeInvalidConfig, "contentType", "unknown content type %q", spec.ContentType)
	}

	if !spec.NoArrow {
		a := doc.CreateElement(spec.ArrowTagName)
		doc.AddClass(a, spec.ArrowClassNames...)
		setAttributes(doc, a, spec.ArrowAttributes)
		doc.AppendChild(el, a)
	}

	doc.AppendChild(parent, el)
	return el, nil
}

func resolveParent(doc dom.Document, ref ParentRef, logger *log.Logger) (dom.Element, error) {
	if ref.Element != nil {
		return ref.Element, nil
	}
	if ref.Selector == "" {
		return doc.Body(), nil
	}
	if err := errors.ValidateSelector(ref.Selector); err != nil {
		return nil, err
	}
	matches := doc.QuerySelectorAll(ref.Selector)
	switch {
	case len(matches) == 0:
		return nil, errors.New(errors.ErrCodeParentNotFound, "parent %q matched no element", ref.Selector)
	case len(matches) > 1:
		logger.Warn("parent matched more than one element, using the first",
			"selector", ref.Selector, "matches", len(matches))
	}
	return matches[0], nil
}

func setAttributes(doc dom.Document, el dom.Element, attrs []string) {
	for _, a := range attrs {
		name, value, _ := strings.Cut(a, ":")
		doc.SetAttribute(el, name, value)
	}
}

// NewFromSpec synthesizes a popper from spec and places it against reference.
func NewFromSpec(doc dom.Document, reference dom.Element, spec PopperSpec, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	el, err := Synthesize(doc, spec, o.Logger)
	if err != nil {
		return nil, err
	}
	return New(doc, reference, el, WithOptions(o))
}
