package memdom

import (
	"strings"

	"github.com/matzehuels/popper/pkg/errors"
)

// selector is a single compound selector: tag, #id, .class and [attr=value] parts.
type selector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	name     string
	value    string
	hasValue bool
}

func parseSelector(s string) (selector, error) {
	if err := errors.ValidateSelector(s); err != nil {
		return selector{}, err
	}
	s = strings.TrimSpace(s)
	var sel selector
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("#.[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}
	sel.tag = strings.ToLower(readIdent())
	if sel.tag == "*" {
		sel.tag = ""
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			sel.id = readIdent()
		case '.':
			i++
			sel.classes = append(sel.classes, readIdent())
		case '[':
			end := strings.IndexByte(s[i:], ']')
			body := s[i+1 : i+end]
			i += end + 1
			name, value, hasValue := strings.Cut(body, "=")
			sel.attrs = append(sel.attrs, attrMatch{
				name:     strings.TrimSpace(name),
				value:    strings.Trim(strings.TrimSpace(value), `"'`),
				hasValue: hasValue,
			})
		default:
			return selector{}, errors.New(errors.ErrCodeInvalidSelector, "unexpected %q in selector %q", s[i], s)
		}
	}
	return sel, nil
}

func (sel selector) matches(n *Node) bool {
	if strings.HasPrefix(n.tag, "#") {
		return false
	}
	if sel.tag != "" && sel.tag != n.tag {
		return false
	}
	if sel.id != "" && n.attrs["id"] != sel.id {
		return false
	}
	for _, c := range sel.classes {
		if !n.HasClass(c) {
			return false
		}
	}
	for _, a := range sel.attrs {
		v, ok := n.attrs[a.name]
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}
