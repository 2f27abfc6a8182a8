package dom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Styles maps style property names to numbers or strings.
type Styles map[string]any

// pixelProperties get a px unit when their value is numeric.
var pixelProperties = map[string]bool{
	"width":  true,
	"height": true,
	"top":    true,
	"right":  true,
	"bottom": true,
	"left":   true,
}

// FormatStyle renders a single style value the way it is written inline.
// Numeric values (or numeric strings) of geometry properties get a px suffix;
// everything else is written verbatim.
func FormatStyle(prop string, value any) string {
	var s string
	numeric := false
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s = v
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && v != "" {
			numeric = true
		}
	case float64:
		s, numeric = strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		s, numeric = strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		s, numeric = strconv.Itoa(v), true
	case int64:
		s, numeric = strconv.FormatInt(v, 10), true
	default:
		s = fmt.Sprint(v)
	}
	if numeric && pixelProperties[prop] {
		return s + "px"
	}
	return s
}

// Merge returns a copy of s with every entry of other applied on top.
func (s Styles) Merge(other Styles) Styles {
	out := make(Styles, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Formatted renders every entry with FormatStyle.
func (s Styles) Formatted() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = FormatStyle(k, v)
	}
	return out
}

// String renders the styles as a sorted inline declaration list.
func (s Styles) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %s;", k, FormatStyle(k, s[k]))
	}
	return b.String()
}
