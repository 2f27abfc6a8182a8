package popper

import (
	"fmt"
)

// ModifierID identifies a built-in modifier. Custom marks a caller-supplied step.
type ModifierID int

// Built-in modifiers, plus the Custom variant.
const (
	ModifierShift ModifierID = iota
	ModifierOffset
	ModifierPreventOverflow
	ModifierKeepTogether
	ModifierArrow
	ModifierFlip
	ModifierApplyStyle
	ModifierCustom
)

// ModifierFunc transforms the placement record in place.
type ModifierFunc func(e *Engine, d *Data)

// Modifier is one step of the chain.
type Modifier struct {
	ID   ModifierID
	Name string
	// Fn is nil for placeholders, which the runner skips.
	Fn ModifierFunc
}

// Built-in modifier names as they appear in configuration.
const (
	nameShift           = "shift"
	nameOffset          = "offset"
	namePreventOverflow = "preventOverflow"
	nameKeepTogether    = "keepTogether"
	nameArrow           = "arrow"
	nameFlip            = "flip"
	nameApplyStyle      = "applyStyle"
)

type builtin struct {
	name string
	fn   ModifierFunc
}

// builtins is indexed by ModifierID.
var builtins = [ModifierCustom]builtin{
	ModifierShift:           {nameShift, shift},
	ModifierOffset:          {nameOffset, offset},
	ModifierPreventOverflow: {namePreventOverflow, preventOverflow},
	ModifierKeepTogether:    {nameKeepTogether, keepTogether},
	ModifierArrow:           {nameArrow, arrow},
	ModifierFlip:            {nameFlip, flip},
	ModifierApplyStyle:      {nameApplyStyle, applyStyle},
}

// String returns the modifier's configuration name.
func (id ModifierID) String() string {
	if id >= 0 && id < ModifierCustom {
		return builtins[id].name
	}
	if id == ModifierCustom {
		return "custom"
	}
	return fmt.Sprintf("ModifierID(%d)", int(id))
}

// Builtin returns the built-in modifier for id. It panics on Custom or an
// out-of-range id.
func Builtin(id ModifierID) Modifier {
	if id < 0 || id >= ModifierCustom {
		panic(fmt.Sprintf("popper: %v is not a built-in modifier", id))
	}
	b := builtins[id]
	return Modifier{ID: id, Name: b.name, Fn: b.fn}
}

// Custom wraps a caller-supplied step.
func Custom(name string, fn ModifierFunc) Modifier {
	return Modifier{ID: ModifierCustom, Name: name, Fn: fn}
}

// ModifierByName resolves a built-in by name. Unknown names resolve to a
// placeholder that keeps its position in the chain but does nothing; ok
// reports whether the name was known.
func ModifierByName(name string) (m Modifier, ok bool) {
	for id, b := range builtins {
		if b.name == name {
			return Builtin(ModifierID(id)), true
		}
	}
	return Modifier{ID: ModifierCustom, Name: name}, false
}

// Prerequisites names the modifiers that must run before m; without them m
// is skipped.
func (m Modifier) Prerequisites() []string {
	switch m.ID {
	case ModifierFlip:
		return []string{namePreventOverflow}
	case ModifierArrow:
		return []string{nameKeepTogether}
	}
	return nil
}

// DefaultModifiers returns the default chain.
func DefaultModifiers() []Modifier {
	return []Modifier{
		Builtin(ModifierShift),
		Builtin(ModifierOffset),
		Builtin(ModifierPreventOverflow),
		Builtin(ModifierKeepTogether),
		Builtin(ModifierArrow),
		Builtin(ModifierFlip),
		Builtin(ModifierApplyStyle),
	}
}

// ModifierNames returns the names of mods in order.
func ModifierNames(mods []Modifier) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}

// filterIgnored drops every modifier whose name appears in ignored.
func filterIgnored(mods []Modifier, ignored []string) []Modifier {
	skip := make(map[string]bool, len(ignored))
	for _, n := range ignored {
		skip[n] = true
	}
	out := make([]Modifier, 0, len(mods))
	for _, m := range mods {
		if !skip[m.Name] {
			out = append(out, m)
		}
	}
	return out
}

func indexOf(mods []Modifier, name string) int {
	for i, m := range mods {
		if m.Name == name {
			return i
		}
	}
	return -1
}
