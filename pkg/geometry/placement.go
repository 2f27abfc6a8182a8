package geometry

import (
	"fmt"
	"strings"

	"github.com/matzehuels/popper/pkg/errors"
)

// Side is one of the four cardinal sides of a reference element.
type Side string

// Cardinal sides.
const (
	Top    Side = "top"
	Right  Side = "right"
	Bottom Side = "bottom"
	Left   Side = "left"
)

// Sides lists the cardinal sides in the default overflow-check order.
var Sides = []Side{Left, Right, Top, Bottom}

// Valid reports whether s is one of the four cardinal sides.
func (s Side) Valid() bool {
	switch s {
	case Top, Right, Bottom, Left:
		return true
	}
	return false
}

// Opposite returns the side across the reference element.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Horizontal reports whether the popper sits beside the reference (left or right),
// which makes the vertical axis the offset axis.
func (s Side) Horizontal() bool {
	return s == Left || s == Right
}

// Far reports whether s lies on the far end of its axis (right or bottom).
func (s Side) Far() bool {
	return s == Right || s == Bottom
}

// ParseSide parses a side name.
func ParseSide(s string) (Side, error) {
	side := Side(strings.ToLower(strings.TrimSpace(s)))
	if !side.Valid() {
		return "", errors.New(errors.ErrCodeInvalidPlacement, "unknown side %q (must be one of: top, right, bottom, left)", s)
	}
	return side, nil
}

// Variation shifts the popper toward the start or end of the reference edge.
type Variation string

// Variations. The zero value centers the popper.
const (
	Center Variation = ""
	Start  Variation = "start"
	End    Variation = "end"
)

// Placement is a side plus optional variation, e.g. "bottom-start".
type Placement struct {
	Side      Side
	Variation Variation
}

// ParsePlacement parses strings of the form "side" or "side-variation".
func ParsePlacement(s string) (Placement, error) {
	base, variation, _ := strings.Cut(strings.TrimSpace(s), "-")
	side, err := ParseSide(base)
	if err != nil {
		return Placement{}, err
	}
	v := Variation(strings.ToLower(variation))
	switch v {
	case Center, Start, End:
	default:
		return Placement{}, errors.New(errors.ErrCodeInvalidPlacement, "unknown variation %q in placement %q (must be start or end)", variation, s)
	}
	return Placement{Side: side, Variation: v}, nil
}

// MustParsePlacement is like ParsePlacement but panics on error.
// It is intended for literals in tests and package-level defaults.
func MustParsePlacement(s string) Placement {
	p, err := ParsePlacement(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String formats the placement as "side" or "side-variation".
func (p Placement) String() string {
	if p.Variation == Center {
		return string(p.Side)
	}
	return fmt.Sprintf("%s-%s", p.Side, p.Variation)
}

// Opposite returns the placement on the other side of the reference, keeping the variation.
func (p Placement) Opposite() Placement {
	return Placement{Side: p.Side.Opposite(), Variation: p.Variation}
}

// WithSide returns p moved to side s, keeping the variation.
func (p Placement) WithSide(s Side) Placement {
	return Placement{Side: s, Variation: p.Variation}
}

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Placement) UnmarshalText(b []byte) error {
	parsed, err := ParsePlacement(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
