package popper

import (
	"github.com/matzehuels/popper/pkg/observability"
)

// runModifiers runs chain over d. When flip changes the placement it marks d
// for restart; the rest of the pass is abandoned and the chain starts over
// with the new placement. After Options.maxPasses passes flip is frozen and
// one last pass settles the current placement.
func (e *Engine) runModifiers(d *Data, chain []Modifier) {
	limit := e.opts.maxPasses()
	frozen := d.frozen
	defer func() { d.frozen = frozen }()

	for pass := 1; ; pass++ {
		d.restart = false
		d.frozen = frozen || pass > limit
		for _, m := range chain {
			if m.Fn == nil {
				continue
			}
			m.Fn(e, d)
			if d.restart {
				break
			}
		}
		if !d.restart {
			return
		}
		if pass == limit {
			e.logger.Warn("flip did not settle, keeping current placement",
				"placement", d.Placement, "passes", pass)
		}
	}
}

// RunModifiers runs the configured chain over d, stopping before the first
// modifier named stopBefore. An empty or unknown stopBefore runs the whole
// chain. Modifiers may call it to re-run their predecessors; it does not
// take the engine lock.
func (e *Engine) RunModifiers(d *Data, stopBefore string) {
	chain := e.modifiers
	if stopBefore != "" {
		if i := indexOf(chain, stopBefore); i >= 0 {
			chain = chain[:i]
		}
	}
	e.runModifiers(d, chain)
}

// IsModifierRequired reports whether requested runs before requesting in the
// configured chain.
func (e *Engine) IsModifierRequired(requesting, requested string) bool {
	return RunsBefore(e.modifiers, requested, requesting)
}

// RunsBefore reports whether the modifier named first appears in chain ahead
// of the one named second. It is false when second is absent.
func RunsBefore(chain []Modifier, first, second string) bool {
	i := indexOf(chain, second)
	if i < 0 {
		return false
	}
	return indexOf(chain[:i], first) >= 0
}

// skip records a modifier that degraded to a no-op.
func (e *Engine) skip(modifier, reason string) {
	e.logger.Warn("modifier skipped", "modifier", modifier, "reason", reason)
	observability.Placement().OnModifierSkipped(e.id, modifier, reason)
}
