// Package popper places a floating element (the popper) next to a reference
// element and keeps it there while the page scrolls or resizes.
//
// # Placement cycle
//
// Every [Engine.Update] builds a fresh [Data] record:
//
//  1. The popper is centered on the requested side of the reference, in the
//     coordinate space of the popper's offset parent.
//  2. The boundaries (viewport, whole window, or a container) are measured
//     and inset by the configured padding.
//  3. The modifier chain runs over the record in order.
//  4. The OnUpdate callback, if any, receives the final record.
//
// # Modifiers
//
// The default chain is shift, offset, preventOverflow, keepTogether, arrow,
// flip and applyStyle. Built-ins are selected with [Builtin]; caller steps
// are wrapped with [Custom] and receive the engine and the record:
//
//	tilt := popper.Custom("tilt", func(e *popper.Engine, d *popper.Data) {
//	    d.Styles["transform-origin"] = "top left"
//	})
//	mods := append(popper.DefaultModifiers(), tilt)
//	eng, err := popper.New(doc, ref, tip, popper.WithModifiers(mods...))
//
// Modifiers that depend on another one (flip needs preventOverflow, arrow
// needs keepTogether) check the configured order and turn into logged no-ops
// when the dependency is missing.
//
// When flip moves the popper to another side, the chain restarts from the
// beginning with the new placement. A cycle never flips back to the
// placement it started with, and the number of restarts is bounded by the
// length of the flip order.
//
// # Lifecycle
//
// [New] runs one cycle synchronously and then listens for window resize and
// for scroll on the reference's scroll parent. [Engine.Close] removes those
// listeners; [Engine.Bind] ties the engine to a context:
//
//	eng, err := popper.New(doc, ref, tip, popper.WithPlacement(geometry.MustParsePlacement("top-start")))
//	if err != nil {
//	    return err
//	}
//	eng.Bind(ctx)
//
// The engine talks to the page only through [dom.Document]; see
// [github.com/matzehuels/popper/pkg/dom/memdom] for the in-memory backend.
package popper
