// Package render draws placements and modifier chains.
//
// # Snapshots
//
// [Snapshot] paints the viewport of a placed [scene.Stage] with
// github.com/fogleman/gg: laid-out elements in grey, the reference in blue,
// the padded boundaries as a dashed red outline and the popper with its arrow
// at the coordinates the engine computed. Labels show element ids and the
// final placement.
//
//	st, _ := s.Build(nil)
//	e, _ := st.Engine()
//	err := render.SavePNG("tooltip.png", st, e, render.WithScale(2))
//
// # Modifier chains
//
// [PipelineDOT] turns a modifier chain into a Graphviz graph: chain order as
// solid edges, prerequisites as dotted edges (red when unmet) and, optionally,
// flip's restart edge. [RenderSVG] renders the DOT source through the
// embedded Graphviz of github.com/goccy/go-graphviz.
//
//	dot := render.PipelineDOT(e.Options().Modifiers, render.PipelineOptions{Restart: true})
//	svg, err := render.RenderSVG(dot)
package render
