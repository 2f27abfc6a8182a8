package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/popper/pkg/buildinfo"
	"github.com/matzehuels/popper/pkg/cache"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/popper"
)

// PipelineOptions configures the modifier chain diagram.
type PipelineOptions struct {
	// Ignored names modifiers that are configured but filtered out; they are
	// drawn dashed and grey.
	Ignored []string
	// Restart draws the back edge flip takes when it changes the placement.
	Restart bool
}

// PipelineDOT converts a modifier chain to Graphviz DOT. Chain order is drawn
// left to right; dotted edges point from a modifier to each prerequisite and
// turn red when the prerequisite does not run before it.
func PipelineDOT(chain []popper.Modifier, opts PipelineOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph modifiers {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	active := make([]popper.Modifier, 0, len(chain))
	for _, m := range chain {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(m))}
		switch {
		case slices.Contains(opts.Ignored, m.Name):
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
		case m.Fn == nil:
			attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey40")
			active = append(active, m)
		case m.ID == popper.ModifierCustom:
			attrs = append(attrs, "fillcolor=\"#fff3bf\"")
			active = append(active, m)
		default:
			active = append(active, m)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", m.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(active); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", active[i-1].Name, active[i].Name)
	}
	for _, m := range active {
		for _, req := range m.Prerequisites() {
			color := "grey50"
			if !popper.RunsBefore(active, req, m.Name) {
				color = "red"
			}
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, color=%s, constraint=false];\n", m.Name, req, color)
		}
	}
	if opts.Restart && len(active) > 0 && slices.ContainsFunc(active, isFlip) {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, label=\"restart\", constraint=false];\n", "flip", active[0].Name)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func isFlip(m popper.Modifier) bool { return m.ID == popper.ModifierFlip }

func nodeLabel(m popper.Modifier) string {
	if m.ID == popper.ModifierCustom {
		return m.Name + "\n(custom)"
	}
	return m.Name
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// CachedSVG is RenderSVG behind c, keyed by the DOT source and the build
// version. hit reports whether Graphviz was skipped. Cache failures are not
// fatal; the SVG is rendered and returned anyway.
func CachedSVG(ctx context.Context, c cache.Cache, dot string) (svg []byte, hit bool, err error) {
	key := cache.Key("svg", buildinfo.Version, dot)
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	if svg, err = RenderSVG(dot); err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, svg, 0)
	return svg, false, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and carries an explicit pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
