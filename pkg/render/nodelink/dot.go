package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/route"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds lifespan and generation to node labels.
	// When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a family index to Graphviz DOT. Members of a spouse
// cluster share a rank so partners render side by side, and line styles
// follow [route.StyleFor].
func ToDOT(ix *family.Index, opts Options) string {
	var gens family.Generations
	if opts.Detailed {
		gens = family.AssignGenerations(ix)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, id := range ix.Members() {
		m, _ := ix.Member(id)
		fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(id), fmtLabel(m, gens))
	}

	buf.WriteString("\n")
	for _, cluster := range ix.Clusters() {
		if len(cluster) < 2 {
			continue
		}
		ids := make([]string, len(cluster))
		for i, id := range cluster {
			ids[i] = nodeID(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	buf.WriteString("\n")
	for _, rel := range ix.Relationships() {
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeID(rel.From), nodeID(rel.To), strings.Join(edgeAttrs(rel), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id family.ID) string { return "m" + strconv.FormatUint(uint64(id), 10) }

func fmtLabel(m family.Member, gens family.Generations) string {
	label := m.DisplayName()
	if gens == nil {
		return label
	}
	if ls := m.Lifespan(); ls != "" {
		label += "\n" + ls
	}
	return label + fmt.Sprintf("\ngeneration %d", gens[m.ID])
}

func edgeAttrs(rel family.Relationship) []string {
	s := route.StyleFor(rel)
	attrs := []string{fmt.Sprintf("color=%q", s.Color), fmt.Sprintf("penwidth=%g", s.Width)}
	if s.Dash != "" {
		attrs = append(attrs, `style="dashed"`)
	}
	if !rel.Kind.Directed() {
		attrs = append(attrs, "dir=none", "constraint=false")
	}
	if !rel.Status.Active() {
		attrs = append(attrs, fmt.Sprintf("label=%q", rel.Status.String()))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// unitless viewBox so the SVG scales like the canvas renderer's output.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
