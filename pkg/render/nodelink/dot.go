package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nestview/pkg/model"
)

// Options configures node-link diagram rendering.
type Options struct {
	// LabelColors maps labels to node fill colors. Unlisted labels are white.
	LabelColors map[string]string

	// Horizontal lays the graph out left to right instead of top to bottom.
	Horizontal bool
}

// ToDOT converts a label relation summary to Graphviz DOT format.
func ToDOT(relations []model.LabelRelation, opts Options) string {
	rankdir := "TB"
	if opts.Horizontal {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, label := range labels(relations) {
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if c, ok := opts.LabelColors[label]; ok && c != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", label, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range relations {
		attrs := []string{fmt.Sprintf("label=%q", r.RelationshipLabel)}
		if dir := edgeDir(r.RelationshipType); dir != "forward" {
			attrs = append(attrs, "dir="+dir)
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", r.FromLabel, r.ToLabel, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// labels returns every label of relations in first-occurrence order.
func labels(relations []model.LabelRelation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range relations {
		for _, l := range []string{r.FromLabel, r.ToLabel} {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

func edgeDir(d model.Direction) string {
	switch d {
	case model.Reverse:
		return "back"
	case model.Bidirectional:
		return "both"
	}
	return "forward"
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

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin and whose size is in user units.
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
