// Package nodelink renders label relation summaries as node-link diagrams.
//
// # Overview
//
// Every label in the summary becomes a rounded box; every relation becomes
// an arrow from its source label to its target label, captioned with the
// relationship label. The relationship type sets the arrow heads: "->"
// points forward, "<-" backward and "<->" both ways.
//
// # Usage
//
//	dot := nodelink.ToDOT(relations, nodelink.Options{LabelColors: colors})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be rendered
// in-process via [RenderSVG] or saved and processed with external Graphviz
// tools. Labels and edges appear in first-occurrence order, so equal input
// always produces byte-identical DOT.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
