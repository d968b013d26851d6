// Package render turns computed diagrams into images.
//
// # Nested Blocks
//
// The [blocks] subpackage draws the flattened layout of a nested block
// diagram as SVG: one rectangle per block, titled with the entity name and
// styled by the conditional-formatting rules that matched it.
//
//	svg, err := blocks.RenderSVG(diagram.Blocks, blocks.Options{Title: opts.Title()})
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws a label relation summary as a directed
// graph using Graphviz. Each label is a node; each distinct relation is an
// edge.
//
//	dot := nodelink.ToDOT(relations, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [blocks]: github.com/matzehuels/nestview/pkg/render/blocks
// [nodelink]: github.com/matzehuels/nestview/pkg/render/nodelink
package render
