// Package blocks renders nested block diagrams as SVG.
//
// [RenderSVG] draws one rounded rectangle per [layout.Block], in the order
// given, so parents (which come first in a flattened layout) sit beneath
// their children. Each box carries its entity name in a title strip at the
// top, sized by the diagram's title model.
//
// # Styling
//
// A block's Style string holds CSS declarations from the rule engine. The
// renderer maps them onto SVG: "fill" (or "background-color") fills the
// box, "stroke" (or "border-color") outlines it, and "color",
// "font-weight", "font-style" and "text-decoration" style the title. Later
// declarations win. Without declarations, boxes are filled with the label
// color from [Options.LabelColors], falling back to white.
package blocks
