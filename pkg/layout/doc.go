// Package layout sizes and positions the boxes of a nested block diagram.
//
// # Overview
//
// Layout runs in two passes over a forest built by the hierarchy package:
//
//  1. [ComputeSize] walks each tree bottom-up and sets Width and Height.
//  2. [ComputePosition] walks the forest top-down and sets X and Y.
//
// The size pass must finish before positions are computed, because a box is
// placed relative to the size of its preceding sibling. [Compute] runs both
// passes in order.
//
// # Sizing
//
// Every box reserves a title strip of height
//
//	title.Margin.Top + title.Font.Size + title.Margin.Bottom
//
// Childless boxes are max(MinWidth, 16.6 * fontSize) wide plus the
// horizontal box margins; boxes of the leaf label drop those margins. Their
// height is max(MinHeight, 2 * fontSize) plus the title strip.
//
// A parent packs its children into rows. The column count comes from
// ColumnsPerLabel for the label of the first child (default 1). Only the
// first row contributes to the parent's width; every child is stretched to
// the height of the tallest box in its row.
//
// # Positioning
//
// X and Y are relative to the parent's box, with roots relative to the
// canvas. The first child sits one margin in from the left and below the
// parent's title strip. Later children continue the row to the right, or
// start a new row one margin below the previous one.
//
// # Cycles
//
// Hierarchies built with empty branches displayed may contain cycles. Both
// passes track the nodes on the current path and fail with an
// [errors.ErrCodeCycleDetected] error instead of recursing forever. As a
// last resort, recursion deeper than [MaxDepth] yields a zero size.
//
// # Flattening
//
// [Flatten] converts a positioned forest into absolute [Block] rectangles in
// pre-order, ready for rendering or JSON export.
package layout
