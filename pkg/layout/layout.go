package layout

import (
	"math"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

// MaxDepth caps recursion in the size and position passes.
const MaxDepth = 10000

// leafWidthFactor converts the title font size into a leaf box width.
const leafWidthFactor = 16.6

// Size is the extent of a box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LabelHeight returns the height of the title strip at the top of a box.
func LabelHeight(title model.TitleModel) float64 {
	return title.Margin.Top + title.Font.Size + title.Margin.Bottom
}

// Compute sizes every root and then positions the forest.
func Compute(roots []*model.Node, opts model.DiagramOptions) error {
	for _, r := range roots {
		if _, err := ComputeSize(r, opts.LabelHierarchy, opts); err != nil {
			return err
		}
	}
	return ComputePosition(roots, opts)
}

// =============================================================================
// Size Pass
// =============================================================================

// ComputeSize sets Width and Height of node and all of its descendants, and
// returns the size of node. labelHierarchy selects the leaf label; the box
// and title models and per-label column counts come from opts.
//
// Children are stretched to their row's height. A cycle along any path
// fails with an [errors.ErrCodeCycleDetected] error wrapping an
// [errors.CycleError].
func ComputeSize(node *model.Node, labelHierarchy []string, opts model.DiagramOptions) (Size, error) {
	s := &sizer{
		opts:   opts,
		box:    opts.Box(),
		title:  opts.Title(),
		onPath: make(map[*model.Node]bool),
	}
	if len(labelHierarchy) > 0 {
		s.leaf = labelHierarchy[len(labelHierarchy)-1]
	}
	return s.size(node, 0)
}

type sizer struct {
	opts   model.DiagramOptions
	box    model.BoxModel
	title  model.TitleModel
	leaf   string
	onPath map[*model.Node]bool
	path   []string
}

func (s *sizer) size(n *model.Node, depth int) (Size, error) {
	if depth > MaxDepth {
		n.Width, n.Height = 0, 0
		return Size{}, nil
	}
	if s.onPath[n] {
		return Size{}, cycleError(append(s.path, n.ID))
	}

	labelHeight := LabelHeight(s.title)
	margin := s.box.Margin

	if n.IsLeaf() {
		w := math.Max(s.box.MinWidth, s.title.Font.Size*leafWidthFactor)
		if n.Label != s.leaf {
			w += margin.Horizontal()
		}
		n.Width = w
		n.Height = math.Max(s.box.MinHeight, s.title.Font.Size*2) + labelHeight
		return Size{Width: n.Width, Height: n.Height}, nil
	}

	s.onPath[n] = true
	s.path = append(s.path, n.ID)
	defer func() {
		delete(s.onPath, n)
		s.path = s.path[:len(s.path)-1]
	}()

	columns := s.opts.Columns(n.Children[0].Label)

	var totalWidth float64
	heights := make([]float64, len(n.Children))
	for i, c := range n.Children {
		cs, err := s.size(c, depth+1)
		if err != nil {
			return Size{}, err
		}
		if i < columns {
			totalWidth += cs.Width + margin.Left
		}
		heights[i] = cs.Height
	}
	totalWidth += margin.Right

	totalHeight := labelHeight
	for start := 0; start < len(n.Children); start += columns {
		end := min(start+columns, len(n.Children))
		var rowHeight float64
		for _, h := range heights[start:end] {
			rowHeight = math.Max(rowHeight, h)
		}
		for _, c := range n.Children[start:end] {
			c.Height = rowHeight
		}
		totalHeight += rowHeight + margin.Top
	}
	totalHeight += margin.Bottom

	n.Width = math.Max(s.box.MinWidth, totalWidth)
	n.Height = math.Max(s.box.MinHeight, totalHeight)
	return Size{Width: n.Width, Height: n.Height}, nil
}

// =============================================================================
// Position Pass
// =============================================================================

// ComputePosition sets X and Y of every node in the forest from the sizes
// computed by [ComputeSize]. Roots are laid out on the canvas as siblings.
//
// Siblings share the column count of the first sibling's label, which is
// the count the size pass packed them with.
func ComputePosition(roots []*model.Node, opts model.DiagramOptions) error {
	p := &positioner{
		opts:        opts,
		margin:      opts.Box().Margin,
		labelHeight: LabelHeight(opts.Title()),
		onPath:      make(map[*model.Node]bool),
	}
	return p.placeSiblings(roots, true, 0)
}

type positioner struct {
	opts        model.DiagramOptions
	margin      model.Spacing
	labelHeight float64
	onPath      map[*model.Node]bool
	path        []string
}

func (p *positioner) placeSiblings(nodes []*model.Node, isRoot bool, depth int) error {
	if len(nodes) == 0 || depth > MaxDepth {
		return nil
	}
	// Siblings of mixed labels share the first one's column count, the
	// same count the size pass packed them with.
	columns := p.opts.Columns(nodes[0].Label)

	var prev *model.Node
	for i, n := range nodes {
		if p.onPath[n] {
			return cycleError(append(p.path, n.ID))
		}
		p.place(n, prev, i%columns == 0, isRoot)

		p.onPath[n] = true
		p.path = append(p.path, n.ID)
		err := p.placeSiblings(n.Children, false, depth+1)
		delete(p.onPath, n)
		p.path = p.path[:len(p.path)-1]
		if err != nil {
			return err
		}
		prev = n
	}
	return nil
}

func (p *positioner) place(n, prev *model.Node, newRow, isRoot bool) {
	left := p.margin.Left
	if isRoot {
		left = 0
	}

	switch {
	case prev == nil:
		n.X = left
		n.Y = p.margin.Top + p.labelHeight
	case newRow:
		n.X = left
		n.Y = prev.Y + prev.Height + p.margin.Top
	default:
		n.X = prev.X + prev.Width + p.margin.Left
		n.Y = prev.Y
	}
}

func cycleError(path []string) error {
	cycle := append([]string(nil), path...)
	return errors.Wrap(errors.ErrCodeCycleDetected, &errors.CycleError{Path: cycle}, "hierarchy contains a cycle through %q", cycle[len(cycle)-1])
}
