package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/nestview/pkg/model"
)

// Block is a positioned box in canvas coordinates.
// All coordinates are in user units (pixels in SVG), origin at the top-left,
// Y increasing downward.
type Block struct {
	ID     string  `json:"id"`
	Path   string  `json:"path"`
	Label  string  `json:"label"`
	Name   string  `json:"name"`
	Depth  int     `json:"depth"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Style  string  `json:"style,omitempty"`
}

// Right returns the X coordinate of the right edge.
func (b Block) Right() float64 { return b.X + b.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (b Block) Bottom() float64 { return b.Y + b.Height }

// Contains reports whether o lies entirely inside b.
func (b Block) Contains(o Block) bool {
	return o.X >= b.X && o.Y >= b.Y && o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// pathSep joins node IDs in a Block's Path.
const pathSep = "/"

// Flatten converts a positioned forest into blocks with absolute
// coordinates, in pre-order. Path joins the IDs from the root down to the
// block, so a node reachable through two parents yields two blocks with
// distinct paths.
func Flatten(roots []*model.Node) []Block {
	var blocks []Block
	var path []string
	onPath := make(map[*model.Node]bool)

	var visit func(n *model.Node, ox, oy float64, depth int)
	visit = func(n *model.Node, ox, oy float64, depth int) {
		if onPath[n] || depth > MaxDepth {
			return
		}
		path = append(path, n.ID)
		b := Block{
			ID:     n.ID,
			Path:   strings.Join(path, pathSep),
			Label:  n.Label,
			Name:   n.Name,
			Depth:  depth,
			X:      ox + n.X,
			Y:      oy + n.Y,
			Width:  n.Width,
			Height: n.Height,
		}
		blocks = append(blocks, b)

		onPath[n] = true
		for _, c := range n.Children {
			visit(c, b.X, b.Y, depth+1)
		}
		delete(onPath, n)
		path = path[:len(path)-1]
	}

	for _, r := range roots {
		visit(r, 0, 0, 0)
	}
	return blocks
}

// Bounds returns the size of the smallest canvas, anchored at the origin,
// that holds every block.
func Bounds(blocks []Block) Size {
	var s Size
	for _, b := range blocks {
		s.Width = math.Max(s.Width, b.Right())
		s.Height = math.Max(s.Height, b.Bottom())
	}
	return s
}
