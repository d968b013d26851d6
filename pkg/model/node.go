package model

// Node is an entity placed in a diagram hierarchy. It owns its children
// through the Children slice; there are no parent back-references.
//
// Width and Height are set by the layout size pass. X and Y are set by the
// position pass and are relative to the parent's box (roots are relative to
// the canvas). Value is the 1-based level of the node's label in the label
// hierarchy, or 0 when the label is not part of it.
type Node struct {
	Entity

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Value  float64 `json:"value"`

	Children []*Node `json:"children"`
}

// NewNode copies e into a fresh node with an empty child list.
func NewNode(e Entity, value float64) *Node {
	e.Metadata = e.Metadata.Clone()
	return &Node{Entity: e, Value: value, Children: []*Node{}}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// HasChild reports whether a child with the given ID is already attached.
func (n *Node) HasChild(id string) bool {
	for _, c := range n.Children {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the subtree below that node. Nodes already on the current path are
// not revisited, so Walk terminates on cyclic input.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	onPath := make(map[*Node]bool)
	var visit func(*Node, int)
	visit = func(node *Node, depth int) {
		if onPath[node] {
			return
		}
		if !fn(node, depth) {
			return
		}
		onPath[node] = true
		for _, c := range node.Children {
			visit(c, depth+1)
		}
		delete(onPath, node)
	}
	visit(n, 0)
}
