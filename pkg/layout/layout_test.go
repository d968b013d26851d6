package layout

import (
	stderrors "errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

// testOptions uses a small title font so sizes are easy to derive by hand:
// leaf width 166, leaf height 40, title strip 20, margins 10.
func testOptions() model.DiagramOptions {
	return model.DiagramOptions{
		LabelHierarchy: []string{"Area", "Group", "Server"},
		BoxModel: &model.BoxModel{
			MinWidth:  100,
			MinHeight: 20,
			Margin:    model.Spacing{Top: 10, Bottom: 10, Left: 10, Right: 10},
		},
		TitleModel: &model.TitleModel{
			Font:   model.FontSettings{Size: 10},
			Margin: model.Spacing{Top: 5, Bottom: 5},
		},
		ColumnsPerLabel: map[string]int{"Server": 2},
	}
}

func node(id, label string, children ...*model.Node) *model.Node {
	n := model.NewNode(model.Entity{ID: id, Name: id, Label: label}, 0)
	n.Children = append(n.Children, children...)
	return n
}

func TestLabelHeight(t *testing.T) {
	if got := LabelHeight(model.DefaultTitleModel()); got != 36 {
		t.Errorf("LabelHeight(default) = %v, want 36", got)
	}
}

func TestComputeSize_Leaves(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		wantWidth  float64
		wantHeight float64
	}{
		{"leaf label", "Server", 166, 40},
		{"childless group", "Group", 186, 40},
		{"unknown label", "Rack", 186, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			n := node("n", tt.label)
			got, err := ComputeSize(n, opts.LabelHierarchy, opts)
			if err != nil {
				t.Fatalf("ComputeSize() error = %v", err)
			}
			if !approx(got.Width, tt.wantWidth) || !approx(got.Height, tt.wantHeight) {
				t.Errorf("ComputeSize() = %+v, want %vx%v", got, tt.wantWidth, tt.wantHeight)
			}
			if n.Width != got.Width || n.Height != got.Height {
				t.Errorf("node size = %vx%v, want it to match result", n.Width, n.Height)
			}
		})
	}
}

func TestComputeSize_DefaultModels(t *testing.T) {
	opts := model.DiagramOptions{LabelHierarchy: []string{"Group", "Server"}}
	n := node("s", "Server")

	got, err := ComputeSize(n, opts.LabelHierarchy, opts)
	if err != nil {
		t.Fatalf("ComputeSize() error = %v", err)
	}
	if !approx(got.Width, 24*16.6) || got.Height != 48+36 {
		t.Errorf("ComputeSize() = %+v, want %vx%v", got, 24*16.6, 84)
	}
}

func TestComputeSize_Rows(t *testing.T) {
	opts := testOptions()
	g := node("g", "Group",
		node("s1", "Server"),
		node("s2", "Server"),
		node("s3", "Server"),
	)

	got, err := ComputeSize(g, opts.LabelHierarchy, opts)
	if err != nil {
		t.Fatalf("ComputeSize() error = %v", err)
	}
	// Two columns: (166+10)*2 + 10 wide; title 20 + two rows of (40+10) + 10.
	if !approx(got.Width, 362) || !approx(got.Height, 130) {
		t.Errorf("ComputeSize() = %+v, want 362x130", got)
	}
}

func TestComputeSize_RowAlignment(t *testing.T) {
	opts := testOptions()
	opts.ColumnsPerLabel = map[string]int{"Group": 2}
	a := node("a", "Area",
		node("g1", "Group", node("s1", "Server"), node("s2", "Server"), node("s3", "Server")),
		node("g2", "Group"),
		node("g3", "Group"),
	)

	if _, err := ComputeSize(a, opts.LabelHierarchy, opts); err != nil {
		t.Fatalf("ComputeSize() error = %v", err)
	}
	g1, g2, g3 := a.Children[0], a.Children[1], a.Children[2]
	if g1.Height != g2.Height {
		t.Errorf("row heights differ: g1=%v g2=%v", g1.Height, g2.Height)
	}
	if g3.Height != 40 {
		t.Errorf("g3.Height = %v, want 40 (alone in its row)", g3.Height)
	}
	// Only the first row adds width.
	want := g1.Width + g2.Width + 2*10 + 10
	if !approx(a.Width, want) {
		t.Errorf("a.Width = %v, want %v", a.Width, want)
	}
}

func TestComputeSize_MinimumSize(t *testing.T) {
	opts := testOptions()
	opts.BoxModel.MinWidth = 1000
	opts.BoxModel.MinHeight = 500
	s := node("s", "Server")
	g := node("g", "Group", s)

	got, err := ComputeSize(g, opts.LabelHierarchy, opts)
	if err != nil {
		t.Fatalf("ComputeSize() error = %v", err)
	}
	if s.Width != 1000 || s.Height != 520 {
		t.Errorf("leaf = %vx%v, want 1000x520", s.Width, s.Height)
	}
	// 1000 + 10 + 10 wide; title 20 + 520 + 10 + 10 high.
	if got.Width != 1020 || got.Height != 560 {
		t.Errorf("ComputeSize() = %+v, want 1020x560", got)
	}
}

func TestComputeSize_Cycle(t *testing.T) {
	opts := testOptions()
	a := node("a", "Group")
	b := node("b", "Group", a)
	a.Children = append(a.Children, b)

	_, err := ComputeSize(a, opts.LabelHierarchy, opts)
	if err == nil {
		t.Fatal("ComputeSize() error = nil, want cycle error")
	}
	if !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeCycleDetected)
	}
	var ce *errors.CycleError
	if !stderrors.As(err, &ce) {
		t.Fatalf("error %v does not wrap *errors.CycleError", err)
	}
	if want := []string{"a", "b", "a"}; fmt.Sprint(ce.Path) != fmt.Sprint(want) {
		t.Errorf("Path = %v, want %v", ce.Path, want)
	}
}

func TestComputeSize_SharedChildIsNotACycle(t *testing.T) {
	opts := testOptions()
	shared := node("s", "Server")
	a := node("a", "Area", node("g1", "Group", shared), node("g2", "Group", shared))

	if _, err := ComputeSize(a, opts.LabelHierarchy, opts); err != nil {
		t.Errorf("ComputeSize() error = %v, want nil for a diamond", err)
	}
}

func TestComputeSize_DepthCap(t *testing.T) {
	opts := testOptions()
	root := node("n0", "Group")
	cur := root
	for i := 1; i <= MaxDepth+2; i++ {
		next := node(fmt.Sprintf("n%d", i), "Group")
		cur.Children = append(cur.Children, next)
		cur = next
	}

	if _, err := ComputeSize(root, opts.LabelHierarchy, opts); err != nil {
		t.Fatalf("ComputeSize() error = %v", err)
	}
	if cur.Width != 0 || cur.Height != 0 {
		t.Errorf("node past MaxDepth = %vx%v, want zero size", cur.Width, cur.Height)
	}
	if root.Width == 0 || root.Height == 0 {
		t.Errorf("root = %vx%v, want non-zero size", root.Width, root.Height)
	}
}

func TestComputePosition(t *testing.T) {
	opts := testOptions()
	g := node("g", "Group",
		node("s1", "Server"),
		node("s2", "Server"),
		node("s3", "Server"),
	)
	roots := []*model.Node{g}

	if err := Compute(roots, opts); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	tests := []struct {
		n    *model.Node
		x, y float64
	}{
		{g, 0, 30},
		{g.Children[0], 10, 30},
		{g.Children[1], 186, 30},
		{g.Children[2], 10, 80},
	}
	for _, tt := range tests {
		if !approx(tt.n.X, tt.x) || !approx(tt.n.Y, tt.y) {
			t.Errorf("%s at (%v, %v), want (%v, %v)", tt.n.ID, tt.n.X, tt.n.Y, tt.x, tt.y)
		}
	}
}

func TestComputePosition_MixedLabels(t *testing.T) {
	// Only Server packs two per row. The first child decides for all.
	tests := []struct {
		name  string
		order []string
		want  map[string][2]float64
	}{
		{
			name:  "server first",
			order: []string{"Server", "Group", "Server"},
			want:  map[string][2]float64{"c0": {10, 30}, "c1": {186, 30}, "c2": {10, 80}},
		},
		{
			name:  "group first",
			order: []string{"Group", "Server", "Server"},
			want:  map[string][2]float64{"c0": {10, 30}, "c1": {10, 80}, "c2": {10, 130}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := node("a", "Area")
			for i, label := range tt.order {
				parent.Children = append(parent.Children, node(fmt.Sprintf("c%d", i), label))
			}
			if err := Compute([]*model.Node{parent}, testOptions()); err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			for _, c := range parent.Children {
				want := tt.want[c.ID]
				if !approx(c.X, want[0]) || !approx(c.Y, want[1]) {
					t.Errorf("%s (%s) at (%v, %v), want (%v, %v)", c.ID, c.Label, c.X, c.Y, want[0], want[1])
				}
			}
		})
	}
}

func TestComputePosition_Roots(t *testing.T) {
	opts := testOptions()
	r1, r2 := node("r1", "Server"), node("r2", "Server")
	roots := []*model.Node{r1, r2}

	if err := Compute(roots, opts); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	// Roots share the Server column count of 2, so they sit side by side.
	if r1.X != 0 || r1.Y != 30 {
		t.Errorf("r1 at (%v, %v), want (0, 30)", r1.X, r1.Y)
	}
	if !approx(r2.X, 176) || r2.Y != 30 {
		t.Errorf("r2 at (%v, %v), want (176, 30)", r2.X, r2.Y)
	}

	opts.ColumnsPerLabel = nil
	if err := Compute(roots, opts); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if r2.X != 0 || !approx(r2.Y, 30+40+10) {
		t.Errorf("r2 at (%v, %v), want (0, 80)", r2.X, r2.Y)
	}
}

func TestComputePosition_Cycle(t *testing.T) {
	opts := testOptions()
	a := node("a", "Group")
	a.Children = append(a.Children, a)

	err := ComputePosition([]*model.Node{a}, opts)
	if !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("ComputePosition() error = %v, want cycle error", err)
	}
}

func TestComputePosition_ChildrenStayInsideParent(t *testing.T) {
	opts := testOptions()
	opts.ColumnsPerLabel = map[string]int{"Group": 2, "Server": 3}
	a := node("a", "Area",
		node("g1", "Group", node("s1", "Server"), node("s2", "Server"), node("s3", "Server"), node("s4", "Server")),
		node("g2", "Group", node("s5", "Server")),
		node("g3", "Group"),
	)
	roots := []*model.Node{a}
	if err := Compute(roots, opts); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	blocks := Flatten(roots)
	byPath := make(map[string]Block, len(blocks))
	for _, b := range blocks {
		byPath[b.Path] = b
	}
	for _, b := range blocks {
		if b.Depth == 0 {
			continue
		}
		parentPath := b.Path[:len(b.Path)-len(b.ID)-1]
		parent := byPath[parentPath]
		if !parent.Contains(b) {
			t.Errorf("block %s %+v escapes parent %s %+v", b.Path, b, parent.Path, parent)
		}
	}
}

// =============================================================================
// Layout Law
// =============================================================================

func randomTree(r *rand.Rand, labels []string, depth int, next *int) *model.Node {
	*next++
	n := node(fmt.Sprintf("n%d", *next), labels[depth])
	if depth == len(labels)-1 {
		return n
	}
	for range r.IntN(6) {
		n.Children = append(n.Children, randomTree(r, labels, depth+1, next))
	}
	return n
}

func TestComputeSize_LayoutLaw(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	opts := testOptions()

	for i := range 200 {
		opts.ColumnsPerLabel = map[string]int{
			"Group":  1 + r.IntN(4),
			"Server": 1 + r.IntN(4),
		}
		var next int
		root := randomTree(r, opts.LabelHierarchy, 0, &next)
		if _, err := ComputeSize(root, opts.LabelHierarchy, opts); err != nil {
			t.Fatalf("case %d: ComputeSize() error = %v", i, err)
		}

		spacing := opts.BoxModel.Margin.Top
		labelHeight := LabelHeight(*opts.TitleModel)
		root.Walk(func(n *model.Node, _ int) bool {
			if n.IsLeaf() {
				return true
			}
			columns := opts.Columns(n.Children[0].Label)
			var sum float64
			rows := 0
			for start := 0; start < len(n.Children); start += columns {
				sum += n.Children[start].Height
				rows++
			}
			if floor := sum + spacing*float64(rows+1) + labelHeight; n.Height < floor-eps {
				t.Errorf("case %d: %s height %v < %v", i, n.ID, n.Height, floor)
			}
			return true
		})
	}
}
