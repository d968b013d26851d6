package layout

import (
	"testing"

	"github.com/matzehuels/nestview/pkg/model"
)

func TestBlockEdges(t *testing.T) {
	b := Block{X: 10, Y: 20, Width: 40, Height: 60}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"Right", b.Right(), 50},
		{"Bottom", b.Bottom(), 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestBlockContains(t *testing.T) {
	outer := Block{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name  string
		inner Block
		want  bool
	}{
		{"inside", Block{X: 10, Y: 10, Width: 50, Height: 50}, true},
		{"same", outer, true},
		{"overflows right", Block{X: 60, Y: 10, Width: 50, Height: 10}, false},
		{"above", Block{X: 10, Y: -1, Width: 10, Height: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	s := node("s", "Server")
	s.X, s.Y, s.Width, s.Height = 10, 30, 166, 40
	g := node("g", "Group", s)
	g.X, g.Y, g.Width, g.Height = 10, 30, 186, 90
	a := node("a", "Area", g)
	a.X, a.Y, a.Width, a.Height = 0, 30, 216, 140

	blocks := Flatten([]*model.Node{a})
	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3", len(blocks))
	}

	want := []struct {
		path  string
		depth int
		x, y  float64
	}{
		{"a", 0, 0, 30},
		{"a/g", 1, 10, 60},
		{"a/g/s", 2, 20, 90},
	}
	for i, w := range want {
		b := blocks[i]
		if b.Path != w.path || b.Depth != w.depth || b.X != w.x || b.Y != w.y {
			t.Errorf("blocks[%d] = {%s %d %v %v}, want {%s %d %v %v}", i, b.Path, b.Depth, b.X, b.Y, w.path, w.depth, w.x, w.y)
		}
	}

	bounds := Bounds(blocks)
	if bounds.Width != 216 || bounds.Height != 170 {
		t.Errorf("Bounds() = %+v, want 216x170", bounds)
	}
}

func TestFlatten_SharedAndCyclic(t *testing.T) {
	shared := node("s", "Server")
	a := node("a", "Area", node("g1", "Group", shared), node("g2", "Group", shared))
	a.Children[1].Children = append(a.Children[1].Children, a)

	blocks := Flatten([]*model.Node{a})

	var paths []string
	for _, b := range blocks {
		paths = append(paths, b.Path)
	}
	want := []string{"a", "a/g1", "a/g1/s", "a/g2", "a/g2/s"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestBounds_Empty(t *testing.T) {
	if got := Bounds(nil); got != (Size{}) {
		t.Errorf("Bounds(nil) = %+v, want zero", got)
	}
}
