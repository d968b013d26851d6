package layout_test

import (
	"fmt"

	"github.com/matzehuels/nestview/pkg/hierarchy"
	"github.com/matzehuels/nestview/pkg/layout"
	"github.com/matzehuels/nestview/pkg/model"
)

func ExampleCompute() {
	entities := []model.Entity{
		{ID: "rack", Name: "Rack 1", Label: "Group"},
		{ID: "web1", Name: "web-01", Label: "Server"},
		{ID: "web2", Name: "web-02", Label: "Server"},
		{ID: "db1", Name: "db-01", Label: "Server"},
	}
	relationships := []model.Relationship{
		{ID: "r1", From: "rack", To: "web1"},
		{ID: "r2", From: "rack", To: "web2"},
		{ID: "r3", From: "rack", To: "db1"},
	}
	opts := model.DiagramOptions{
		LabelHierarchy:  []string{"Group", "Server"},
		ColumnsPerLabel: map[string]int{"Server": 2},
		TitleModel: &model.TitleModel{
			Font:   model.FontSettings{Size: 10},
			Margin: model.Spacing{Top: 5, Bottom: 5},
		},
	}

	roots, err := hierarchy.Build(entities, relationships, opts, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := layout.Compute(roots, opts); err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, b := range layout.Flatten(roots) {
		fmt.Printf("%-12s %4.0fx%-4.0f at (%.0f, %.0f)\n", b.Path, b.Width, b.Height, b.X, b.Y)
	}
	// Output:
	// rack          362x130  at (0, 30)
	// rack/web1     166x40   at (10, 60)
	// rack/web2     166x40   at (186, 60)
	// rack/db1      166x40   at (10, 110)
}
