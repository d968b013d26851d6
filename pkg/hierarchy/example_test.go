package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/nestview/pkg/hierarchy"
	"github.com/matzehuels/nestview/pkg/model"
)

func ExampleBuild() {
	entities := []model.Entity{
		{ID: "dc1", Name: "Frankfurt", Label: "Area"},
		{ID: "rack1", Name: "Rack 1", Label: "Group"},
		{ID: "rack2", Name: "Rack 2", Label: "Group"},
		{ID: "web1", Name: "web-01", Label: "Server"},
	}
	relationships := []model.Relationship{
		{ID: "r1", From: "dc1", To: "rack1", Type: model.Forward, Label: "CONTAINS"},
		{ID: "r2", From: "dc1", To: "rack2", Type: model.Forward, Label: "CONTAINS"},
		{ID: "r3", From: "rack1", To: "web1", Type: model.Forward, Label: "HOSTS"},
	}

	opts := model.DiagramOptions{
		LabelHierarchy: []string{"Area", "Group", "Server"},
		RootAtLabel:    model.RootLabel,
	}

	roots, err := hierarchy.Build(entities, relationships, opts, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Rack 2 holds no servers and is pruned.
	roots[0].Walk(func(n *model.Node, depth int) bool {
		fmt.Printf("%*s%s (%s)\n", depth*2, "", n.Name, n.Label)
		return true
	})
	// Output:
	// - (root)
	//   Frankfurt (Area)
	//     Rack 1 (Group)
	//       web-01 (Server)
}
