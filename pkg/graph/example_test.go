package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/nestview/pkg/graph"
)

func ExampleReadGraph() {
	src := `{
	  "entities": [
	    {"id": "fra", "name": "Frankfurt", "label": "Area"},
	    {"id": "rack1", "label": "Group"}
	  ],
	  "relationships": [
	    {"id": "r1", "from": "fra", "to": "rack1", "label": "CONTAINS"}
	  ]
	}`

	g, err := graph.ReadGraph(strings.NewReader(src), graph.FormatJSON)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, e := range g.Entities {
		fmt.Printf("%s (%s)\n", e.Name, e.Label)
	}
	for _, r := range g.Relationships {
		fmt.Printf("%s %s %s [%s]\n", r.From, r.Type, r.To, r.Label)
	}
	// Output:
	// Frankfurt (Area)
	// rack1 (Group)
	// fra -> rack1 [CONTAINS]
}

func ExampleWriteGraph() {
	src := "entities:\n  - {id: fra, name: Frankfurt, label: Area}\n"
	g, _ := graph.ReadGraph(strings.NewReader(src), graph.FormatYAML)
	graph.WriteGraph(g, os.Stdout, graph.FormatJSON)
	// Output:
	// {
	//   "entities": [
	//     {
	//       "id": "fra",
	//       "name": "Frankfurt",
	//       "label": "Area"
	//     }
	//   ],
	//   "relationships": null
	// }
}
