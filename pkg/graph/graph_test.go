package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

const yamlGraph = `
entities:
  - id: fra
    name: Frankfurt
    label: Area
    metadata:
      zone: eu
      racks: 12
  - id: rack1
    label: Group
relationships:
  - from: fra
    to: rack1
    label: CONTAINS
  - id: r2
    from: rack1
    to: fra
    type: "<-"
    label: PART_OF
`

func TestReadGraph_YAML(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(yamlGraph), FormatYAML)
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}
	if len(g.Entities) != 2 || len(g.Relationships) != 2 {
		t.Fatalf("ReadGraph() = %d entities, %d relationships", len(g.Entities), len(g.Relationships))
	}
	if g.Entities[0].Metadata["zone"] != "eu" || g.Entities[0].Metadata["racks"] != 12 {
		t.Errorf("metadata = %v", g.Entities[0].Metadata)
	}
	if g.Entities[1].Name != "rack1" {
		t.Errorf("unnamed entity Name = %q, want its id", g.Entities[1].Name)
	}

	r := g.Relationships[0]
	if r.Type != model.Forward {
		t.Errorf("default type = %q, want ->", r.Type)
	}
	if len(r.ID) != 36 {
		t.Errorf("generated id = %q, want a uuid", r.ID)
	}
	if g.Relationships[1].ID != "r2" || g.Relationships[1].Type != model.Reverse {
		t.Errorf("explicit relationship = %+v", g.Relationships[1])
	}
}

func TestReadGraph_StableIDs(t *testing.T) {
	a, _ := ReadGraph(strings.NewReader(yamlGraph), FormatYAML)
	b, _ := ReadGraph(strings.NewReader(yamlGraph), FormatYAML)
	if a.Relationships[0].ID != b.Relationships[0].ID {
		t.Error("generated relationship ids should be stable across reads")
	}
}

func TestReadGraph_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		code   errors.Code
	}{
		{"bad json", `{"entities": [`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"bad yaml", "entities: [a: : b", FormatYAML, errors.ErrCodeInvalidFormat},
		{"unknown format", `{}`, Format("toml"), errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadGraph() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadGraph_EmptyYAML(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}
	if len(g.Entities) != 0 {
		t.Errorf("ReadGraph(empty) = %+v", g)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g, _ := ReadGraph(strings.NewReader(yamlGraph), FormatYAML)

	for _, name := range []string{"graph.json", "graph.yaml", "graph.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteGraphFile(g, path); err != nil {
				t.Fatalf("WriteGraphFile() error = %v", err)
			}
			back, err := ReadGraphFile(path)
			if err != nil {
				t.Fatalf("ReadGraphFile() error = %v", err)
			}
			if len(back.Entities) != 2 || back.Relationships[0].ID != g.Relationships[0].ID {
				t.Errorf("round trip = %+v", back)
			}
		})
	}
}

func TestReadGraphFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadGraphFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}

	txt := filepath.Join(dir, "graph.txt")
	os.WriteFile(txt, []byte("{}"), 0o644)
	if _, err := ReadGraphFile(txt); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown extension error = %v, want UNSUPPORTED", err)
	}
}

func TestMarshalGraph_Deterministic(t *testing.T) {
	g, _ := ReadGraph(strings.NewReader(yamlGraph), FormatYAML)
	a, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph() error = %v", err)
	}
	b, _ := MarshalGraph(g)
	if !bytes.Equal(a, b) {
		t.Error("MarshalGraph should be deterministic")
	}
}

func TestValidate(t *testing.T) {
	ok := model.Graph{
		Entities:      []model.Entity{{ID: "a", Label: "Area"}, {ID: "b", Label: "Group"}},
		Relationships: []model.Relationship{{ID: "r", From: "a", To: "b", Type: model.Forward}},
	}
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.Graph)
	}{
		{"entity without id", func(g *model.Graph) { g.Entities[0].ID = "" }},
		{"duplicate entity", func(g *model.Graph) { g.Entities[1].ID = "a" }},
		{"empty label", func(g *model.Graph) { g.Entities[0].Label = "" }},
		{"missing endpoint", func(g *model.Graph) { g.Relationships[0].To = "" }},
		{"unknown type", func(g *model.Graph) { g.Relationships[0].Type = "=>" }},
		{"duplicate relationship", func(g *model.Graph) {
			g.Relationships = append(g.Relationships, g.Relationships[0])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.Graph{
				Entities:      append([]model.Entity(nil), ok.Entities...),
				Relationships: append([]model.Relationship(nil), ok.Relationships...),
			}
			tt.mutate(&g)
			if err := Validate(g); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Validate() = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
