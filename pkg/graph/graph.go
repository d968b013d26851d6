package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

// Format names a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// relationshipNamespace seeds the name-based UUIDs given to relationships
// without an ID.
var relationshipNamespace = uuid.MustParse("6b1f3c52-9d0e-4a8e-b7a4-3f5d2c1e9a70")

// FormatFromPath picks the format for path by extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported graph file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// ReadGraphFile reads and normalizes the graph file at path.
func ReadGraphFile(path string) (model.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return model.Graph{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return model.Graph{}, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	if err != nil {
		return model.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f, format)
}

// ReadGraph decodes and normalizes a graph in the given format.
func ReadGraph(r io.Reader, format Format) (model.Graph, error) {
	var g model.Graph
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return model.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json graph")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&g); err != nil && err != io.EOF {
			return model.Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml graph")
		}
	default:
		return model.Graph{}, errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
	}
	Normalize(&g)
	return g, nil
}

// WriteGraph encodes g in the given format.
func WriteGraph(g model.Graph, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q", format)
}

// WriteGraphFile writes g to path in the format its extension selects.
func WriteGraphFile(g model.Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// MarshalGraph encodes g as compact JSON. Equal graphs encode to equal
// bytes, which makes the output suitable for content hashing.
func MarshalGraph(g model.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(g); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Normalization & Validation
// =============================================================================

// Normalize fills defaults into g in place.
func Normalize(g *model.Graph) {
	for i := range g.Entities {
		if g.Entities[i].Name == "" {
			g.Entities[i].Name = g.Entities[i].ID
		}
	}
	for i := range g.Relationships {
		r := &g.Relationships[i]
		if r.Type == "" {
			r.Type = model.Forward
		}
		if r.ID == "" {
			r.ID = relationshipID(i, *r)
		}
	}
}

func relationshipID(i int, r model.Relationship) string {
	name := fmt.Sprintf("%d\x00%s\x00%s\x00%s", i, r.From, r.To, r.Label)
	return uuid.NewSHA1(relationshipNamespace, []byte(name)).String()
}

// Validate reports the first structural problem in g: entities without an
// ID or with an invalid label, relationships without endpoints or with an
// unknown type, and duplicate IDs.
func Validate(g model.Graph) error {
	entities := make(map[string]bool, len(g.Entities))
	for i, e := range g.Entities {
		if e.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "entity %d has no id", i)
		}
		if entities[e.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate entity id %q", e.ID)
		}
		entities[e.ID] = true
		if err := errors.ValidateLabel(e.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "entity %q", e.ID)
		}
	}

	rels := make(map[string]bool, len(g.Relationships))
	for i, r := range g.Relationships {
		if r.From == "" || r.To == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "relationship %d is missing an endpoint", i)
		}
		if r.Type != "" && !r.Type.Valid() {
			return errors.New(errors.ErrCodeInvalidFormat, "relationship %d has unknown type %q", i, r.Type)
		}
		if r.ID == "" {
			continue
		}
		if rels[r.ID] {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate relationship id %q", r.ID)
		}
		rels[r.ID] = true
	}
	return nil
}
