// Package pipeline runs the diagram stages against a store, with caching.
//
// A diagram run reads the diagram's configuration and enabled rules, takes
// one snapshot of the graph, and then runs the pure stages on that copy:
//
//  1. Build: turn the visible entities into a rooted forest ([hierarchy])
//  2. Layout: size and position every node ([layout])
//  3. Style: evaluate the formatting rules for every block ([rules])
//
// The result is cached under a key derived from the content of the graph,
// the options and the rules, so any change to one of them yields a fresh
// computation while repeated runs on unchanged data are served from the
// cache.
//
// Relation summaries go through the same snapshot-and-cache path using the
// [relations] resolver.
//
// # Usage
//
//	runner := pipeline.NewRunner(repo, cache, nil, logger)
//	d, err := runner.Diagram(ctx, "datacenter")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := runner.Render(ctx, d, pipeline.FormatSVG)
//
// The runner never recomputes on its own. To follow a changing store, call
// [Runner.Fingerprint] from [store.Watch] and rerun on change.
//
// [hierarchy]: github.com/matzehuels/nestview/pkg/hierarchy
// [layout]: github.com/matzehuels/nestview/pkg/layout
// [rules]: github.com/matzehuels/nestview/pkg/rules
// [relations]: github.com/matzehuels/nestview/pkg/relations
// [store.Watch]: github.com/matzehuels/nestview/pkg/store#Watch
package pipeline

import (
	"time"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/layout"
	"github.com/matzehuels/nestview/pkg/model"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// DiagramFormats are the formats Render supports.
var DiagramFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// RelationFormats are the formats RenderRelations supports.
var RelationFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidateFormat checks format against the supported set.
func ValidateFormat(format string, supported map[string]bool) error {
	if !supported[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q", format)
	}
	return nil
}

// Diagram is a computed nested block diagram.
type Diagram struct {
	Name    string               `json:"name"`
	Options model.DiagramOptions `json:"options"`

	// Roots is the positioned forest. Coordinates are parent-relative.
	Roots []*model.Node `json:"roots"`

	// Blocks is Roots flattened to absolute coordinates, each with the
	// style string of the rules it matched.
	Blocks []layout.Block `json:"blocks"`

	// Size is the canvas extent of Blocks.
	Size layout.Size `json:"size"`

	// GraphHash identifies the graph content the diagram was built from.
	GraphHash string `json:"graphHash"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"-"`
	cacheKey string
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntityCount       int           `json:"entities"`
	RelationshipCount int           `json:"relationships"`
	NodeCount         int           `json:"nodes"`
	BuildTime         time.Duration `json:"buildTime"`
	LayoutTime        time.Duration `json:"layoutTime"`
}

// Relations is a computed label relation summary.
type Relations struct {
	Labels    []string              `json:"labels"`
	Relations []model.LabelRelation `json:"relations"`
	GraphHash string                `json:"graphHash"`
	CacheHit  bool                  `json:"-"`
	cacheKey  string
}
