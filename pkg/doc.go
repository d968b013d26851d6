// Package pkg holds the nestview libraries.
//
// Nestview draws a labeled property graph as nested block diagrams: entities
// are nested along a label hierarchy, sized and packed into boxes, and styled
// by conditional-formatting rules.
//
// # Data Flow
//
//	graph store ([store/memory], [store/sqlite], [store/neo4j])
//	         ↓
//	    [hierarchy] (entities + relationships → rooted forest)
//	         ↓
//	    [layout] (sizes, positions, flattened blocks)
//	         ↓
//	    [rules] (style string per block)
//	         ↓
//	    [render/blocks] SVG, or JSON
//
// [relations] summarizes how labels connect; [render/nodelink] draws that
// summary with Graphviz. [pipeline] runs both flows over one store snapshot
// with content-addressed caching ([cache]).
//
// # Quick Start
//
//	s := memory.FromGraph(g)
//	roots, err := hierarchy.Build(g.Entities, g.Relationships, opts, nil)
//	if err != nil {
//	    return err
//	}
//	if err := layout.Compute(roots, opts); err != nil {
//	    return err
//	}
//	svg := blocks.RenderSVG(layout.Flatten(roots), blocks.Options{Title: opts.Title()})
//
// # Supporting Packages
//
//   - [model]: shared data types
//   - [graph]: JSON and YAML graph files
//   - [config]: TOML configuration
//   - [errors]: coded errors
//   - [observability]: pipeline, cache and store hooks
//   - [buildinfo]: version information
//
// [store/memory]: github.com/matzehuels/nestview/pkg/store/memory
// [store/sqlite]: github.com/matzehuels/nestview/pkg/store/sqlite
// [store/neo4j]: github.com/matzehuels/nestview/pkg/store/neo4j
// [hierarchy]: github.com/matzehuels/nestview/pkg/hierarchy
// [layout]: github.com/matzehuels/nestview/pkg/layout
// [rules]: github.com/matzehuels/nestview/pkg/rules
// [render/blocks]: github.com/matzehuels/nestview/pkg/render/blocks
// [render/nodelink]: github.com/matzehuels/nestview/pkg/render/nodelink
// [relations]: github.com/matzehuels/nestview/pkg/relations
// [pipeline]: github.com/matzehuels/nestview/pkg/pipeline
// [cache]: github.com/matzehuels/nestview/pkg/cache
// [model]: github.com/matzehuels/nestview/pkg/model
// [graph]: github.com/matzehuels/nestview/pkg/graph
// [config]: github.com/matzehuels/nestview/pkg/config
// [errors]: github.com/matzehuels/nestview/pkg/errors
// [observability]: github.com/matzehuels/nestview/pkg/observability
// [buildinfo]: github.com/matzehuels/nestview/pkg/buildinfo
package pkg
