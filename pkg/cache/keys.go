package cache

import "slices"

// Keyer derives cache keys.
type Keyer interface {
	// DiagramKey identifies a computed diagram.
	DiagramKey(graphHash string, opts DiagramKeyOpts) string

	// RelationsKey identifies a label relation summary.
	RelationsKey(graphHash string, labels []string) string

	// ArtifactKey identifies a rendered artifact of a diagram or summary.
	ArtifactKey(sourceKey string, opts ArtifactKeyOpts) string
}

// DiagramKeyOpts holds the inputs of a diagram besides the graph.
type DiagramKeyOpts struct {
	Name        string `json:"name"`
	OptionsHash string `json:"options"`
	RulesHash   string `json:"rules"`
}

// ArtifactKeyOpts holds the render settings of an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // svg, dot, json
	Kind   string `json:"kind"`   // blocks, nodelink
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DiagramKey(graphHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", graphHash, opts)
}

// RelationsKey ignores repeated labels but keeps their first-occurrence
// order, which decides the order of the resolved relations.
func (DefaultKeyer) RelationsKey(graphHash string, labels []string) string {
	return hashKey("relations", graphHash, uniqueLabels(labels))
}

func uniqueLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

func (DefaultKeyer) ArtifactKey(sourceKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceKey, opts)
}

var _ Keyer = DefaultKeyer{}
