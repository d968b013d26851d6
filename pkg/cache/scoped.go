package cache

// ScopedKeyer wraps a Keyer with a prefix so that several stores can share
// one cache without their entries colliding.
//
// Example usage:
//
//	// Keys for the production Neo4j graph
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "neo4j:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

func (k *ScopedKeyer) DiagramKey(graphHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(graphHash, opts)
}

func (k *ScopedKeyer) RelationsKey(graphHash string, labels []string) string {
	return k.prefix + k.inner.RelationsKey(graphHash, labels)
}

func (k *ScopedKeyer) ArtifactKey(sourceKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceKey, opts)
}
