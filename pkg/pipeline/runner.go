package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestview/pkg/cache"
	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/graph"
	"github.com/matzehuels/nestview/pkg/hierarchy"
	"github.com/matzehuels/nestview/pkg/layout"
	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/observability"
	"github.com/matzehuels/nestview/pkg/relations"
	"github.com/matzehuels/nestview/pkg/rules"
	"github.com/matzehuels/nestview/pkg/store"
)

// Runner executes pipeline stages against a repository with caching.
//
// The Runner keeps no results between calls. Multiple goroutines can safely
// use the same Runner.
type Runner struct {
	Repo   store.Repository
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the expiry of cached results. Zero selects cache.DefaultTTL.
	TTL time.Duration

	// Refresh skips cache reads; results are still written.
	Refresh bool

	// Driver names the store in observability events.
	Driver string
}

// NewRunner creates a runner over repo.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(repo store.Repository, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Repo:   repo,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// =============================================================================
// Diagrams
// =============================================================================

// Diagram computes the diagram configured under name.
func (r *Runner) Diagram(ctx context.Context, name string) (*Diagram, error) {
	opts, err := r.Repo.DiagramOptions(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.DiagramWithOptions(ctx, opts)
}

// DiagramWithOptions computes a diagram from explicit options, which need
// not be stored. Options and rules are read before the graph snapshot is
// taken.
func (r *Runner) DiagramWithOptions(ctx context.Context, opts model.DiagramOptions) (*Diagram, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	ruleSet, err := r.Repo.EnabledRules(ctx)
	if err != nil {
		return nil, err
	}

	g, err := r.Graph(ctx)
	if err != nil {
		return nil, err
	}

	graphHash, err := hashGraph(g)
	if err != nil {
		return nil, err
	}
	optsHash, err := cache.HashJSON(opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash options")
	}
	rulesHash, err := cache.HashJSON(ruleSet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash rules")
	}
	key := r.Keyer.DiagramKey(graphHash, cache.DiagramKeyOpts{
		Name:        opts.Name,
		OptionsHash: optsHash,
		RulesHash:   rulesHash,
	})

	var cached Diagram
	if r.lookup(ctx, "diagram", key, &cached) {
		cached.CacheHit = true
		cached.cacheKey = key
		r.Logger.Debug("diagram from cache", "diagram", opts.Name)
		return &cached, nil
	}

	d, err := r.compute(ctx, g, opts, ruleSet)
	if err != nil {
		return nil, err
	}
	d.GraphHash = graphHash
	d.cacheKey = key
	r.store(ctx, "diagram", key, d)
	return d, nil
}

func (r *Runner) compute(ctx context.Context, g model.Graph, opts model.DiagramOptions, ruleSet []model.Rule) (*Diagram, error) {
	hooks := observability.Pipeline()
	d := &Diagram{Name: opts.Name, Options: opts}
	d.Stats.EntityCount = len(g.Entities)
	d.Stats.RelationshipCount = len(g.Relationships)

	visible := hierarchy.Visible(g.Entities, opts)
	hooks.OnBuildStart(ctx, opts.Name, len(visible))
	start := time.Now()
	roots, err := hierarchy.Build(visible, g.Relationships, opts, r.Logger)
	d.Stats.BuildTime = time.Since(start)
	d.Stats.NodeCount = countNodes(roots)
	hooks.OnBuildComplete(ctx, opts.Name, d.Stats.NodeCount, d.Stats.BuildTime, err)
	if err != nil {
		return nil, err
	}

	hooks.OnLayoutStart(ctx, opts.Name, d.Stats.NodeCount)
	start = time.Now()
	err = layout.Compute(roots, opts)
	d.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, opts.Name, d.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}

	d.Roots = roots
	d.Blocks = styleBlocks(layout.Flatten(roots), roots, ruleSet)
	d.Size = layout.Bounds(d.Blocks)

	r.Logger.Info("computed diagram",
		"diagram", opts.Name,
		"nodes", d.Stats.NodeCount,
		"blocks", len(d.Blocks),
		"build", d.Stats.BuildTime,
		"layout", d.Stats.LayoutTime)
	return d, nil
}

// styleBlocks attaches the style string of the matching rules to every
// block.
func styleBlocks(blocks []layout.Block, roots []*model.Node, ruleSet []model.Rule) []layout.Block {
	if len(ruleSet) == 0 {
		return blocks
	}
	entities := make(map[string]model.Entity)
	for _, root := range roots {
		root.Walk(func(n *model.Node, _ int) bool {
			if _, ok := entities[n.ID]; ok {
				return false
			}
			entities[n.ID] = n.Entity
			return true
		})
	}

	styles := make(map[string]string, len(entities))
	for i := range blocks {
		id := blocks[i].ID
		style, ok := styles[id]
		if !ok {
			_, style = rules.Evaluate(entities[id], ruleSet)
			styles[id] = style
		}
		blocks[i].Style = style
	}
	return blocks
}

func countNodes(roots []*model.Node) int {
	n := 0
	for _, root := range roots {
		root.Walk(func(*model.Node, int) bool {
			n++
			return true
		})
	}
	return n
}

func validateOptions(opts model.DiagramOptions) error {
	relMod := make([]string, len(opts.HierarchyRelMod))
	for i, m := range opts.HierarchyRelMod {
		relMod[i] = string(m)
	}
	return errors.ValidateDiagramOptions(opts.LabelHierarchy, relMod, opts.ColumnsPerLabel)
}

// =============================================================================
// Relations
// =============================================================================

// Relations resolves the label relation summary for labels. The cache
// lookup and the resolution share one snapshot.
func (r *Runner) Relations(ctx context.Context, labels []string) (*Relations, error) {
	if err := errors.ValidateLabels(labels); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	resolver := relations.New(r.Repo, r.Logger)

	var out *Relations
	err := r.snapshot(ctx, func(reader store.GraphReader) error {
		g, err := readGraph(ctx, reader)
		if err != nil {
			return err
		}
		graphHash, err := hashGraph(g)
		if err != nil {
			return err
		}
		key := r.Keyer.RelationsKey(graphHash, labels)

		var cached Relations
		if r.lookup(ctx, "relations", key, &cached) {
			cached.Labels = labels
			cached.CacheHit = true
			cached.cacheKey = key
			out = &cached
			return nil
		}

		hooks.OnResolveStart(ctx, labels)
		start := time.Now()
		rels, err := resolver.ResolveWith(ctx, reader, labels)
		hooks.OnResolveComplete(ctx, labels, len(rels), time.Since(start), err)
		if err != nil {
			return err
		}
		out = &Relations{Labels: labels, Relations: rels, GraphHash: graphHash, cacheKey: key}
		r.store(ctx, "relations", key, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Graph returns one consistent copy of the stored graph.
func (r *Runner) Graph(ctx context.Context) (model.Graph, error) {
	var g model.Graph
	err := r.snapshot(ctx, func(reader store.GraphReader) error {
		var err error
		g, err = readGraph(ctx, reader)
		return err
	})
	return g, err
}

// =============================================================================
// Fingerprint
// =============================================================================

// Fingerprint hashes the graph, the enabled rules and every diagram
// configuration. It changes whenever a rerun could produce different
// output, which makes it suitable for store.Watch.
func (r *Runner) Fingerprint(ctx context.Context) (string, error) {
	ruleSet, err := r.Repo.EnabledRules(ctx)
	if err != nil {
		return "", err
	}
	diagrams, err := r.Repo.Diagrams(ctx)
	if err != nil {
		return "", err
	}
	g, err := r.Graph(ctx)
	if err != nil {
		return "", err
	}
	graphHash, err := hashGraph(g)
	if err != nil {
		return "", err
	}
	settings, err := cache.HashJSON(struct {
		Rules    []model.Rule           `json:"rules"`
		Diagrams []model.DiagramOptions `json:"diagrams"`
	}{ruleSet, diagrams})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash settings")
	}
	return cache.Hash([]byte(graphHash + settings)), nil
}

// =============================================================================
// Helpers
// =============================================================================

func (r *Runner) snapshot(ctx context.Context, fn func(store.GraphReader) error) error {
	start := time.Now()
	err := r.Repo.Snapshot(ctx, fn)
	observability.Store().OnSnapshot(ctx, r.Driver, time.Since(start), err)
	return err
}

func readGraph(ctx context.Context, reader store.GraphReader) (model.Graph, error) {
	entities, err := reader.Entities(ctx)
	if err != nil {
		return model.Graph{}, err
	}
	rels, err := reader.Relationships(ctx)
	if err != nil {
		return model.Graph{}, err
	}
	return model.Graph{Entities: entities, Relationships: rels}, nil
}

func hashGraph(g model.Graph) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	return cache.Hash(data), nil
}

// lookup decodes a cached entry into v. Read and decode failures count as
// misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	if r.Refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return false
	}
	if !hit || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

// store writes v to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, keyType, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

// Close releases the cache and the repository.
func (r *Runner) Close() error {
	cerr := r.Cache.Close()
	if err := r.Repo.Close(); err != nil {
		return err
	}
	return cerr
}
