package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/nestview/pkg/cache"
	"github.com/matzehuels/nestview/pkg/config"
	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/graph"
	"github.com/matzehuels/nestview/pkg/pipeline"
	"github.com/matzehuels/nestview/pkg/store"
	"github.com/matzehuels/nestview/pkg/store/memory"
	"github.com/matzehuels/nestview/pkg/store/neo4j"
	"github.com/matzehuels/nestview/pkg/store/sqlite"
)

// writableRepository is a store that can also be loaded into.
type writableRepository interface {
	store.Repository
	store.Writer
}

// =============================================================================
// Store Factory
// =============================================================================

// openRepository opens the store named by the config. Rules and diagrams
// from the config are written into writable stores; Neo4j serves them from
// the config directly.
func (c *CLI) openRepository(ctx context.Context) (store.Repository, error) {
	cfg := c.cfg.Store
	switch cfg.Driver {
	case config.DriverMemory, "":
		s := memory.New()
		if cfg.Graph != "" {
			g, err := graph.ReadGraphFile(cfg.Graph)
			if err != nil {
				return nil, fmt.Errorf("load graph %s: %w", cfg.Graph, err)
			}
			if err := s.Import(ctx, g); err != nil {
				return nil, err
			}
			c.Logger.Debug("loaded graph", "path", cfg.Graph, "entities", len(g.Entities), "relationships", len(g.Relationships))
		}
		return s, c.seed(ctx, s)

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.Path, c.Logger)
		if err != nil {
			return nil, err
		}
		if err := c.seed(ctx, s); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case config.DriverNeo4j:
		s, err := neo4j.Open(ctx, neo4j.Config{
			URI:      cfg.URI,
			User:     cfg.User,
			Password: cfg.Password,
			Database: cfg.Database,
			Rules:    c.cfg.Rules,
			Diagrams: c.cfg.Diagrams,
		}, c.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store driver %q", cfg.Driver)
}

// openWritable opens the configured store for loading.
func (c *CLI) openWritable(ctx context.Context) (writableRepository, error) {
	repo, err := c.openRepository(ctx)
	if err != nil {
		return nil, err
	}
	w, ok := repo.(writableRepository)
	if !ok {
		repo.Close()
		return nil, errors.New(errors.ErrCodeUnsupported, "store driver %q is read-only", c.cfg.Store.Driver)
	}
	return w, nil
}

// seed writes the config's rules and diagrams into s.
func (c *CLI) seed(ctx context.Context, s store.Writer) error {
	if len(c.cfg.Rules) > 0 {
		if err := s.PutRules(ctx, c.cfg.Rules); err != nil {
			return err
		}
	}
	for _, d := range c.cfg.Diagrams {
		if err := s.PutDiagramOptions(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// openCache opens the configured result cache. A file cache that cannot
// locate a directory degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.cfg.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Driver {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile, "":
		dir, err := c.fileCacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache driver %q", cfg.Driver)
}

func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts are the cache flags shared by pipeline commands.
type runnerOpts struct {
	noCache bool
	refresh bool
}

// newRunner opens the store and cache and wires them into a pipeline runner.
func (c *CLI) newRunner(ctx context.Context, opts runnerOpts) (*pipeline.Runner, error) {
	ttl, err := c.cfg.TTL()
	if err != nil {
		return nil, err
	}
	repo, err := c.openRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	ch, err := c.openCache(ctx, opts.noCache)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	var keyer cache.Keyer
	if scope := c.cfg.Cache.Scope; scope != "" {
		keyer = cache.NewScopedKeyer(nil, scope+":")
	}
	r := pipeline.NewRunner(repo, ch, keyer, c.Logger)
	r.TTL = ttl
	r.Refresh = opts.refresh
	r.Driver = c.cfg.Store.Driver
	return r, nil
}
