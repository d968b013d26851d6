// Package neo4j reads a labeled property graph from a Neo4j database.
//
// The store is read-only. Every node needs an "id" property; its first
// label becomes the entity label and its remaining properties become
// metadata. Relationships take their label from the relationship type and
// their direction from an optional "direction" property.
//
// Rules and diagram configurations do not live in the database. They are
// passed in through [Config], typically from the nestview config file.
package neo4j

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/store"
)

// Config holds connection settings and the settings served by the store.
type Config struct {
	URI      string
	User     string
	Password string
	Database string // empty selects the server default

	Rules    []model.Rule
	Diagrams []model.DiagramOptions
}

// Store implements store.Repository on a Neo4j driver.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	rules    []model.Rule
	diagrams []model.DiagramOptions
	logger   *log.Logger
}

var _ store.Repository = (*Store)(nil)

// Open connects to the database described by cfg and verifies
// connectivity. A nil logger discards output.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "neo4j uri is required")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to %s", cfg.URI)
	}

	logger.Debug("connected to neo4j", "uri", cfg.URI, "database", cfg.Database)
	return &Store{
		driver:   driver,
		database: cfg.Database,
		rules:    slices.Clone(cfg.Rules),
		diagrams: slices.Clone(cfg.Diagrams),
		logger:   logger,
	}, nil
}

// Close closes the driver.
func (s *Store) Close() error {
	return s.driver.Close(context.Background())
}

// =============================================================================
// Snapshot
// =============================================================================

// Snapshot runs fn inside one read transaction.
func (s *Store) Snapshot(ctx context.Context, fn func(store.GraphReader) error) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	var fnErr error
	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		fnErr = fn(&txReader{tx: tx})
		return nil, nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "read transaction")
	}
	return nil
}

func (s *Store) Entities(ctx context.Context) (out []model.Entity, err error) {
	err = s.Snapshot(ctx, func(r store.GraphReader) error {
		out, err = r.Entities(ctx)
		return err
	})
	return out, err
}

func (s *Store) EntitiesByLabel(ctx context.Context, label string) (out []model.Entity, err error) {
	err = s.Snapshot(ctx, func(r store.GraphReader) error {
		out, err = r.EntitiesByLabel(ctx, label)
		return err
	})
	return out, err
}

func (s *Store) Relationships(ctx context.Context) (out []model.Relationship, err error) {
	err = s.Snapshot(ctx, func(r store.GraphReader) error {
		out, err = r.Relationships(ctx)
		return err
	})
	return out, err
}

func (s *Store) RelationshipsTouching(ctx context.Context, id string) (out []model.Relationship, err error) {
	err = s.Snapshot(ctx, func(r store.GraphReader) error {
		out, err = r.RelationshipsTouching(ctx, id)
		return err
	})
	return out, err
}

func (s *Store) EntitiesByIDs(ctx context.Context, ids []string) (out []*model.Entity, err error) {
	err = s.Snapshot(ctx, func(r store.GraphReader) error {
		out, err = r.EntitiesByIDs(ctx, ids)
		return err
	})
	return out, err
}

// =============================================================================
// SettingsReader
// =============================================================================

func (s *Store) Rules(context.Context) ([]model.Rule, error) {
	return slices.Clone(s.rules), nil
}

func (s *Store) EnabledRules(context.Context) ([]model.Rule, error) {
	return store.EnabledOnly(s.rules), nil
}

func (s *Store) Diagrams(context.Context) ([]model.DiagramOptions, error) {
	return slices.Clone(s.diagrams), nil
}

func (s *Store) DiagramOptions(_ context.Context, name string) (model.DiagramOptions, error) {
	for _, d := range s.diagrams {
		if d.Name == name {
			return d, nil
		}
	}
	return model.DiagramOptions{}, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
}

// =============================================================================
// Transaction Reader
// =============================================================================

const (
	entityReturn = `n.id AS id, n.name AS name, labels(n)[0] AS label, properties(n) AS props`

	relationshipMatch  = `MATCH (s)-[r]->(t) WHERE s.id IS NOT NULL AND t.id IS NOT NULL`
	relationshipReturn = `coalesce(r.id, elementId(r)) AS id, s.id AS from, t.id AS to,
		coalesce(r.direction, '->') AS type, type(r) AS label, properties(r) AS props`
)

// txReader implements store.GraphReader on a managed transaction. Queries
// are serialized because a transaction runs one query at a time.
type txReader struct {
	mu sync.Mutex
	tx neo4j.ManagedTransaction
}

func (r *txReader) Entities(ctx context.Context) ([]model.Entity, error) {
	return r.entities(ctx, `MATCH (n) WHERE n.id IS NOT NULL RETURN `+entityReturn+` ORDER BY id`, nil)
}

func (r *txReader) EntitiesByLabel(ctx context.Context, label string) ([]model.Entity, error) {
	return r.entities(ctx,
		`MATCH (n) WHERE n.id IS NOT NULL AND $label IN labels(n) RETURN `+entityReturn+` ORDER BY id`,
		map[string]any{"label": label})
}

func (r *txReader) Relationships(ctx context.Context) ([]model.Relationship, error) {
	return r.relationships(ctx, relationshipMatch+` RETURN `+relationshipReturn+` ORDER BY id`, nil)
}

func (r *txReader) RelationshipsTouching(ctx context.Context, id string) ([]model.Relationship, error) {
	return r.relationships(ctx,
		relationshipMatch+` AND (s.id = $id OR t.id = $id) RETURN `+relationshipReturn+` ORDER BY id`,
		map[string]any{"id": id})
}

func (r *txReader) EntitiesByIDs(ctx context.Context, ids []string) ([]*model.Entity, error) {
	found, err := r.entities(ctx,
		`MATCH (n) WHERE n.id IN $ids RETURN `+entityReturn,
		map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}
	return orderByIDs(found, ids), nil
}

func (r *txReader) entities(ctx context.Context, query string, params map[string]any) ([]model.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.tx.Run(ctx, query, params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query entities")
	}
	var out []model.Entity
	for result.Next(ctx) {
		out = append(out, recordToEntity(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate entities")
	}
	return out, nil
}

func (r *txReader) relationships(ctx context.Context, query string, params map[string]any) ([]model.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.tx.Run(ctx, query, params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query relationships")
	}
	var out []model.Relationship
	for result.Next(ctx) {
		out = append(out, recordToRelationship(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate relationships")
	}
	return out, nil
}

// ============================================================================
// Record Helpers
// ============================================================================

func recordToEntity(record *neo4j.Record) model.Entity {
	return model.Entity{
		ID:       getStringFromRecord(record, "id"),
		Name:     getStringFromRecord(record, "name"),
		Label:    getStringFromRecord(record, "label"),
		Metadata: metadataFromRecord(record, "props", "id", "name"),
	}
}

func recordToRelationship(record *neo4j.Record) model.Relationship {
	typ := model.Direction(getStringFromRecord(record, "type"))
	if !typ.Valid() {
		typ = model.Forward
	}
	return model.Relationship{
		ID:       getStringFromRecord(record, "id"),
		From:     getStringFromRecord(record, "from"),
		To:       getStringFromRecord(record, "to"),
		Type:     typ,
		Label:    getStringFromRecord(record, "label"),
		Metadata: metadataFromRecord(record, "props", "id", "direction"),
	}
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// metadataFromRecord copies the scalar properties under key, leaving out
// the skipped ones. Lists, maps and temporal values are dropped.
func metadataFromRecord(record *neo4j.Record, key string, skip ...string) model.Metadata {
	val, ok := record.Get(key)
	if !ok {
		return nil
	}
	props, ok := val.(map[string]any)
	if !ok {
		return nil
	}
	var meta model.Metadata
	for k, v := range props {
		if slices.Contains(skip, k) {
			continue
		}
		switch v.(type) {
		case string, bool, int64, float64:
		default:
			continue
		}
		if meta == nil {
			meta = make(model.Metadata)
		}
		meta[k] = v
	}
	return meta
}

// orderByIDs lays found out in request order with nil for misses.
func orderByIDs(found []model.Entity, ids []string) []*model.Entity {
	byID := make(map[string]model.Entity, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	out := make([]*model.Entity, len(ids))
	for i, id := range ids {
		if e, ok := byID[id]; ok {
			e.Metadata = e.Metadata.Clone()
			out[i] = &e
		}
	}
	return out
}
