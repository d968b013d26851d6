// Package sqlite implements a store on a SQLite database file using the
// pure-Go modernc.org/sqlite driver.
//
// Entities and relationships live in indexed tables with their metadata in
// JSON columns. Rules and diagram configurations are stored as JSON
// documents. The schema is created on open.
//
// Snapshot runs its callback inside a transaction that is always rolled
// back, which gives the callback a consistent view of the graph. Queries on
// the snapshot reader are serialized, so it is safe for concurrent use.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/store"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// idBatch bounds the number of placeholders in one IN clause.
const idBatch = 500

// Store implements store.Repository and store.Writer using SQLite.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var (
	_ store.Repository = (*Store)(nil)
	_ store.Writer     = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and migrates its
// schema. Use [MemoryPath] for a throwaway database. A nil logger discards
// output.
func Open(ctx context.Context, path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	dsn := path
	if path != MemoryPath {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "migrate %s", path)
	}
	logger.Debug("opened sqlite store", "path", path)
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL,
		metadata JSON
	);

	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '->',
		label TEXT NOT NULL DEFAULT '',
		metadata JSON
	);

	CREATE TABLE IF NOT EXISTS rules (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		data JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS diagrams (
		name TEXT PRIMARY KEY,
		data JSON NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entities_label ON entities(label);
	CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// GraphReader
// =============================================================================

func (s *Store) reader() *reader { return &reader{q: s.db} }

func (s *Store) Entities(ctx context.Context) ([]model.Entity, error) {
	return s.reader().Entities(ctx)
}

func (s *Store) EntitiesByLabel(ctx context.Context, label string) ([]model.Entity, error) {
	return s.reader().EntitiesByLabel(ctx, label)
}

func (s *Store) Relationships(ctx context.Context) ([]model.Relationship, error) {
	return s.reader().Relationships(ctx)
}

func (s *Store) RelationshipsTouching(ctx context.Context, id string) ([]model.Relationship, error) {
	return s.reader().RelationshipsTouching(ctx, id)
}

func (s *Store) EntitiesByIDs(ctx context.Context, ids []string) ([]*model.Entity, error) {
	return s.reader().EntitiesByIDs(ctx, ids)
}

// Snapshot runs fn inside a transaction that is rolled back afterwards.
func (s *Store) Snapshot(ctx context.Context, fn func(store.GraphReader) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "begin snapshot")
	}
	defer tx.Rollback()
	return fn(&reader{q: tx, mu: &sync.Mutex{}})
}

// =============================================================================
// SettingsReader
// =============================================================================

func (s *Store) Rules(ctx context.Context) ([]model.Rule, error) {
	return s.rules(ctx, false)
}

func (s *Store) EnabledRules(ctx context.Context) ([]model.Rule, error) {
	return s.rules(ctx, true)
}

func (s *Store) rules(ctx context.Context, enabledOnly bool) ([]model.Rule, error) {
	query := `SELECT data FROM rules`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query rules")
	}
	defer rows.Close()

	var out []model.Rule
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan rule")
		}
		var r model.Rule
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal rule")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate rules")
	}
	return out, nil
}

func (s *Store) Diagrams(ctx context.Context) ([]model.DiagramOptions, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM diagrams ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query diagrams")
	}
	defer rows.Close()

	var out []model.DiagramOptions
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan diagram")
		}
		var opts model.DiagramOptions
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal diagram")
		}
		out = append(out, opts)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate diagrams")
	}
	return out, nil
}

func (s *Store) DiagramOptions(ctx context.Context, name string) (model.DiagramOptions, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM diagrams WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return model.DiagramOptions{}, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	if err != nil {
		return model.DiagramOptions{}, errors.Wrap(errors.ErrCodeStorage, err, "query diagram %q", name)
	}
	var opts model.DiagramOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return model.DiagramOptions{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal diagram %q", name)
	}
	return opts, nil
}

// =============================================================================
// Writer
// =============================================================================

// Import upserts every entity and relationship of g in one transaction.
func (s *Store) Import(ctx context.Context, g model.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "begin import")
	}
	defer tx.Rollback()

	for _, e := range g.Entities {
		args, err := entityInsertArgs(e)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entities (id, name, label, metadata) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, label = excluded.label, metadata = excluded.metadata
		`, args...); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "upsert entity %q", e.ID)
		}
	}

	for _, r := range g.Relationships {
		args, err := relationshipInsertArgs(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO relationships (id, from_id, to_id, type, label, metadata) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				from_id = excluded.from_id, to_id = excluded.to_id, type = excluded.type,
				label = excluded.label, metadata = excluded.metadata
		`, args...); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "upsert relationship %q", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "commit import")
	}
	s.logger.Debug("imported graph", "entities", len(g.Entities), "relationships", len(g.Relationships))
	return nil
}

// PutRules replaces the stored rule set.
func (s *Store) PutRules(ctx context.Context, rules []model.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "begin rules")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules`); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "clear rules")
	}
	for i, r := range rules {
		data, err := json.Marshal(r)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "marshal rule %q", r.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rules (id, position, enabled, data) VALUES (?, ?, ?, ?)`,
			r.ID, i, r.IsEnabled, string(data),
		); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "insert rule %q", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "commit rules")
	}
	return nil
}

// PutDiagramOptions upserts opts by name.
func (s *Store) PutDiagramOptions(ctx context.Context, opts model.DiagramOptions) error {
	if opts.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "diagram name cannot be empty")
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "marshal diagram %q", opts.Name)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO diagrams (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, opts.Name, string(data)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "upsert diagram %q", opts.Name)
	}
	return nil
}

// =============================================================================
// Reader
// =============================================================================

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// reader implements store.GraphReader on a querier. When mu is set, each
// query and its scan run under it.
type reader struct {
	q  querier
	mu *sync.Mutex
}

func (r *reader) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r *reader) Entities(ctx context.Context) ([]model.Entity, error) {
	return r.queryEntities(ctx, `SELECT `+entityColumns+` FROM entities ORDER BY rowid`)
}

func (r *reader) EntitiesByLabel(ctx context.Context, label string) ([]model.Entity, error) {
	return r.queryEntities(ctx, `SELECT `+entityColumns+` FROM entities WHERE label = ? ORDER BY rowid`, label)
}

func (r *reader) Relationships(ctx context.Context) ([]model.Relationship, error) {
	return r.queryRelationships(ctx, `SELECT `+relationshipColumns+` FROM relationships ORDER BY rowid`)
}

func (r *reader) RelationshipsTouching(ctx context.Context, id string) ([]model.Relationship, error) {
	return r.queryRelationships(ctx,
		`SELECT `+relationshipColumns+` FROM relationships WHERE from_id = ? OR to_id = ? ORDER BY rowid`,
		id, id)
}

func (r *reader) EntitiesByIDs(ctx context.Context, ids []string) ([]*model.Entity, error) {
	byID := make(map[string]model.Entity, len(ids))
	for start := 0; start < len(ids); start += idBatch {
		batch := ids[start:min(start+idBatch, len(ids))]
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		query := fmt.Sprintf(`SELECT %s FROM entities WHERE id IN (%s)`,
			entityColumns, strings.TrimSuffix(strings.Repeat("?,", len(batch)), ","))
		found, err := r.queryEntities(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for _, e := range found {
			byID[e.ID] = e
		}
	}

	out := make([]*model.Entity, len(ids))
	for i, id := range ids {
		if e, ok := byID[id]; ok {
			e.Metadata = e.Metadata.Clone()
			out[i] = &e
		}
	}
	return out, nil
}

func (r *reader) queryEntities(ctx context.Context, query string, args ...any) ([]model.Entity, error) {
	defer r.lock()()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query entities")
	}
	defer rows.Close()

	var out []model.Entity
	for rows.Next() {
		var row entityRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan entity")
		}
		e, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate entities")
	}
	return out, nil
}

func (r *reader) queryRelationships(ctx context.Context, query string, args ...any) ([]model.Relationship, error) {
	defer r.lock()()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query relationships")
	}
	defer rows.Close()

	var out []model.Relationship
	for rows.Next() {
		var row relationshipRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan relationship")
		}
		rel, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate relationships")
	}
	return out, nil
}
