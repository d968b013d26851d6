package sqlite

import (
	"database/sql"
	"encoding/json"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

// ============================================================================
// JSON Column Helpers
// ============================================================================

// unmarshalMetadata decodes a nullable JSON column into a Metadata map.
func unmarshalMetadata(ns sql.NullString) (model.Metadata, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var m model.Metadata
	if err := json.Unmarshal([]byte(ns.String), &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal metadata")
	}
	return m, nil
}

// marshalMetadata encodes m for a nullable JSON column. Empty maps are
// stored as NULL.
func marshalMetadata(m model.Metadata) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "marshal metadata")
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Entity Row Scanner
// ============================================================================
//
// Column order must match between entityColumns, scanArgs and
// entityInsertArgs. The same applies to relationships.

const entityColumns = `id, name, label, metadata`

type entityRow struct {
	ID           string
	Name         string
	Label        string
	MetadataJSON sql.NullString
}

func (r *entityRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Label, &r.MetadataJSON}
}

func (r *entityRow) toModel() (model.Entity, error) {
	meta, err := unmarshalMetadata(r.MetadataJSON)
	if err != nil {
		return model.Entity{}, err
	}
	return model.Entity{ID: r.ID, Name: r.Name, Label: r.Label, Metadata: meta}, nil
}

func entityInsertArgs(e model.Entity) ([]any, error) {
	meta, err := marshalMetadata(e.Metadata)
	if err != nil {
		return nil, err
	}
	return []any{e.ID, e.Name, e.Label, meta}, nil
}

// ============================================================================
// Relationship Row Scanner
// ============================================================================

const relationshipColumns = `id, from_id, to_id, type, label, metadata`

type relationshipRow struct {
	ID           string
	From         string
	To           string
	Type         string
	Label        string
	MetadataJSON sql.NullString
}

func (r *relationshipRow) scanArgs() []any {
	return []any{&r.ID, &r.From, &r.To, &r.Type, &r.Label, &r.MetadataJSON}
}

func (r *relationshipRow) toModel() (model.Relationship, error) {
	meta, err := unmarshalMetadata(r.MetadataJSON)
	if err != nil {
		return model.Relationship{}, err
	}
	return model.Relationship{
		ID:       r.ID,
		From:     r.From,
		To:       r.To,
		Type:     model.Direction(r.Type),
		Label:    r.Label,
		Metadata: meta,
	}, nil
}

func relationshipInsertArgs(r model.Relationship) ([]any, error) {
	meta, err := marshalMetadata(r.Metadata)
	if err != nil {
		return nil, err
	}
	typ := r.Type
	if typ == "" {
		typ = model.Forward
	}
	return []any{r.ID, r.From, r.To, string(typ), r.Label, meta}, nil
}
