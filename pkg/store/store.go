package store

import (
	"context"

	"github.com/matzehuels/nestview/pkg/model"
)

// GraphReader reads entities and relationships.
type GraphReader interface {
	// Entities returns every entity in storage order.
	Entities(ctx context.Context) ([]model.Entity, error)

	// EntitiesByLabel returns the entities carrying label.
	EntitiesByLabel(ctx context.Context, label string) ([]model.Entity, error)

	// Relationships returns every relationship in storage order.
	Relationships(ctx context.Context) ([]model.Relationship, error)

	// RelationshipsTouching returns the relationships with id as either
	// endpoint. A self-loop is returned once.
	RelationshipsTouching(ctx context.Context, id string) ([]model.Relationship, error)

	// EntitiesByIDs returns one entry per requested ID, in request order.
	// Entries for unknown IDs are nil.
	EntitiesByIDs(ctx context.Context, ids []string) ([]*model.Entity, error)
}

// SettingsReader reads formatting rules and diagram configurations.
type SettingsReader interface {
	// Rules returns every formatting rule in evaluation order.
	Rules(ctx context.Context) ([]model.Rule, error)

	// EnabledRules returns the enabled formatting rules in evaluation order.
	EnabledRules(ctx context.Context) ([]model.Rule, error)

	// Diagrams returns every stored diagram configuration.
	Diagrams(ctx context.Context) ([]model.DiagramOptions, error)

	// DiagramOptions returns the configuration named name, or an
	// errors.ErrCodeNotFound error.
	DiagramOptions(ctx context.Context, name string) (model.DiagramOptions, error)
}

// Snapshotter runs fn against a read-consistent view of the graph. The
// reader passed to fn may be used from several goroutines, but not after fn
// returns. The error returned by fn is returned unchanged.
type Snapshotter interface {
	Snapshot(ctx context.Context, fn func(GraphReader) error) error
}

// Writer loads data into a store. Import upserts entities and
// relationships by ID. PutRules replaces the rule set. PutDiagramOptions
// upserts one configuration by name.
type Writer interface {
	Import(ctx context.Context, g model.Graph) error
	PutRules(ctx context.Context, rules []model.Rule) error
	PutDiagramOptions(ctx context.Context, opts model.DiagramOptions) error
}

// Repository is the full read side of a store.
type Repository interface {
	GraphReader
	SettingsReader
	Snapshotter
	Close() error
}

// EnabledOnly filters rules down to the enabled ones, preserving order.
func EnabledOnly(rules []model.Rule) []model.Rule {
	out := make([]model.Rule, 0, len(rules))
	for _, r := range rules {
		if r.IsEnabled {
			out = append(out, r)
		}
	}
	return out
}
