package hierarchy

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
)

// rootName is the display name of the synthetic root.
const rootName = "-"

// Build converts entities and relationships into a forest of hierarchy
// nodes following opts.
//
// It fails with an [errors.ErrCodeInvalidConfig] error when the label
// hierarchy is empty. Relationships whose endpoints are missing, and
// self-loops, are skipped and logged at debug level. A nil logger discards
// output.
//
// Roots appear in the order their entities were given. When opts requests
// the synthetic root, the result holds exactly one node, unless empty
// branches are hidden and no root survived, in which case it is empty.
func Build(entities []model.Entity, relationships []model.Relationship, opts model.DiagramOptions, logger *log.Logger) ([]*model.Node, error) {
	if len(opts.LabelHierarchy) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "label hierarchy is empty")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	a := newArena(len(entities))
	for _, e := range entities {
		a.add(model.NewNode(e, float64(opts.Level(e.Label))))
	}

	var skipped int
	for _, rel := range relationships {
		parent, child := a.get(rel.From), a.get(rel.To)
		if parent == nil || child == nil {
			logger.Debug("skipping relationship with missing endpoint", "id", rel.ID, "from", rel.From, "to", rel.To)
			skipped++
			continue
		}
		if parent == child {
			logger.Debug("skipping self-loop", "id", rel.ID, "entity", rel.From)
			skipped++
			continue
		}
		if opts.RelMod(int(parent.Value)).IsReverse() {
			parent, child = child, parent
		}
		if parent.HasChild(child.ID) {
			continue
		}
		parent.Children = append(parent.Children, child)
	}

	showEmpty := opts.ShowEmpty()
	if !showEmpty {
		prune(a.order, opts.LeafLabel())
	}

	roots := selectRoots(a.order, opts.RootStart(), showEmpty)
	logger.Debug("built hierarchy", "nodes", len(a.order), "roots", len(roots), "skipped", skipped)

	if !opts.WrapsRoot() {
		return roots, nil
	}
	if !showEmpty && len(roots) == 0 {
		return []*model.Node{}, nil
	}
	root := &model.Node{
		Entity: model.Entity{
			ID:       model.RootID,
			Name:     rootName,
			Label:    model.RootLabel,
			Metadata: model.Metadata{},
		},
		Children: roots,
	}
	return []*model.Node{root}, nil
}

// Visible returns the entities whose label takes part in the diagram.
// With no visible labels configured every entity is returned.
func Visible(entities []model.Entity, opts model.DiagramOptions) []model.Entity {
	if len(opts.VisibleLabels) == 0 {
		return entities
	}
	out := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if opts.Visible(e.Label) || e.Label == model.DefaultLabel {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Arena
// =============================================================================

// arena indexes nodes by ID and remembers insertion order. A repeated ID
// replaces the earlier node in place.
type arena struct {
	byID  map[string]int
	order []*model.Node
}

func newArena(n int) *arena {
	return &arena{byID: make(map[string]int, n), order: make([]*model.Node, 0, n)}
}

func (a *arena) add(n *model.Node) {
	if i, ok := a.byID[n.ID]; ok {
		a.order[i] = n
		return
	}
	a.byID[n.ID] = len(a.order)
	a.order = append(a.order, n)
}

func (a *arena) get(id string) *model.Node {
	i, ok := a.byID[id]
	if !ok {
		return nil
	}
	return a.order[i]
}

// =============================================================================
// Pruning & Root Selection
// =============================================================================

// prune removes, in place, every child whose subtree holds no node of the
// leaf label. Results are memoized per node; a node reached again while it
// is still on the current path counts as empty.
func prune(nodes []*model.Node, leafLabel string) {
	keep := make(map[*model.Node]bool, len(nodes))
	onPath := make(map[*model.Node]bool)

	var visit func(n *model.Node) bool
	visit = func(n *model.Node) bool {
		if v, ok := keep[n]; ok {
			return v
		}
		if onPath[n] {
			return false
		}
		onPath[n] = true
		kept := make([]*model.Node, 0, len(n.Children))
		for _, c := range n.Children {
			if visit(c) {
				kept = append(kept, c)
			}
		}
		n.Children = kept
		delete(onPath, n)

		v := n.Label == leafLabel || len(kept) > 0
		keep[n] = v
		return v
	}

	for _, n := range nodes {
		visit(n)
	}
}

func selectRoots(nodes []*model.Node, rootLabel string, showEmpty bool) []*model.Node {
	roots := slices.DeleteFunc(slices.Clone(nodes), func(n *model.Node) bool {
		if n.Label != rootLabel && n.Label != model.DefaultLabel {
			return true
		}
		return !showEmpty && n.IsLeaf()
	})
	if roots == nil {
		roots = []*model.Node{}
	}
	return roots
}
