package relations

import "github.com/matzehuels/nestview/pkg/model"

// Way says whether an option follows a relationship forwards or backwards.
type Way string

const (
	To   Way = "to"
	From Way = "from"
)

// Option is one way an entity of FromLabel can reach an entity of ToLabel.
type Option struct {
	FromLabel    string `json:"fromLabel"`
	ToLabel      string `json:"toLabel"`
	Direction    Way    `json:"direction"`
	RelationType string `json:"relationType"`
}

// LabelOptions groups the relationships of g by the labels at their ends.
// A relationship from an A entity to a B entity yields {A, B, to} under A
// and {B, A, from} under B. Relationships with a missing endpoint are
// skipped. Each label's options are distinct and in first-occurrence order.
func LabelOptions(g model.Graph) map[string][]Option {
	labels := make(map[string]string, len(g.Entities))
	for _, e := range g.Entities {
		labels[e.ID] = e.Label
	}

	out := make(map[string][]Option)
	seen := make(map[Option]bool)
	add := func(o Option) {
		if seen[o] {
			return
		}
		seen[o] = true
		out[o.FromLabel] = append(out[o.FromLabel], o)
	}

	for _, r := range g.Relationships {
		from, ok := labels[r.From]
		if !ok {
			continue
		}
		to, ok := labels[r.To]
		if !ok {
			continue
		}
		add(Option{FromLabel: from, ToLabel: to, Direction: To, RelationType: r.Label})
		add(Option{FromLabel: to, ToLabel: from, Direction: From, RelationType: r.Label})
	}
	return out
}
