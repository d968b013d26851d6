package model

import "slices"

// DiagramType selects how a hierarchy is drawn. Only nested block diagrams
// honor DisplayEmpty; the other types always show empty branches.
type DiagramType string

const (
	DiagramNestedBlock DiagramType = "nestedblock"
	DiagramSunburst    DiagramType = "sunburst"
	DiagramGraph       DiagramType = "graph"
)

// Spacing is a four-sided inset in user units.
type Spacing struct {
	Top    float64 `json:"top" toml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
}

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() float64 { return s.Left + s.Right }

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() float64 { return s.Top + s.Bottom }

// BoxModel constrains diagram boxes.
type BoxModel struct {
	MinWidth  float64 `json:"minWidth" toml:"min_width"`
	MinHeight float64 `json:"minHeight" toml:"min_height"`
	Margin    Spacing `json:"margin" toml:"margin"`
}

// FontSettings describes the title font.
type FontSettings struct {
	Size   float64 `json:"fontSize" toml:"size"`
	Family string  `json:"fontFamily" toml:"family"`
	Weight string  `json:"fontWeight" toml:"weight"`
}

// TitleModel describes the title strip at the top of every box.
type TitleModel struct {
	Font   FontSettings `json:"fontSettings" toml:"font"`
	Margin Spacing      `json:"margin" toml:"margin"`
}

// DefaultBoxModel returns the box model used when none is configured.
func DefaultBoxModel() BoxModel {
	return BoxModel{
		MinWidth:  100,
		MinHeight: 20,
		Margin:    Spacing{Top: 10, Bottom: 10, Left: 10, Right: 10},
	}
}

// DefaultTitleModel returns the title model used when none is configured.
func DefaultTitleModel() TitleModel {
	return TitleModel{
		Font: FontSettings{
			Size:   24,
			Family: "Arial, Helvetica, sans-serif",
			Weight: "normal",
		},
		Margin: Spacing{Top: 10, Bottom: 2, Left: 10, Right: 0},
	}
}

// DiagramOptions configures hierarchy building and layout for one diagram.
//
// LabelHierarchy[i] is level i; the last entry is the leaf level.
// HierarchyRelMod[i] overrides the relationship direction for edges leaving
// entities at level i.
type DiagramOptions struct {
	Name            string            `json:"name" toml:"name"`
	Description     string            `json:"description,omitempty" toml:"description"`
	DiagramType     DiagramType       `json:"diagramType,omitempty" toml:"type"`
	LabelHierarchy  []string          `json:"labelHierarchy" toml:"label_hierarchy"`
	HierarchyRelMod []Direction       `json:"hierarchyRelMod,omitempty" toml:"hierarchy_rel_mod"`
	VisibleLabels   []string          `json:"visibleLabels,omitempty" toml:"visible_labels"`
	DisplayEmpty    bool              `json:"displayEmpty" toml:"display_empty"`
	RootAtLabel     string            `json:"rootAtLabel,omitempty" toml:"root_at_label"`
	ColumnsPerLabel map[string]int    `json:"columnsPerLabel,omitempty" toml:"columns_per_label"`
	LabelColors     map[string]string `json:"labelColors,omitempty" toml:"label_colors"`
	BoxModel        *BoxModel         `json:"boxModel,omitempty" toml:"box_model"`
	TitleModel      *TitleModel       `json:"titleModel,omitempty" toml:"title_model"`
}

// LeafLabel returns the last label of the hierarchy, or "" when it is empty.
func (o DiagramOptions) LeafLabel() string {
	if len(o.LabelHierarchy) == 0 {
		return ""
	}
	return o.LabelHierarchy[len(o.LabelHierarchy)-1]
}

// Level returns the 1-based position of label in the hierarchy, or 0.
func (o DiagramOptions) Level(label string) int {
	return slices.Index(o.LabelHierarchy, label) + 1
}

// Columns returns the configured column count for label, defaulting to 1.
func (o DiagramOptions) Columns(label string) int {
	if n := o.ColumnsPerLabel[label]; n > 0 {
		return n
	}
	return 1
}

// RelMod returns the direction override for entities at the given 1-based
// level. Level 0 and missing overrides resolve to Forward.
func (o DiagramOptions) RelMod(level int) Direction {
	if level <= 0 || level > len(o.HierarchyRelMod) {
		return Forward
	}
	if d := o.HierarchyRelMod[level-1]; d != "" {
		return d
	}
	return Forward
}

// ShowEmpty reports whether branches without leaf descendants are kept.
func (o DiagramOptions) ShowEmpty() bool {
	switch o.DiagramType {
	case DiagramSunburst, DiagramGraph:
		return true
	}
	return o.DisplayEmpty
}

// RootStart returns the label that selects roots: RootAtLabel, or the top
// of the hierarchy when RootAtLabel is unset or the "root" sentinel.
func (o DiagramOptions) RootStart() string {
	if o.RootAtLabel == "" || o.RootAtLabel == RootLabel {
		if len(o.LabelHierarchy) == 0 {
			return ""
		}
		return o.LabelHierarchy[0]
	}
	return o.RootAtLabel
}

// WrapsRoot reports whether roots are wrapped in the synthetic root node.
func (o DiagramOptions) WrapsRoot() bool { return o.RootAtLabel == RootLabel }

// Box returns the configured box model or the default.
func (o DiagramOptions) Box() BoxModel {
	if o.BoxModel != nil {
		return *o.BoxModel
	}
	return DefaultBoxModel()
}

// Title returns the configured title model or the default.
func (o DiagramOptions) Title() TitleModel {
	if o.TitleModel != nil {
		return *o.TitleModel
	}
	return DefaultTitleModel()
}

// Visible reports whether entities of label take part in the diagram.
func (o DiagramOptions) Visible(label string) bool {
	return len(o.VisibleLabels) == 0 || slices.Contains(o.VisibleLabels, label)
}
