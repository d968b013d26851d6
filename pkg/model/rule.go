package model

// Operator names a rule predicate.
type Operator string

const (
	OpEquals        Operator = "equals"
	OpContains      Operator = "contains"
	OpStartsWith    Operator = "startsWith"
	OpEndsWith      Operator = "endsWith"
	OpGreaterThan   Operator = "greaterThan"
	OpLessThan      Operator = "lessThan"
	OpBetween       Operator = "between"
	OpNotEquals     Operator = "notEquals"
	OpNotContains   Operator = "notContains"
	OpNotStartsWith Operator = "notStartsWith"
	OpNotEndsWith   Operator = "notEndsWith"
)

// ColorSetting is an optional color.
type ColorSetting struct {
	IsSet bool   `json:"isSet" toml:"is_set"`
	Color string `json:"color,omitempty" toml:"color"`
}

// Styling holds the declarations a matching rule contributes.
type Styling struct {
	BackgroundColor ColorSetting `json:"backgroundColor" toml:"background_color"`
	Color           ColorSetting `json:"color" toml:"color"`
	BorderColor     ColorSetting `json:"borderColor" toml:"border_color"`
	FontWeight      string       `json:"fontWeight,omitempty" toml:"font_weight"`         // normal, bold
	FontStyle       string       `json:"fontStyle,omitempty" toml:"font_style"`           // normal, italic
	TextDecoration  string       `json:"textDecoration,omitempty" toml:"text_decoration"` // none, underline, line-through
	Content         string       `json:"content,omitempty" toml:"content"`
}

// Rule is a conditional-formatting rule: a predicate over one node field
// paired with a style. Rules labeled "default" match every node.
type Rule struct {
	ID          string   `json:"id" toml:"id"`
	Name        string   `json:"name,omitempty" toml:"name"`
	Label       string   `json:"label" toml:"label"`
	MetadataKey string   `json:"metadataKey" toml:"metadata_key"`
	Operator    Operator `json:"operator" toml:"operator"`
	Value       string   `json:"value" toml:"value"`
	IsEnabled   bool     `json:"isEnabled" toml:"enabled"`
	Styling     Styling  `json:"styling" toml:"styling"`
}

// IsDefault reports whether r applies to every node.
func (r Rule) IsDefault() bool { return r.Label == DefaultLabel }
