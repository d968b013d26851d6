package rules

import (
	"strings"

	"github.com/matzehuels/nestview/pkg/model"
)

// Match returns the rules that apply to e, preserving input order.
func Match(e model.Entity, rules []model.Rule) []model.Rule {
	var out []model.Rule
	for _, r := range rules {
		if matches(e, r) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate matches rules against e and renders the resulting style.
func Evaluate(e model.Entity, rules []model.Rule) ([]model.Rule, string) {
	matched := Match(e, rules)
	return matched, StyleString(matched)
}

func matches(e model.Entity, r model.Rule) bool {
	if !r.IsEnabled {
		return false
	}
	if r.IsDefault() {
		return true
	}
	if r.Label != e.Label {
		return false
	}
	p, ok := predicates[r.Operator]
	if !ok {
		return false
	}
	actual, ok := Lookup(e, r.MetadataKey)
	if !ok {
		return false
	}
	return p(actual, r.Value)
}

// StyleString renders the styling of rules as CSS declarations. Colors are
// emitted for both HTML boxes and SVG shapes (background-color with fill,
// border-color with stroke).
func StyleString(rules []model.Rule) string {
	var b strings.Builder
	for _, r := range rules {
		s := r.Styling
		if s.BackgroundColor.IsSet {
			declare(&b, "background-color", s.BackgroundColor.Color)
			declare(&b, "fill", s.BackgroundColor.Color)
		}
		if s.Color.IsSet {
			declare(&b, "color", s.Color.Color)
		}
		if s.BorderColor.IsSet {
			declare(&b, "border-color", s.BorderColor.Color)
			declare(&b, "stroke", s.BorderColor.Color)
		}
		if s.FontWeight != "" {
			declare(&b, "font-weight", s.FontWeight)
		}
		if s.FontStyle != "" {
			declare(&b, "font-style", s.FontStyle)
		}
		if s.TextDecoration != "" {
			declare(&b, "text-decoration", s.TextDecoration)
		}
	}
	return b.String()
}

func declare(b *strings.Builder, prop, value string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(prop)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte(';')
}
