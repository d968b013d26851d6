// Package rules evaluates conditional-formatting rules against diagram
// nodes and renders the style declarations of the rules that match.
//
// # Matching
//
// [Match] keeps the enabled rules whose label is the node's label or
// "default", in input order. Rules labeled "default" match unconditionally.
// Every other rule reads the value named by its MetadataKey through
// [Lookup] and applies its operator:
//
//   - equals, contains, startsWith, endsWith: case-insensitive strings
//   - greaterThan, lessThan: both sides parsed as float64
//   - between: Value is "min,max", bounds inclusive
//   - notEquals, notContains, notStartsWith, notEndsWith: negations
//
// A missing key, an unparsable number, or an unknown operator never
// matches. None of these are errors.
//
// # Styling
//
// [StyleString] concatenates the declarations of the matched rules in order,
// so later rules override earlier ones under CSS cascading:
//
//	style := rules.StyleString(rules.Match(node.Entity, enabled))
//	// "background-color: #f00; fill: #f00; font-weight: bold;"
package rules
