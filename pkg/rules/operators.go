package rules

import (
	"strconv"
	"strings"

	"github.com/matzehuels/nestview/pkg/model"
)

// predicate compares a looked-up value with a rule's Value.
type predicate func(actual, expected string) bool

var predicates = map[model.Operator]predicate{
	model.OpEquals:        strings.EqualFold,
	model.OpContains:      foldContains,
	model.OpStartsWith:    foldHasPrefix,
	model.OpEndsWith:      foldHasSuffix,
	model.OpGreaterThan:   greaterThan,
	model.OpLessThan:      lessThan,
	model.OpBetween:       between,
	model.OpNotEquals:     not(strings.EqualFold),
	model.OpNotContains:   not(foldContains),
	model.OpNotStartsWith: not(foldHasPrefix),
	model.OpNotEndsWith:   not(foldHasSuffix),
}

// Supported reports whether op is a known operator.
func Supported(op model.Operator) bool {
	_, ok := predicates[op]
	return ok
}

func not(p predicate) predicate {
	return func(actual, expected string) bool { return !p(actual, expected) }
}

func foldContains(actual, expected string) bool {
	return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
}

func foldHasPrefix(actual, expected string) bool {
	return strings.HasPrefix(strings.ToLower(actual), strings.ToLower(expected))
}

func foldHasSuffix(actual, expected string) bool {
	return strings.HasSuffix(strings.ToLower(actual), strings.ToLower(expected))
}

func greaterThan(actual, expected string) bool {
	a, b, ok := parsePair(actual, expected)
	return ok && a > b
}

func lessThan(actual, expected string) bool {
	a, b, ok := parsePair(actual, expected)
	return ok && a < b
}

// between reads expected as "min,max" and tests min <= actual <= max.
func between(actual, expected string) bool {
	lo, hi, found := strings.Cut(expected, ",")
	if !found {
		return false
	}
	x, ok := parseNumber(actual)
	if !ok {
		return false
	}
	minV, okLo := parseNumber(lo)
	maxV, okHi := parseNumber(hi)
	if !okLo || !okHi {
		return false
	}
	return minV <= x && x <= maxV
}

func parsePair(a, b string) (float64, float64, bool) {
	x, okA := parseNumber(a)
	y, okB := parseNumber(b)
	return x, y, okA && okB
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
