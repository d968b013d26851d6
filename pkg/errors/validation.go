package errors

import (
	"strings"
	"unicode"
)

// maxLabelLength bounds labels accepted from user input.
const maxLabelLength = 256

// validDirections lists the relationship directions a hierarchy level may
// override with. They mirror model.Direction; this package stays free of
// model imports so every package can depend on it.
var validDirections = map[string]bool{
	"->":  true,
	"<-":  true,
	"<->": true,
}

// ValidateLabel validates a single entity label supplied by a user.
//
// The rules are intentionally conservative:
//   - No empty labels
//   - No control characters
//   - No surrounding whitespace
//   - Maximum length of 256 characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	if strings.TrimSpace(label) != label {
		return New(ErrCodeInvalidInput, "label has surrounding whitespace: %q", label)
	}

	return nil
}

// ValidateLabels validates every label in labels and rejects an empty set.
func ValidateLabels(labels []string) error {
	if len(labels) == 0 {
		return New(ErrCodeInvalidInput, "at least one label is required")
	}
	for _, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDirection validates a hierarchy direction override.
// The empty string is accepted and means "no override".
func ValidateDirection(dir string) error {
	if dir == "" || validDirections[dir] {
		return nil
	}
	return New(ErrCodeInvalidConfig, "invalid direction %q (must be one of: ->, <-, <->)", dir)
}

// ValidateDiagramOptions validates the parts of a diagram configuration that
// the hierarchy builder and layout engine depend on.
//
// Validation rules:
//   - The label hierarchy must be non-empty and contain valid labels
//   - Direction overrides must be known directions
//   - Column counts must not be negative
func ValidateDiagramOptions(labelHierarchy []string, relMod []string, columns map[string]int) error {
	if len(labelHierarchy) == 0 {
		return New(ErrCodeInvalidConfig, "label hierarchy cannot be empty")
	}
	for _, l := range labelHierarchy {
		if err := ValidateLabel(l); err != nil {
			return Wrap(ErrCodeInvalidConfig, err, "label hierarchy")
		}
	}
	for _, d := range relMod {
		if err := ValidateDirection(d); err != nil {
			return err
		}
	}
	for label, n := range columns {
		if n < 0 {
			return New(ErrCodeInvalidConfig, "columns for label %q cannot be negative", label)
		}
	}
	return nil
}
