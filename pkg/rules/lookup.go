package rules

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/nestview/pkg/model"
)

// Attribute keys that resolve to entity fields before metadata.
const (
	KeyID    = "id"
	KeyName  = "name"
	KeyLabel = "label"
)

// Lookup returns the value a rule with the given metadata key compares
// against. The entity's own attributes take priority in the order id, name,
// label; any other key reads Metadata. Layout fields of a placed node
// (value, width, height, x, y) are not entity attributes and so are never
// consulted: a "width" key reads Metadata["width"]. Scalars are converted
// to their canonical string form. ok is false when the key is absent or nil.
func Lookup(e model.Entity, key string) (value string, ok bool) {
	switch key {
	case KeyID:
		return e.ID, true
	case KeyName:
		return e.Name, true
	case KeyLabel:
		return e.Label, true
	}

	v, ok := e.Metadata[key]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
