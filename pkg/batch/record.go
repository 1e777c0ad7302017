package batch

import (
	"fmt"
	"strings"
)

// 📄 Record is one recipient's data, decoded from JSON. Values may be nil.
type Record map[string]any

// fallbackName is used for filename derivation when a record has no name field
const fallbackName = "certificate"

// 🔍 DisplayName returns the record's display name for filename derivation.
// The "name" field is looked up case-insensitively; records without one fall
// back to a fixed literal.
func DisplayName(rec Record) string {
	if v, ok := rec["name"]; ok && v != nil {
		return stringify(v)
	}
	for key, v := range rec {
		if strings.EqualFold(key, "name") && v != nil {
			return stringify(v)
		}
	}
	return fallbackName
}

// 📝 NamesToRecords lifts a flat list of display names into minimal records
// (the legacy invocation shape).
func NamesToRecords(names []string) []Record {
	records := make([]Record, 0, len(names))
	for _, name := range names {
		records = append(records, Record{"name": name})
	}
	return records
}

// stringify renders a JSON-decoded value the way callers expect to see it in
// a document: strings verbatim, numbers without a trailing ".0".
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
