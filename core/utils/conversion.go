package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString converts various types to string.
// Floats are rendered without exponent or trailing zeros, so upstream identifiers
// sent as JSON numbers keep their digits.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToOptionalString converts val to a string pointer. nil input yields nil, so an absent
// field stays distinguishable from an empty one.
func ToOptionalString(val any) *string {
	if val == nil {
		return nil
	}
	s := ToString(val)
	return &s
}
