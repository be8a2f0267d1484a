package feed

import (
	"strconv"
	"strings"
)

// FieldKeys is the ordered list of property names a logical field has been published
// under. Lookup is exact and case-sensitive; the first key holding a non-blank value wins.
type FieldKeys []string

var (
	NameKeys          = FieldKeys{"Location Name", "location name", "Location name", "LOCATION NAME"}
	PlugTypeKeys      = FieldKeys{"Plug Types", "plug types", "Plug types", "PLUG TYPES"}
	OperationTimeKeys = FieldKeys{"Operation Time", "operation time", "Operation time", "OPERATION TIME"}
	AddressKeys       = FieldKeys{"Address", "address", "ADDRESS"}
)

// Lookup returns the first present value among the keys.
func (k FieldKeys) Lookup(props map[string]interface{}) (string, bool) {
	for _, key := range k {
		raw, ok := props[key]
		if !ok {
			continue
		}
		if value, ok := propertyString(raw); ok {
			return value, true
		}
	}
	return "", false
}

// LookupOr returns the first present value among the keys, or def.
func (k FieldKeys) LookupOr(props map[string]interface{}, def string) string {
	if value, ok := k.Lookup(props); ok {
		return value
	}
	return def
}

func propertyString(raw interface{}) (string, bool) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
