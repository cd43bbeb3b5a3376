package graphml

import "strconv"

// attrTypeOf classifies a Go attribute value into GraphML's int/float/str
// type tags, grounded on pkg/storage/types.go's ToNeo4jExport property
// coercion (which faces the same "Go value -> typed wire value" problem
// for a different wire format).
func attrTypeOf(v interface{}) string {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return "int"
	case float32, float64:
		return "float"
	default:
		return "str"
	}
}

// formatAttr renders a Go attribute value as the GraphML data element's
// text content.
func formatAttr(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	default:
		return ""
	}
}

// parseAttr converts a GraphML data element's text content back to a Go
// value, per the key's declared attr.type. Any attr.type other than
// "int" or "float" round-trips as a plain string, per spec section 6.
func parseAttr(attrType, raw string) interface{} {
	switch attrType {
	case "int":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return raw
		}
		return n
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		return f
	default:
		return raw
	}
}
