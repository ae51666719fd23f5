package signature

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Params is a flat parameter map holding the scalar values the gateway signs.
// Values may be strings, integers, floats, booleans or nil.
type Params map[string]interface{}

// Boolean canonical literals fixed by the gateway wire contract.
const (
	boolTrue  = "True"
	boolFalse = "False"
)

// CanonicalString serializes params into the gateway's canonical form: keys
// in ascending codepoint order, "key=value" pairs joined with "&", values
// passed through verbatim with no escaping. Nil values and strings that trim
// to empty are omitted entirely. The result depends only on the map contents,
// never on insertion order.
func CanonicalString(params Params) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		value, ok := formatValue(params[key])
		if !ok {
			continue
		}
		pairs = append(pairs, key+"="+value)
	}

	return strings.Join(pairs, "&")
}

// formatValue renders a scalar as canonical text. The second return value is
// false when the key must be skipped.
func formatValue(v interface{}) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		trimmed := strings.TrimSpace(value)
		return trimmed, trimmed != ""
	case bool:
		if value {
			return boolTrue, true
		}
		return boolFalse, true
	case int:
		return strconv.Itoa(value), true
	case int32:
		return strconv.FormatInt(int64(value), 10), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32), true
	case float64:
		// Whole floats render without a trailing ".0", so JSON-decoded
		// numbers canonicalize the same as their integer counterparts.
		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return fmt.Sprintf("%v", value), true
	}
}
