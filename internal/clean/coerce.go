package clean

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseHours strictly coerces a practice value. Only finite, nonnegative
// numbers are accepted; "NaN" and "Inf" spellings are rejected.
func ParseHours(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// CoerceLenient converts a loosely typed value to a number. Anything that
// is not numeric becomes NaN instead of being rejected.
func CoerceLenient(value any) float64 {
	switch v := value.(type) {
	case float64:
		return finiteOrNaN(v)
	case float32:
		return finiteOrNaN(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return math.NaN()
		}
		return finiteOrNaN(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return math.NaN()
		}
		return finiteOrNaN(f)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

func finiteOrNaN(v float64) float64 {
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
