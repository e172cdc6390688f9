package transcript

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// firstPresent returns the value stored under the first key present in m.
// A key holding JSON null counts as absent.
func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := m[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// number converts a JSON scalar into a float. Strings are parsed as floats;
// anything unparseable is reported as not ok.
func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// truncateMillis truncates a float toward zero and clamps negatives and
// non-finite values to zero.
func truncateMillis(value float64) int64 {
	if math.IsNaN(value) || value <= 0 {
		return 0
	}
	if value >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(value)
}

// text renders a segment text value. Non-string scalars are formatted; absent
// or null text becomes the empty string.
func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// channelID reads additions.channel_id, defaulting to SelectedChannel.
// Numeric identifiers are compared by their integer form, so channel_id 1
// selects the same segments as "1" rather than being dropped by a strict
// string-versus-number comparison.
func channelID(segment map[string]any) string {
	additions, ok := segment["additions"].(map[string]any)
	if !ok {
		return SelectedChannel
	}
	// Deliberately lenient: a numeric 1 is kept, not treated as a foreign channel.
	switch v := additions["channel_id"].(type) {
	case nil:
		return SelectedChannel
	case string:
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return v.String()
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
