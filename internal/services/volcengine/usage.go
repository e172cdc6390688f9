package volcengine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// TokenUsage is the informational token accounting attached to a result.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// MockUsage is reported by mock runs that never contact the service.
var MockUsage = TokenUsage{InputTokens: 150, OutputTokens: 100, TotalTokens: 250}

// usageKeys lists the top-level fields probed for usage, in priority order.
// "result" only counts when it is an object.
var usageKeys = []string{"usage", "metadata", "stats"}

// ExtractUsage reads token counts from the first present usage field.
// Missing or malformed counts are zero.
func ExtractUsage(payload map[string]any) TokenUsage {
	for _, key := range usageKeys {
		if value, ok := payload[key]; ok {
			section, _ := value.(map[string]any)
			return usageFrom(section)
		}
	}
	if section, ok := payload["result"].(map[string]any); ok {
		return usageFrom(section)
	}
	return TokenUsage{}
}

func usageFrom(section map[string]any) TokenUsage {
	return TokenUsage{
		InputTokens:  count(section["input_tokens"]),
		OutputTokens: count(section["output_tokens"]),
		TotalTokens:  count(section["total_tokens"]),
	}
}

func count(value any) int64 {
	var f float64
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			if i < 0 {
				return 0
			}
			return i
		}
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
