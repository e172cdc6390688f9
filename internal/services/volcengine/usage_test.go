package volcengine

import (
	"testing"

	"autosrt/internal/transcript"
)

func TestExtractUsagePriority(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want TokenUsage
	}{
		{"usage wins", `{"usage":{"input_tokens":1,"output_tokens":2,"total_tokens":3},"metadata":{"total_tokens":9}}`, TokenUsage{1, 2, 3}},
		{"metadata", `{"metadata":{"input_tokens":4,"total_tokens":4}}`, TokenUsage{4, 0, 4}},
		{"stats", `{"stats":{"output_tokens":"7"},"result":{"total_tokens":99}}`, TokenUsage{0, 7, 0}},
		{"result object", `{"result":{"input_tokens":5,"output_tokens":6,"total_tokens":11,"utterances":[]}}`, TokenUsage{5, 6, 11}},
		{"result not object", `{"result":"x"}`, TokenUsage{}},
		{"usage not object", `{"usage":null,"metadata":{"total_tokens":3}}`, TokenUsage{}},
		{"nothing", `{}`, TokenUsage{}},
		{"negative and fractional", `{"usage":{"input_tokens":-3,"output_tokens":2.9}}`, TokenUsage{0, 2, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := transcript.DecodeJSON([]byte(tc.doc))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := ExtractUsage(raw); got != tc.want {
				t.Fatalf("ExtractUsage = %+v, want %+v", got, tc.want)
			}
		})
	}
}
