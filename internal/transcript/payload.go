package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a decoded transcription result. It is either a ServiceResponse
// or a FixturePayload.
type Payload interface {
	shape() string
}

// ServiceResponse is a result returned by the transcription service. Segment
// times are milliseconds and segments may carry a channel identifier.
type ServiceResponse struct {
	// Result holds the "result" object; nil when the key was present but not an object.
	Result map[string]any
}

func (ServiceResponse) shape() string { return "service" }

// FixturePayload is the simplified shape used for mock runs and saved test
// data: a top-level segment list with times in seconds and no channels.
type FixturePayload struct {
	Segments []any
}

func (FixturePayload) shape() string { return "fixture" }

// Shape names the variant of p ("service" or "fixture").
func Shape(p Payload) string {
	if p == nil {
		return ""
	}
	return p.shape()
}

// Decode classifies a raw payload. Any payload carrying a "result" key is a
// service response; everything else is treated as a fixture.
func Decode(raw map[string]any) Payload {
	if value, ok := raw["result"]; ok {
		result, _ := value.(map[string]any)
		return ServiceResponse{Result: result}
	}
	segments, _ := raw["segments"].([]any)
	return FixturePayload{Segments: segments}
}

// DecodeJSON parses a JSON document into a raw payload. The document must be
// a JSON object.
func DecodeJSON(data []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transcription payload: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode transcription payload: expected a JSON object")
	}
	return raw, nil
}
