package transcript_test

import (
	"testing"

	"autosrt/internal/srt"
	"autosrt/internal/transcript"
)

func decode(t *testing.T, document string) transcript.Payload {
	t.Helper()
	raw, err := transcript.DecodeJSON([]byte(document))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	return transcript.Decode(raw)
}

func assertCues(t *testing.T, got, want []srt.Cue) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d cues, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cue %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestDecodeClassifiesShapes(t *testing.T) {
	if shape := transcript.Shape(decode(t, `{"result":{}}`)); shape != "service" {
		t.Fatalf("expected service shape, got %q", shape)
	}
	if shape := transcript.Shape(decode(t, `{"result":null}`)); shape != "service" {
		t.Fatalf("expected service shape for null result, got %q", shape)
	}
	if shape := transcript.Shape(decode(t, `{"segments":[]}`)); shape != "fixture" {
		t.Fatalf("expected fixture shape, got %q", shape)
	}
	if shape := transcript.Shape(decode(t, `{}`)); shape != "fixture" {
		t.Fatalf("expected fixture shape for empty object, got %q", shape)
	}
}

func TestDecodeJSONRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{`[]`, `null`, `"x"`, `{`} {
		if _, err := transcript.DecodeJSON([]byte(doc)); err == nil {
			t.Fatalf("expected error for %s", doc)
		}
	}
}

func TestNormalizeFixtureScenario(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"segments":[{"start":0.0,"end":2.0,"text":"A"},{"start":2.0,"end":5.0,"text":"B"}]}`))
	assertCues(t, cues, []srt.Cue{
		{Index: 1, StartMS: 0, EndMS: 2000, Text: "A"},
		{Index: 2, StartMS: 2000, EndMS: 5000, Text: "B"},
	})
	want := "1\n00:00:00,000 --> 00:00:02,000\nA\n\n2\n00:00:02,000 --> 00:00:05,000\nB\n\n"
	if got := srt.Render(cues); got != want {
		t.Fatalf("rendered mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestNormalizeServiceSingleChannel(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":0,"end_time":1500,"text":"X","additions":{"channel_id":"1"}}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 0, EndMS: 1500, Text: "X"}})
}

func TestNormalizeServiceChannelExclusion(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":0,"end_time":1500,"text":"X","additions":{"channel_id":"2"}}]}}`))
	if len(cues) != 0 {
		t.Fatalf("expected zero cues, got %+v", cues)
	}
	if out := srt.Render(cues); out != "" {
		t.Fatalf("expected zero-block output, got %q", out)
	}
}

func TestNormalizeServiceKeyPriority(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{
		"sentences":[{"start_time":0,"end_time":100,"text":"sentence"}],
		"utterances":[{"start_time":5,"end_time":50,"text":"utterance"}],
		"segments":[{"start_time":1,"end_time":2,"text":"segment"}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 5, EndMS: 50, Text: "utterance"}})
}

func TestNormalizeServiceFallsBackPastEmptyLists(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[],"sentences":[],"segments":[{"start":10,"end":20,"text":"s"}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 10, EndMS: 20, Text: "s"}})

	list, key := transcript.ServiceResponse{Result: map[string]any{"sentences": []any{map[string]any{}}}}.SegmentList()
	if key != "sentences" || len(list) != 1 {
		t.Fatalf("expected sentences list, got %q %v", key, list)
	}
}

func TestNormalizeServiceWithoutSegmentsIsEmpty(t *testing.T) {
	for _, doc := range []string{`{"result":{}}`, `{"result":null}`, `{"result":"oops"}`, `{"result":{"utterances":"nope"}}`} {
		if cues := transcript.Normalize(decode(t, doc)); len(cues) != 0 {
			t.Fatalf("expected no cues for %s, got %+v", doc, cues)
		}
	}
}

func TestNormalizeFieldAliases(t *testing.T) {
	long := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":1500,"end_time":3200,"text":"a"}]}}`))
	short := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start":1500,"end":3200,"text":"a"}]}}`))
	assertCues(t, short, long)
	assertCues(t, long, []srt.Cue{{Index: 1, StartMS: 1500, EndMS: 3200, Text: "a"}})
}

func TestNormalizePrefersStartTimeOverStart(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":100,"start":900,"end":300,"text":"a"}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 100, EndMS: 300, Text: "a"}})
}

func TestNormalizeStringTimes(t *testing.T) {
	fromStrings := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":"1500","end_time":"3200","text":"a"}]}}`))
	fromNumbers := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":1500,"end_time":3200,"text":"a"}]}}`))
	assertCues(t, fromStrings, fromNumbers)
}

func TestNormalizeTruncatesFractionalMillis(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":"1500.9","end_time":3200.7,"text":"a"}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 1500, EndMS: 3200, Text: "a"}})
}

func TestNormalizeMissingFieldsDefault(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 0, EndMS: 0, Text: ""}})
}

func TestNormalizeClampsNegativeTimes(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":-40,"end_time":-1,"text":"a"}]},"x":1}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 0, EndMS: 0, Text: "a"}})

	fixture := transcript.Normalize(decode(t, `{"segments":[{"start":-0.5,"end":1,"text":"b"}]}`))
	assertCues(t, fixture, []srt.Cue{{Index: 1, StartMS: 0, EndMS: 1000, Text: "b"}})
}

func TestNormalizePassesThroughReversedRanges(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[{"start_time":5000,"end_time":1000,"text":""}]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 5000, EndMS: 1000, Text: ""}})
}

func TestNormalizeMixedChannelsKeepsContiguousIndices(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[
		{"start_time":0,"end_time":10,"text":"a","additions":{"channel_id":"1"}},
		{"start_time":10,"end_time":20,"text":"b","additions":{"channel_id":"2"}},
		{"start_time":20,"end_time":30,"text":"c"},
		{"start_time":30,"end_time":40,"text":"d","additions":{}},
		{"start_time":40,"end_time":50,"text":"e","additions":{"channel_id":"3"}},
		{"start_time":50,"end_time":60,"text":"f","additions":{"channel_id":1}}
	]}}`))
	assertCues(t, cues, []srt.Cue{
		{Index: 1, StartMS: 0, EndMS: 10, Text: "a"},
		{Index: 2, StartMS: 20, EndMS: 30, Text: "c"},
		{Index: 3, StartMS: 30, EndMS: 40, Text: "d"},
		{Index: 4, StartMS: 50, EndMS: 60, Text: "f"},
	})
}

func TestNormalizeTreatsNumericChannelOneAsSelected(t *testing.T) {
	cues := transcript.NormalizeRaw(map[string]any{
		"result": map[string]any{
			"utterances": []any{
				map[string]any{"start_time": 0.0, "end_time": 10.0, "text": "float one", "additions": map[string]any{"channel_id": 1.0}},
				map[string]any{"start_time": 10.0, "end_time": 20.0, "text": "float two", "additions": map[string]any{"channel_id": 2.0}},
				map[string]any{"start_time": 20.0, "end_time": 30.0, "text": "fraction", "additions": map[string]any{"channel_id": 1.5}},
			},
		},
	})
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 0, EndMS: 10, Text: "float one"}})
}

func TestNormalizePreservesInputOrder(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":[
		{"start_time":9000,"end_time":9500,"text":"late"},
		{"start_time":0,"end_time":500,"text":"early"}
	]}}`))
	if cues[0].Text != "late" || cues[1].Text != "early" {
		t.Fatalf("expected input order to be preserved, got %+v", cues)
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("expected index %d, got %d", i+1, cue.Index)
		}
	}
}

func TestNormalizeSkipsNonObjectSegments(t *testing.T) {
	cues := transcript.Normalize(decode(t, `{"result":{"utterances":["junk",{"start_time":1,"end_time":2,"text":"ok"},7]}}`))
	assertCues(t, cues, []srt.Cue{{Index: 1, StartMS: 1, EndMS: 2, Text: "ok"}})
}

func TestNormalizeRawAndMockPayload(t *testing.T) {
	cues := transcript.NormalizeRaw(transcript.MockPayload())
	if len(cues) != 3 {
		t.Fatalf("expected 3 mock cues, got %d", len(cues))
	}
	if cues[2].StartMS != 5000 || cues[2].EndMS != 8000 {
		t.Fatalf("unexpected last mock cue: %+v", cues[2])
	}
	// The mock payload must be a fresh copy on every call.
	first := transcript.MockPayload()
	first["segments"] = nil
	if len(transcript.NormalizeRaw(transcript.MockPayload())) != 3 {
		t.Fatal("mock payload was mutated across calls")
	}
}

func TestNormalizeUnknownPayload(t *testing.T) {
	if cues := transcript.Normalize(nil); cues != nil {
		t.Fatalf("expected nil for nil payload, got %+v", cues)
	}
}
