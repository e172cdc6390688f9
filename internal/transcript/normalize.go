package transcript

import (
	"autosrt/internal/srt"
)

// SelectedChannel is the only channel kept from multi-channel results.
const SelectedChannel = "1"

// segmentKeys lists the result fields probed for the segment list, in priority order.
var segmentKeys = []string{"utterances", "sentences", "segments"}

// Normalize converts a payload into cues numbered 1..N in input order.
// Times are never negative; reversed ranges and empty text pass through.
func Normalize(p Payload) []srt.Cue {
	switch payload := p.(type) {
	case ServiceResponse:
		return normalizeService(payload)
	case *ServiceResponse:
		if payload == nil {
			return nil
		}
		return normalizeService(*payload)
	case FixturePayload:
		return normalizeFixture(payload)
	case *FixturePayload:
		if payload == nil {
			return nil
		}
		return normalizeFixture(*payload)
	default:
		return nil
	}
}

// NormalizeRaw decodes and normalizes a raw payload in one step.
func NormalizeRaw(raw map[string]any) []srt.Cue {
	return Normalize(Decode(raw))
}

// SegmentList returns the first non-empty segment list in the result and the
// key it was found under.
func (r ServiceResponse) SegmentList() ([]any, string) {
	for _, key := range segmentKeys {
		if list, ok := r.Result[key].([]any); ok && len(list) > 0 {
			return list, key
		}
	}
	return nil, ""
}

func normalizeService(r ServiceResponse) []srt.Cue {
	segments, _ := r.SegmentList()
	cues := make([]srt.Cue, 0, len(segments))
	for _, item := range segments {
		segment, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if channelID(segment) != SelectedChannel {
			continue
		}
		startValue, _ := firstPresent(segment, "start_time", "start")
		endValue, _ := firstPresent(segment, "end_time", "end")
		start, _ := number(startValue)
		end, _ := number(endValue)
		cues = append(cues, srt.Cue{
			Index:   len(cues) + 1,
			StartMS: truncateMillis(start),
			EndMS:   truncateMillis(end),
			Text:    text(segment["text"]),
		})
	}
	return cues
}

func normalizeFixture(f FixturePayload) []srt.Cue {
	cues := make([]srt.Cue, 0, len(f.Segments))
	for _, item := range f.Segments {
		segment, ok := item.(map[string]any)
		if !ok {
			continue
		}
		start, _ := number(segment["start"])
		end, _ := number(segment["end"])
		cues = append(cues, srt.Cue{
			Index:   len(cues) + 1,
			StartMS: truncateMillis(start * 1000),
			EndMS:   truncateMillis(end * 1000),
			Text:    text(segment["text"]),
		})
	}
	return cues
}
