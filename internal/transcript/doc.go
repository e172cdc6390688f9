// Package transcript interprets transcription results.
//
// Results arrive in one of two shapes. Service responses nest segments under
// "result" (as utterances, sentences or segments, in that priority) with
// millisecond times that may be numbers or numeric strings, and tag each
// segment with an audio channel. Fixture payloads list segments at the top
// level with times in seconds. Decode classifies a raw payload and Normalize
// turns it into srt cues, keeping only SelectedChannel.
package transcript
