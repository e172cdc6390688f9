// Package srt renders and reads SubRip subtitle files.
//
// Render and Write are pure serializers: cues come out in the order they go
// in, with HH:MM:SS,mmm timestamps computed by integer arithmetic. Parse,
// CountCues and Bounds read written files back for verification and summaries.
package srt
