package srt

// Cue is one timed subtitle block. Index is 1-based and contiguous within a
// sequence; StartMS and EndMS are milliseconds from the start of the media.
// EndMS is not guaranteed to be >= StartMS.
type Cue struct {
	Index   int
	StartMS int64
	EndMS   int64
	Text    string
}

// Duration returns the cue length in milliseconds, or 0 for reversed ranges.
func (c Cue) Duration() int64 {
	if c.EndMS <= c.StartMS {
		return 0
	}
	return c.EndMS - c.StartMS
}
