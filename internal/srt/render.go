package srt

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Render serializes cues in the order given. It performs no validation of
// ordering, overlap, or index contiguity.
func Render(cues []Cue) string {
	var b strings.Builder
	b.Grow(len(cues) * 64)
	for _, cue := range cues {
		writeCue(&b, cue)
	}
	return b.String()
}

// Write streams the rendered cues to w.
func Write(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for _, cue := range cues {
		writeCue(bw, cue)
	}
	return bw.Flush()
}

type stringWriter interface {
	WriteString(string) (int, error)
}

func writeCue(w stringWriter, cue Cue) {
	_, _ = w.WriteString(strconv.Itoa(cue.Index))
	_, _ = w.WriteString("\n")
	_, _ = w.WriteString(FormatTimestamp(cue.StartMS))
	_, _ = w.WriteString(" --> ")
	_, _ = w.WriteString(FormatTimestamp(cue.EndMS))
	_, _ = w.WriteString("\n")
	_, _ = w.WriteString(cue.Text)
	_, _ = w.WriteString("\n\n")
}
