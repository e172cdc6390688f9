package srt

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parse reads SRT text back into cues. Blocks with an unparseable timing line
// are skipped; a missing or non-numeric index is replaced by the block position.
func Parse(content string) []Cue {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var cues []Cue
	for i := 0; i < len(lines); {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[i]))
		timingLine := i + 1
		if err != nil {
			// Tolerate blocks that start directly with the timing line.
			index = len(cues) + 1
			timingLine = i
		}
		if timingLine >= len(lines) {
			break
		}
		start, end, ok := parseTiming(lines[timingLine])
		if !ok {
			i = skipBlock(lines, timingLine)
			continue
		}
		j := timingLine + 1
		var text []string
		for j < len(lines) && strings.TrimSpace(lines[j]) != "" {
			text = append(text, lines[j])
			j++
		}
		cues = append(cues, Cue{Index: index, StartMS: start, EndMS: end, Text: strings.Join(text, "\n")})
		i = j
	}
	return cues
}

// ReadFile parses the SRT file at path.
func ReadFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return Parse(string(data)), nil
}

// CountCues returns the number of cues in the SRT file at path.
func CountCues(path string) (int, error) {
	cues, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return len(cues), nil
}

// Bounds returns the earliest start and latest end across cues.
func Bounds(cues []Cue) (first, last int64) {
	if len(cues) == 0 {
		return 0, 0
	}
	first = cues[0].StartMS
	for _, cue := range cues {
		if cue.StartMS < first {
			first = cue.StartMS
		}
		if cue.EndMS > last {
			last = cue.EndMS
		}
	}
	return first, last
}

func parseTiming(line string) (int64, int64, bool) {
	startText, endText, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, false
	}
	start, err := ParseTimestamp(startText)
	if err != nil {
		return 0, 0, false
	}
	// Drop positional hints such as "X1:..." after the end time.
	endFields := strings.Fields(endText)
	if len(endFields) == 0 {
		return 0, 0, false
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

func skipBlock(lines []string, from int) int {
	for from < len(lines) && strings.TrimSpace(lines[from]) != "" {
		from++
	}
	return from
}
