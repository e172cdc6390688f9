package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"autosrt/internal/pipeline"
	"autosrt/internal/services/volcengine"
	"autosrt/internal/srt"
)

var numberPrinter = message.NewPrinter(language.English)

func printRunSummary(out io.Writer, result pipeline.Result, colorize bool) {
	title := "Subtitle generated"
	if result.Mock {
		title += " (mock)"
	}
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Video", statusInfo, result.VideoPath, colorize))
	if result.AudioPath != "" {
		audio := result.AudioPath
		if result.AudioBytes > 0 {
			audio = fmt.Sprintf("%s (%s)", audio, humanize.IBytes(uint64(result.AudioBytes)))
		}
		fmt.Fprintln(out, renderStatusLine("Audio", statusInfo, audio, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Subtitle", statusOK, result.OutputPath, colorize))
	cueKind := statusOK
	if result.CueCount == 0 || result.ZeroLengthCues > 0 {
		cueKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Cues", cueKind, cueSummary(result), colorize))
	if result.TaskID != "" {
		fmt.Fprintln(out, renderStatusLine("Task", statusInfo, fmt.Sprintf("%s (%d polls)", result.TaskID, result.PollAttempts), colorize))
	}
	if result.PayloadPath != "" {
		fmt.Fprintln(out, renderStatusLine("Payload", statusInfo, result.PayloadPath, colorize))
	}
	if result.Published != nil {
		target := result.Published.Bucket + "/" + result.Published.Key
		if result.Published.URL != "" {
			target = result.Published.URL
		}
		fmt.Fprintln(out, renderStatusLine("Published", statusOK, target, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, result.Elapsed().Round(time.Millisecond).String(), colorize))
	fmt.Fprintln(out)
	printTokenUsage(out, result.Usage)
}

func cueSummary(result pipeline.Result) string {
	if result.CueCount == 0 {
		return "0 (no segments matched; see logs)"
	}
	summary := fmt.Sprintf("%d spanning %s --> %s",
		result.CueCount,
		srt.FormatTimestamp(result.FirstCueMS),
		srt.FormatTimestamp(result.LastCueMS),
	)
	if result.ZeroLengthCues > 0 {
		summary += fmt.Sprintf(" (%d with zero or reversed timing)", result.ZeroLengthCues)
	}
	return summary
}

func printTokenUsage(out io.Writer, usage volcengine.TokenUsage) {
	rows := [][]string{
		{"Input", numberPrinter.Sprintf("%d", usage.InputTokens)},
		{"Output", numberPrinter.Sprintf("%d", usage.OutputTokens)},
		{"Total", numberPrinter.Sprintf("%d", usage.TotalTokens)},
	}
	fmt.Fprintln(out, renderTable([]string{"Tokens", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
}
