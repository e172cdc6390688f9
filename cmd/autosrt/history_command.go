package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autosrt/internal/history"
)

var statusTitle = cases.Title(language.English)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		statusArgs []string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			store, err := ctx.openHistory(runCtx)
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
				return nil
			}
			defer store.Close()

			statuses, err := parseStatuses(statusArgs)
			if err != nil {
				return err
			}
			runs, err := store.List(runCtx, limit, statuses...)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, historyJSON(runs))
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs, time.Now()))

			summary, err := store.Summary(runCtx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, summaryLine(summary))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum runs to show")
	cmd.Flags().StringSliceVar(&statusArgs, "status", nil, "Only show runs with these statuses (succeeded, failed, rejected, canceled)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			store, err := ctx.openHistory(runCtx)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("run history is disabled (history.enabled = false)")
			}
			defer store.Close()

			run, err := store.GetByRunID(runCtx, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			if jsonOutput {
				return writeJSON(cmd, historyJSON([]*history.Run{run})[0])
			}
			printRunDetail(cmd.OutOrStdout(), run, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run as JSON")
	return cmd
}

func printRunDetail(out io.Writer, run *history.Run, colorize bool) {
	for _, line := range renderSectionHeader("Run "+run.RunID, colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusOK
	if run.Status != history.StatusSucceeded {
		kind = statusError
	}
	status := statusTitle.String(string(run.Status))
	if run.Stage != "" {
		status += " at " + run.Stage
	}
	fmt.Fprintln(out, renderStatusLine("Status", kind, status, colorize))
	if run.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, run.ErrorMessage, colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Video", statusInfo, run.VideoPath, colorize))
	if run.AudioPath != "" {
		fmt.Fprintln(out, renderStatusLine("Audio", statusInfo, run.AudioPath, colorize))
	}
	if run.OutputPath != "" {
		fmt.Fprintln(out, renderStatusLine("Subtitle", statusInfo, run.OutputPath, colorize))
	}
	if run.TaskID != "" || run.LogID != "" {
		fmt.Fprintln(out, renderStatusLine("Task", statusInfo, fmt.Sprintf("%s (log id %s)", run.TaskID, run.LogID), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Mock", statusInfo, yesNo(run.Mock), colorize))
	fmt.Fprintln(out, renderStatusLine("Cues", statusInfo, fmt.Sprintf("%d", run.CueCount), colorize))
	fmt.Fprintln(out, renderStatusLine("Tokens", statusInfo, numberPrinter.Sprintf("%d in / %d out / %d total", run.InputTokens, run.OutputTokens, run.TotalTokens), colorize))
	fmt.Fprintln(out, renderStatusLine("Finished", statusInfo, run.FinishedAt.Local().Format(time.DateTime), colorize))
	fmt.Fprintln(out, renderStatusLine("Took", statusInfo, run.Duration().Round(time.Millisecond).String(), colorize))
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			store, err := ctx.openHistory(runCtx)
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
				return nil
			}
			defer store.Close()

			var removed int64
			if olderThan > 0 {
				removed, err = store.Prune(runCtx, time.Now().Add(-olderThan))
			} else {
				removed, err = store.Clear(runCtx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only delete runs that finished before this age (e.g. 720h)")
	return cmd
}

func parseStatuses(values []string) ([]history.Status, error) {
	statuses := make([]history.Status, 0, len(values))
	for _, value := range values {
		status, ok := history.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func renderHistoryTable(runs []*history.Run, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		video := run.VideoPath
		if run.Mock {
			video += " (mock)"
		}
		outcome := statusTitle.String(string(run.Status))
		if run.Stage != "" {
			outcome += " @ " + run.Stage
		}
		rows = append(rows, []string{
			humanize.RelTime(run.FinishedAt, now, "ago", "from now"),
			outcome,
			video,
			fmt.Sprintf("%d", run.CueCount),
			numberPrinter.Sprintf("%d", run.TotalTokens),
			run.Duration().Round(time.Second).String(),
		})
	}
	return renderTable(
		[]string{"Finished", "Status", "Video", "Cues", "Tokens", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

func summaryLine(summary history.Summary) string {
	parts := make([]string, 0, len(summary.ByStatus))
	for _, status := range history.AllStatuses() {
		if count := summary.ByStatus[status]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, status))
		}
	}
	return numberPrinter.Sprintf("%d runs (%s), %d tokens total", summary.Total, strings.Join(parts, ", "), summary.TotalTokens)
}

type historyRunJSON struct {
	RunID        string    `json:"run_id"`
	VideoPath    string    `json:"video_path"`
	AudioPath    string    `json:"audio_path,omitempty"`
	OutputPath   string    `json:"output_path,omitempty"`
	Status       string    `json:"status"`
	Stage        string    `json:"failed_stage,omitempty"`
	Error        string    `json:"error,omitempty"`
	TaskID       string    `json:"task_id,omitempty"`
	LogID        string    `json:"log_id,omitempty"`
	Mock         bool      `json:"mock"`
	CueCount     int       `json:"cue_count"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	TotalTokens  int64     `json:"total_tokens"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

func historyJSON(runs []*history.Run) []historyRunJSON {
	out := make([]historyRunJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, historyRunJSON{
			RunID:        run.RunID,
			VideoPath:    run.VideoPath,
			AudioPath:    run.AudioPath,
			OutputPath:   run.OutputPath,
			Status:       string(run.Status),
			Stage:        run.Stage,
			Error:        run.ErrorMessage,
			TaskID:       run.TaskID,
			LogID:        run.LogID,
			Mock:         run.Mock,
			CueCount:     run.CueCount,
			InputTokens:  run.InputTokens,
			OutputTokens: run.OutputTokens,
			TotalTokens:  run.TotalTokens,
			StartedAt:    run.StartedAt,
			FinishedAt:   run.FinishedAt,
		})
	}
	return out
}
