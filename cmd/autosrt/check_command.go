package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"autosrt/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var (
		mock       bool
		network    bool
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check dependencies, credentials and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			results := preflight.RunAll(runCtx, cfg, preflight.Options{Mock: mock, Network: network})
			if cfg.History.Enabled {
				results = append(results, preflight.CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
			}

			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
				return checkError(results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("autosrt readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Audio format", statusInfo, cfg.Audio.Format, colorize))
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, historyDetail(cfg.History.Enabled, cfg.HistoryPath()), colorize))
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			return checkError(results)
		},
	}
	cmd.Flags().BoolVarP(&mock, "mock", "m", false, "Only run the checks a mock run needs")
	cmd.Flags().BoolVar(&network, "network", false, "Also probe the transcription endpoint and publish bucket")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func historyDetail(enabled bool, path string) string {
	if !enabled {
		return "disabled"
	}
	return path
}

func checkError(results []preflight.Result) error {
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d readiness check(s) failed", len(failed))
}
