package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"autosrt/internal/fileutil"
	"autosrt/internal/srt"
	"autosrt/internal/textutil"
	"autosrt/internal/transcript"
)

func newRenderCommand(_ *commandContext) *cobra.Command {
	var (
		output string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "render <payload.json>",
		Short: "Convert a saved transcription payload to SRT",
		Long: "Render reads a transcription payload saved with --save-payload (or any JSON in the\n" +
			"service response or utterance-list shape) and writes the matching SRT file.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			data, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
			raw, err := transcript.DecodeJSON(data)
			if err != nil {
				return fmt.Errorf("decode payload %s: %w", source, err)
			}
			cues := transcript.NormalizeRaw(raw)

			if stdout {
				return srt.Write(cmd.OutOrStdout(), cues)
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = textutil.ReplaceExt(source, ".srt")
			}
			if filepath.Clean(target) == filepath.Clean(source) {
				return fmt.Errorf("output path %s would overwrite the payload", target)
			}
			if err := fileutil.WriteFileAtomic(target, []byte(srt.Render(cues)), 0o644); err != nil {
				return fmt.Errorf("write subtitle: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cue(s) to %s\n", len(cues), target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Subtitle path (default: payload path with .srt extension)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the subtitle instead of writing a file")
	return cmd
}
