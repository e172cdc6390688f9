package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"autosrt/internal/config"
	"autosrt/internal/history"
	"autosrt/internal/pipeline"
	"autosrt/internal/publish"
)

type generateOptions struct {
	output      string
	audio       string
	format      string
	mock        bool
	keepAudio   bool
	maxPolls    int
	jsonOutput  bool
	publish     bool
	savePayload string
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <video>",
		Short: "Generate an SRT subtitle for a video",
		Example: "  autosrt generate movie.mp4\n" +
			"  autosrt generate movie.mp4 -o subs/movie.srt --format wav\n" +
			"  autosrt generate movie.mp4 --mock",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, opts, args[0])
		},
	}
	bindGenerateFlags(cmd, opts)
	return cmd
}

func bindGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Subtitle path (default: video path with .srt extension)")
	flags.StringVar(&opts.audio, "audio", "", "Intermediate audio path; the extension selects mp3 or wav and the file is kept")
	flags.StringVar(&opts.format, "format", "", "Audio format sent to the service: mp3 or wav (default from config)")
	flags.BoolVarP(&opts.mock, "mock", "m", false, "Use the built-in fixture instead of ffmpeg and the transcription service")
	flags.BoolVar(&opts.keepAudio, "keep-audio", false, "Keep the intermediate audio file")
	flags.IntVar(&opts.maxPolls, "max-polls", -1, "Maximum poll attempts before giving up (0 = until the task finishes; default from config)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the run summary as JSON")
	flags.BoolVar(&opts.publish, "publish", false, "Upload the subtitle to the configured object storage bucket")
	flags.StringVar(&opts.savePayload, "save-payload", "", "Write the raw transcription payload to this JSON file")
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts *generateOptions, video string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	if opts.maxPolls >= 0 {
		cfg.Volcengine.MaxPollAttempts = opts.maxPolls
	}

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}

	serviceOpts, cleanup, err := generateServiceOptions(runCtx, ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	service := pipeline.NewService(cfg, logger, serviceOpts...)
	result, runErr := service.Generate(runCtx, pipeline.Request{
		VideoPath:       video,
		OutputPath:      opts.output,
		AudioPath:       opts.audio,
		Format:          opts.format,
		Mock:            opts.mock,
		KeepAudio:       opts.keepAudio,
		SavePayloadPath: opts.savePayload,
		Publish:         opts.publish,
	})

	if opts.jsonOutput {
		if err := writeJSON(cmd, result); err != nil {
			return err
		}
		return runErr
	}
	if runErr != nil {
		return fmt.Errorf("%s stage failed: %w", stageLabel(result.Stage), runErr)
	}
	printRunSummary(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
	return nil
}

func generateServiceOptions(ctx context.Context, cc *commandContext, cfg *config.Config, opts *generateOptions, logger *slog.Logger) ([]pipeline.Option, func(), error) {
	var (
		serviceOpts []pipeline.Option
		store       *history.Store
	)
	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}

	store, err := cc.openHistory(ctx)
	if err != nil {
		return nil, cleanup, err
	}
	if store != nil {
		serviceOpts = append(serviceOpts, pipeline.WithRecorder(store))
	}

	if opts.publish || cfg.Publish.Enabled {
		if !cfg.Publish.Enabled {
			cleanup()
			return nil, func() {}, fmt.Errorf("--publish requires [publish] enabled = true with an endpoint and bucket in the config")
		}
		uploader, err := publish.NewUploader(cfg.Publish, logger)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		serviceOpts = append(serviceOpts, pipeline.WithPublisher(uploader))
		opts.publish = true
	}
	return serviceOpts, cleanup, nil
}

func stageLabel(stage string) string {
	if stage == "" {
		return "run"
	}
	return stage
}
