package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"autosrt/internal/logging"
	"autosrt/internal/services"
)

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
}

// Extractor demuxes and transcodes audio with ffmpeg.
type Extractor struct {
	binary string
	run    CommandRunner
	logger *slog.Logger
}

// NewExtractor builds an extractor that runs the given ffmpeg binary.
func NewExtractor(binary string, logger *slog.Logger) *Extractor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Extractor{
		binary: binary,
		run:    execRunner,
		logger: logging.NewComponentLogger(logger, "audio"),
	}
}

// WithCommandRunner swaps the command runner (used by tests).
func (e *Extractor) WithCommandRunner(run CommandRunner) *Extractor {
	if run != nil {
		e.run = run
	}
	return e
}

// Formats lists the supported destination extensions.
func Formats() []string {
	return []string{"mp3", "wav"}
}

// FormatOf returns the audio format tag for dest based on its extension.
func FormatOf(dest string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(dest), "."))
	switch ext {
	case "mp3", "wav":
		return ext, nil
	case "":
		return "", fmt.Errorf("audio destination %q has no extension", dest)
	default:
		return "", fmt.Errorf("unsupported audio format %q (want mp3 or wav)", ext)
	}
}

// Args returns the ffmpeg arguments used to extract source into dest.
// The encoder follows the destination extension; output is always mono and
// an existing destination is overwritten.
func Args(source, dest string) ([]string, error) {
	format, err := FormatOf(dest)
	if err != nil {
		return nil, err
	}
	args := []string{"-hide_banner", "-loglevel", "error", "-i", source, "-vn"}
	switch format {
	case "mp3":
		args = append(args, "-acodec", "libmp3lame", "-q:a", "2")
	case "wav":
		args = append(args, "-acodec", "pcm_s16le", "-ar", "16000")
	}
	args = append(args, "-ac", "1", "-y", dest)
	return args, nil
}

// Extract writes the audio track of source to dest. On failure any partial
// destination file is removed.
func (e *Extractor) Extract(ctx context.Context, source, dest string) error {
	args, err := Args(source, dest)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "extract", "audio format", "", err)
	}
	if info, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrExtraction, "extract", "source", "", err)
	} else if info.IsDir() {
		return services.Wrap(services.ErrExtraction, "extract", "source", fmt.Sprintf("%s is a directory", source), nil)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrExtraction, "extract", "destination", "", err)
	}

	logging.WithContext(ctx, e.logger).Info("extracting audio",
		logging.String("source", source),
		logging.String("destination", dest),
	)
	output, err := e.run(ctx, e.binary, args...)
	if err != nil {
		_ = os.Remove(dest)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg extract: %w", ctxErr)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return services.Wrap(services.ErrExtraction, "extract", "ffmpeg", "ffmpeg is not installed or not executable", err)
		}
		return services.Wrap(services.ErrExtraction, "extract", "ffmpeg", strings.TrimSpace(string(output)), err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return services.Wrap(services.ErrExtraction, "extract", "ffmpeg", "no output file produced", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(dest)
		return services.Wrap(services.ErrExtraction, "extract", "ffmpeg", "output file is empty (does the source have an audio track?)", nil)
	}
	return nil
}
