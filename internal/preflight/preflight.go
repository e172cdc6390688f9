package preflight

import (
	"context"
	"fmt"
	"strings"

	"autosrt/internal/config"
	"autosrt/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Options selects which optional checks RunAll performs.
type Options struct {
	// Mock skips checks that only matter when talking to the live service.
	Mock bool
	// Network enables reachability probes against remote endpoints.
	Network bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckFreeSpace("Work directory space", cfg.Paths.WorkDir, uint64(cfg.Audio.MinFreeMiB)*1024*1024))

	if opts.Mock {
		return results
	}

	results = append(results, CheckFFmpeg(ctx, cfg.FFmpegBinary()))
	results = append(results, CheckCredentials(cfg))

	if opts.Network {
		results = append(results, CheckEndpoint(ctx, "Transcription service", cfg.Volcengine.SubmitURL))
		if cfg.Publish.Enabled {
			results = append(results, CheckPublish(ctx, cfg))
		}
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Err converts failed results into a precondition error, or nil when all passed.
func Err(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return services.Wrap(services.ErrPrecondition, "preflight", "", strings.Join(parts, "; "), nil)
}
