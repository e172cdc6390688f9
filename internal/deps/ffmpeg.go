package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 10 * time.Second

// FFmpegRequirement describes the ffmpeg binary used for audio extraction.
func FFmpegRequirement(binary string) Requirement {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return Requirement{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Extracts the audio track from video files",
	}
}

// ProbeFFmpeg runs "<binary> -version" and reports whether ffmpeg is usable.
// Detail carries the version banner on success and the failure otherwise.
func ProbeFFmpeg(ctx context.Context, binary string) Status {
	req := FFmpegRequirement(binary)
	status := Status{Name: req.Name, Command: req.Command, Description: req.Description}

	resolved, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Command = resolved

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	output, err := exec.CommandContext(ctx, resolved, "-version").CombinedOutput() //nolint:gosec
	if err != nil {
		status.Detail = fmt.Sprintf("%s -version failed: %v", resolved, err)
		return status
	}
	status.Available = true
	status.Detail = versionLine(output)
	return status
}

func versionLine(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// "ffmpeg version 6.1.1 Copyright ..." -> "ffmpeg version 6.1.1"
		if idx := strings.Index(line, " Copyright"); idx > 0 {
			line = line[:idx]
		}
		return line
	}
	return ""
}
