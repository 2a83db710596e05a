package mediastore

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DurationProber measures the playback duration of a media file in seconds
type DurationProber interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// FFProbe runs the ffprobe binary
type FFProbe struct {
	binary string
}

// NewFFProbe creates a prober calling the given ffprobe binary
func NewFFProbe(binary string) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFProbe{binary: binary}
}

// Probe returns the container duration reported by ffprobe
func (p *FFProbe) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	return parseDuration(string(out))
}

// parseDuration parses ffprobe output such as "12.345000\n"
func parseDuration(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}

	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}
	return duration, nil
}
