package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for expected failure modes.
var (
	ErrToolNotInstalled = errors.New("required tool not installed")
	ErrOutputExists     = errors.New("output already exists")
)

// ProcessError represents a failed ffmpeg run.
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, e.Stderr)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s failed (exit %d): %v", e.Tool, e.ExitCode, e.Cause)
	}
	return fmt.Sprintf("%s failed (exit %d)", e.Tool, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// stderrTail keeps the last few non-empty lines of ffmpeg's stderr,
// which is where it puts the actual reason for a failure.
func stderrTail(stderr string, lines int) string {
	var kept []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > lines {
		kept = kept[len(kept)-lines:]
	}
	return strings.Join(kept, "; ")
}
