package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	ioutils "github.com/handiism/vocal-isolator/internal/io"
)

// DefaultBinary is used when no ffmpeg path is configured.
const DefaultBinary = "ffmpeg"

// Request describes one ffmpeg invocation: one input, one output and an
// audio filter chain applied in order.
type Request struct {
	Input   string
	Output  string
	Filters []string
}

// Runner launches ffmpeg processes.
//
// Example:
//
//	runner := NewRunner("", slog.Default())
//	job, err := runner.Start(ctx, Request{Input: in, Output: out, Filters: filters})
type Runner struct {
	// Binary is the ffmpeg executable name or path.
	Binary string

	// Overwrite allows replacing an existing output file.
	Overwrite bool

	logger *slog.Logger
}

// NewRunner creates a Runner for binary. An empty binary means DefaultBinary.
// Overwrite is enabled, matching ffmpeg's -y.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		Binary:    binary,
		Overwrite: true,
		logger:    logger,
	}
}

// LookPath resolves the runner's binary on PATH.
func (r *Runner) LookPath() (string, error) {
	path, err := exec.LookPath(r.Binary)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.Binary, ErrToolNotInstalled)
	}
	return path, nil
}

// Args returns the ffmpeg argument list for req writing to output.
// Output is overwritten (-y) only when r.Overwrite is set; otherwise -n.
func (r *Runner) Args(req Request, output string) []string {
	overwrite := "-y"
	if !r.Overwrite {
		overwrite = "-n"
	}
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", overwrite, "-i", req.Input}
	if len(req.Filters) > 0 {
		args = append(args, "-af", strings.Join(req.Filters, ","))
	}
	return append(args, output)
}

// Start launches ffmpeg for req and returns without waiting for it.
//
// The process is bound to ctx: cancelling ctx kills it and the Job
// reports the context error. Output is first written to a temporary file
// next to req.Output and moved into place when ffmpeg exits cleanly.
func (r *Runner) Start(ctx context.Context, req Request) (*Job, error) {
	if req.Input == "" || req.Output == "" {
		return nil, errors.New("ffmpeg: input and output paths are required")
	}
	if !r.Overwrite {
		if _, err := os.Stat(req.Output); err == nil {
			return nil, fmt.Errorf("%s: %w", req.Output, ErrOutputExists)
		}
	}

	partial := partialPath(req.Output)
	args := r.Args(req, partial)

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger.Debug("starting ffmpeg", "binary", r.Binary, "args", args)

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.Binary, ErrToolNotInstalled)
		}
		return nil, &ProcessError{Tool: r.Binary, ExitCode: -1, Cause: err}
	}

	return StartJob(func() error {
		err := cmd.Wait()
		if err != nil {
			_ = ioutils.RemoveIfExists(partial)
			if ctx.Err() != nil {
				return fmt.Errorf("ffmpeg: %w", ctx.Err())
			}
			perr := &ProcessError{
				Tool:     r.Binary,
				ExitCode: -1,
				Stderr:   stderrTail(stderr.String(), 3),
				Cause:    err,
			}
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				perr.ExitCode = exitErr.ExitCode()
			}
			r.logger.Debug("ffmpeg failed", "exit", perr.ExitCode, "stderr", stderr.String())
			return perr
		}

		if err := ioutils.ReplaceFile(partial, req.Output); err != nil {
			_ = ioutils.RemoveIfExists(partial)
			return err
		}
		r.logger.Debug("ffmpeg finished", "output", req.Output)
		return nil
	}), nil
}

// partialPath returns a unique temporary sibling of output that keeps
// its extension, so ffmpeg still picks the right muxer.
func partialPath(output string) string {
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(filepath.Base(output), ext)
	name := fmt.Sprintf(".%s.%s.part%s", stem, uuid.NewString(), ext)
	return filepath.Join(filepath.Dir(output), name)
}
