package main

import (
	"context"
	"errors"

	"github.com/handiism/vocal-isolator/internal/isolate"
)

// Process exit statuses.
const (
	exitOK               = 0
	exitError            = 1
	exitMissingDirectory = 2
	exitNoSongs          = 3
	exitProcessingFailed = 4
	exitCancelled        = 130
)

// processingError marks a run in which at least one song failed.
type processingError struct {
	err error
}

func (e *processingError) Error() string { return e.err.Error() }
func (e *processingError) Unwrap() error { return e.err }

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	var perr *processingError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, isolate.ErrAborted), errors.Is(err, context.Canceled):
		return exitCancelled
	case errors.Is(err, isolate.ErrMissingTrainingDir):
		return exitMissingDirectory
	case errors.Is(err, isolate.ErrNoSongs):
		return exitNoSongs
	case errors.As(err, &perr):
		return exitProcessingFailed
	default:
		return exitError
	}
}

// alreadyReported reports whether the flow has already told the user
// about err.
func alreadyReported(err error) bool {
	return err == nil || isolate.IsReported(err)
}
