package isolate

import "errors"

// Sentinel errors for the outcomes of a run.
var (
	// ErrMissingTrainingDir means the member has no prepared training folder.
	ErrMissingTrainingDir = errors.New("training directory does not exist")

	// ErrNoSongs means the training folder holds no eligible songs.
	ErrNoSongs = errors.New("no songs found")

	ErrUnknownGroup  = errors.New("unknown group")
	ErrUnknownMember = errors.New("unknown member")
	ErrUnknownSong   = errors.New("unknown song")

	// ErrAborted means the user backed out of a prompt or a running job.
	ErrAborted = errors.New("aborted by user")

	// ErrInteractiveRequired means a prompt was needed but no Prompter is set.
	ErrInteractiveRequired = errors.New("selection requires an interactive terminal")
)

// reportedError marks an error the Manager has already shown to the user
// through a progress event.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was already delivered to the user as a
// progress event, so callers need not print it again.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
