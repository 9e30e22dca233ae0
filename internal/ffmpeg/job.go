package ffmpeg

import "time"

// Job is a handle on one asynchronous unit of work.
type Job struct {
	done     chan struct{}
	err      error
	started  time.Time
	duration time.Duration
}

// StartJob runs fn in a new goroutine and returns a handle to it.
func StartJob(fn func() error) *Job {
	j := &Job{
		done:    make(chan struct{}),
		started: time.Now(),
	}
	go func() {
		defer close(j.done)
		j.err = fn()
		j.duration = time.Since(j.started)
	}()
	return j
}

// Wait blocks until the job has finished and returns its error.
func (j *Job) Wait() error {
	<-j.done
	return j.err
}

// Done is closed once the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Duration returns how long the job ran. It is zero until the job is done.
func (j *Job) Duration() time.Duration {
	select {
	case <-j.done:
		return j.duration
	default:
		return 0
	}
}
