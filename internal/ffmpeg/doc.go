// Package ffmpeg runs the external ffmpeg binary that does the actual
// audio work for vocal-isolator.
//
// # Filters
//
// SilenceRemove renders the silenceremove directive:
//
//	ffmpeg.DefaultSilenceRemove().String()
//	// "silenceremove=stop_periods=-1:stop_duration=1:stop_threshold=-50dB"
//
// # Runner and Job
//
// Runner.Start launches one ffmpeg process and returns immediately with a
// Job. The Job is the only way to learn the outcome, so callers must Wait
// on it before exiting:
//
//	runner := ffmpeg.NewRunner("ffmpeg", logger)
//	job, err := runner.Start(ctx, ffmpeg.Request{
//	    Input:   in,
//	    Output:  out,
//	    Filters: []string{ffmpeg.DefaultSilenceRemove().String()},
//	})
//	if err != nil {
//	    return err
//	}
//	err = job.Wait()
//
// ffmpeg writes to a temporary sibling of Output which is renamed onto
// Output only after a clean exit.
//
// # Errors
//
// A failed run yields a *ProcessError carrying the exit code and the
// tail of ffmpeg's stderr. A missing binary yields ErrToolNotInstalled.
package ffmpeg
