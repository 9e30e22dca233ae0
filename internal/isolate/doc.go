// Package isolate provides the selection-and-dispatch flow that turns a
// user's choices into one ffmpeg silence-removal run.
//
// # Manager
//
// The Manager runs the flow in order:
//
//  1. Choose a group from the catalog
//  2. Choose a member of that group
//  3. Resolve <base>/<group>/<member>/train; stop if it is missing
//  4. List eligible songs; stop if there are none
//  5. Choose a song
//  6. Create and lock the output folder
//  7. Start ffmpeg with the silenceremove filter
//  8. Wait for it and report the outcome
//
// # Basic Usage
//
//	manager := isolate.NewManager(settings, catalog, layout, isolate.Deps{
//	    Prompter:  prompter,
//	    Processor: ffmpeg.NewRunner(settings.FFmpegPath, logger),
//	    OnProgress: func(event isolate.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    },
//	})
//
//	report, err := manager.Run(ctx, isolate.Options{})
//	if errors.Is(err, isolate.ErrMissingTrainingDir) {
//	    // nothing prepared for this member yet
//	}
//
// # Batch Mode
//
// With Options.All every eligible song of the member is processed, at most
// settings.MaxConcurrentJobs at a time.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package isolate
