package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks settings for values the tool cannot work with.
func (s *Settings) Validate() error {
	var errs []error

	names := []struct{ key, value string }{
		{"training_dir", s.TrainingDir},
		{"output_dir", s.OutputDir},
		{"output_suffix", s.OutputSuffix},
		{"audio_extension", s.AudioExt},
	}
	for _, n := range names {
		if strings.TrimSpace(n.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", n.key))
			continue
		}
		if strings.ContainsAny(n.value, `/\`) {
			errs = append(errs, fmt.Errorf("%s must be a single path element, got %q", n.key, n.value))
		}
	}
	if s.AudioExt != "" && !strings.HasPrefix(s.AudioExt, ".") {
		errs = append(errs, fmt.Errorf("audio_extension must start with a dot, got %q", s.AudioExt))
	}

	if s.Silence.StopPeriods < -1 {
		errs = append(errs, fmt.Errorf("silence.stop_periods must be -1 or greater, got %d", s.Silence.StopPeriods))
	}
	if s.Silence.StopDuration <= 0 {
		errs = append(errs, fmt.Errorf("silence.stop_duration must be positive, got %v", s.Silence.StopDuration))
	}
	if s.Silence.StopThresholdDB < -120 || s.Silence.StopThresholdDB > 0 {
		errs = append(errs, fmt.Errorf("silence.stop_threshold_db must be between -120 and 0, got %v", s.Silence.StopThresholdDB))
	}

	if s.MaxConcurrentJobs < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent_jobs must be at least 1, got %d", s.MaxConcurrentJobs))
	}

	switch strings.ToLower(s.PlaylistFormat) {
	case "m3u", "pls":
	default:
		errs = append(errs, fmt.Errorf("playlist_format must be m3u or pls, got %q", s.PlaylistFormat))
	}

	return errors.Join(errs...)
}
