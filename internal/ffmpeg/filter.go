package ffmpeg

import (
	"fmt"
	"strconv"
)

// SilenceRemove configures ffmpeg's silenceremove audio filter.
//
// Only the "stop" side is used: with StopPeriods = -1 every period of
// silence in the stream is removed, not just leading or trailing ones.
type SilenceRemove struct {
	// StopPeriods is the number of silence periods to trim; -1 means all.
	StopPeriods int

	// StopDuration is the minimum silence length in seconds.
	StopDuration float64

	// StopThresholdDB is the level below which audio counts as silence.
	StopThresholdDB float64
}

// DefaultSilenceRemove returns all periods, 1 second, -50 dB.
func DefaultSilenceRemove() SilenceRemove {
	return SilenceRemove{
		StopPeriods:     -1,
		StopDuration:    1,
		StopThresholdDB: -50,
	}
}

// String renders the filter directive in ffmpeg's option syntax.
// Numbers use the shortest exact form so whole values have no decimals.
func (s SilenceRemove) String() string {
	return fmt.Sprintf("silenceremove=stop_periods=%d:stop_duration=%s:stop_threshold=%sdB",
		s.StopPeriods,
		formatNumber(s.StopDuration),
		formatNumber(s.StopThresholdDB))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
