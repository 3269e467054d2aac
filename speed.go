package asticlip

import "strings"

// Speed labels
const (
	SpeedFast   = "Fast"
	SpeedNormal = "Normal"
	SpeedSlow   = "Slow"
)

// SpeedClassifierOptions represents speed classifier options. Thresholds are
// expressed in words per second.
type SpeedClassifierOptions struct {
	FastThreshold float64 `toml:"fast_threshold"`
	SlowThreshold float64 `toml:"slow_threshold"`
}

// ClassifySpeed buckets an utterance into Slow, Normal or Fast based on its
// word rate. An empty text classifies as Normal. Ties go to Normal.
func ClassifySpeed(duration float64, text string, o SpeedClassifierOptions) string {
	// Count whitespace-delimited words
	words := len(strings.Fields(text))
	if words == 0 || duration <= 0 {
		return SpeedNormal
	}

	// Compare word rate against thresholds
	wps := float64(words) / duration
	if wps > o.FastThreshold {
		return SpeedFast
	} else if wps < o.SlowThreshold {
		return SpeedSlow
	}
	return SpeedNormal
}
