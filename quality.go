package asticlip

import (
	"math"

	"github.com/asticode/go-astilog"
)

// QualityCheckerOptions represents quality checker options
type QualityCheckerOptions struct {
	MaxDurationMs    int     `toml:"max_duration_ms"`
	MaxSilenceMs     int     `toml:"max_silence_ms"`
	MinDurationMs    int     `toml:"min_duration_ms"`
	MinLevel         float64 `toml:"min_level"` // In dBFS
	SilenceThreshold float64 `toml:"silence_threshold"`
}

// QualityChecker accepts or rejects candidate segments based on loudness,
// duration bounds and maximum contiguous silence
type QualityChecker struct {
	bitDepth    int
	numChannels int
	o           QualityCheckerOptions
	sampleRate  int
}

// NewQualityChecker creates a new quality checker
func NewQualityChecker(o QualityCheckerOptions, bitDepth, numChannels, sampleRate int) *QualityChecker {
	return &QualityChecker{
		bitDepth:    bitDepth,
		numChannels: numChannels,
		o:           o,
		sampleRate:  sampleRate,
	}
}

// Accept returns whether the segment passes all quality checks. A rejection is
// not an error: the segment is silently dropped by the caller.
func (c *QualityChecker) Accept(s Segment) bool {
	// Check level
	if l := c.level(s.Samples); l < c.o.MinLevel {
		astilog.Debugf("asticlip: rejecting segment %d: level %.2f dBFS is below %.2f", s.Index, l, c.o.MinLevel)
		return false
	}

	// Check duration bounds. Boundary durations are accepted.
	if d := samplesToMs(len(s.Samples), c.sampleRate, c.numChannels); d < c.o.MinDurationMs || d > c.o.MaxDurationMs {
		astilog.Debugf("asticlip: rejecting segment %d: duration %dms is outside [%dms,%dms]", s.Index, d, c.o.MinDurationMs, c.o.MaxDurationMs)
		return false
	}

	// Check contiguous silence
	if c.silenceRunExceeded(s.Samples) {
		astilog.Debugf("asticlip: rejecting segment %d: contiguous silence longer than %dms", s.Index, c.o.MaxSilenceMs)
		return false
	}
	return true
}

// level computes the dBFS-equivalent level of the samples
func (c *QualityChecker) level(samples []int) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}

	// Compute root mean square
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))

	// Silent buffer
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/c.maxAmplitude())
}

// silenceRunExceeded scans the samples once, maintaining a consecutive silent
// sample counter reset on any non-silent sample, and exits as soon as the run
// exceeds the configured maximum silence duration
func (c *QualityChecker) silenceRunExceeded(samples []int) bool {
	max := c.maxSilenceSamples()
	var run int
	for _, s := range samples {
		if math.Abs(float64(s))/c.maxAmplitude() < c.o.SilenceThreshold {
			run++
		} else {
			run = 0
		}
		if run > max {
			return true
		}
	}
	return false
}

func (c *QualityChecker) maxAmplitude() float64 {
	return math.Pow(2, float64(c.bitDepth-1))
}

func (c *QualityChecker) maxSilenceSamples() int {
	return c.o.MaxSilenceMs * c.sampleRate / 1000 * c.numChannels
}
