package asticlip

import (
	"github.com/go-audio/audio"
)

// Segment represents a candidate audio clip corresponding to one keyword
// occurrence. Index is 1-based and assigned in event order at extraction time,
// therefore saved sequence numbers may have gaps when candidates are rejected
// by the quality filter, but they stay strictly increasing within one file.
type Segment struct {
	Duration float64 // Event duration in seconds
	Index    int
	Keyword  string
	Metadata Metadata
	Samples  []int
	Speed    string
	Text     string
}

// Extract slices the source buffer around every event whose text contains a
// keyword alias. One event yields at most one segment: the first alias in
// table order wins. The sample range is padded on both sides and clamped to
// the source bounds, never wrapped or extrapolated.
func Extract(b *audio.IntBuffer, es []Event, t KeywordTable, paddingMs int, m Metadata) (ss []Segment) {
	// Loop through events
	for _, e := range es {
		// No keyword in text
		k, ok := t.Match(e.Text)
		if !ok {
			continue
		}

		// Convert offsets to milliseconds
		offsetMs := int(e.Offset * 1000)
		durationMs := int(e.Duration * 1000)

		// Compute padded sample range
		start := msToSamples(offsetMs-paddingMs, b.Format.SampleRate, b.Format.NumChannels)
		end := msToSamples(offsetMs+durationMs+paddingMs, b.Format.SampleRate, b.Format.NumChannels)

		// Clamp to source bounds
		if start < 0 {
			start = 0
		}
		if end > len(b.Data) {
			end = len(b.Data)
		}

		// Empty range
		if start >= end {
			continue
		}

		// Slice samples
		data := make([]int, end-start)
		copy(data, b.Data[start:end])

		// Create segment
		ss = append(ss, Segment{
			Duration: e.Duration,
			Index:    len(ss) + 1,
			Keyword:  k,
			Metadata: m,
			Samples:  data,
			Text:     e.Text,
		})
	}
	return
}

func msToSamples(ms, sampleRate, numChannels int) int {
	if numChannels <= 0 {
		numChannels = 1
	}
	return ms * sampleRate / 1000 * numChannels
}

func samplesToMs(n, sampleRate, numChannels int) int {
	if numChannels <= 0 {
		numChannels = 1
	}
	return n * 1000 / (sampleRate * numChannels)
}
