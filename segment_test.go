package asticlip

import (
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
)

func newTestBuffer(n int) *audio.IntBuffer {
	b := &audio.IntBuffer{
		Data: make([]int, n),
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  16000,
		},
		SourceBitDepth: 16,
	}
	for idx := range b.Data {
		b.Data[idx] = 8000
	}
	return b
}

func TestExtract(t *testing.T) {
	kt := KeywordTable{{Alias: "turn on", Label: "TURN_ON"}}
	m := Metadata{Age: "30", City: "NYC", Country: "US", Gender: "M"}

	// 4s of audio at 16kHz
	b := newTestBuffer(64000)

	// Nominal case: event at 2.0s lasting 0.8s with 200ms padding yields the
	// [1.8s, 3.0s] span
	ss := Extract(b, []Event{{Duration: 0.8, Offset: 2, Text: "turn on"}}, kt, 200, m)
	assert.Len(t, ss, 1)
	assert.Equal(t, 19200, len(ss[0].Samples))
	assert.Equal(t, "TURN_ON", ss[0].Keyword)
	assert.Equal(t, "turn on", ss[0].Text)
	assert.Equal(t, 1, ss[0].Index)
	assert.Equal(t, m, ss[0].Metadata)

	// Padding past the start is truncated, never wrapped
	ss = Extract(b, []Event{{Duration: 0.1, Offset: 0.05, Text: "turn on"}}, kt, 200, m)
	assert.Len(t, ss, 1)
	// [0s, 0.35s]
	assert.Equal(t, 5600, len(ss[0].Samples))

	// Padding past the end is truncated too
	ss = Extract(b, []Event{{Duration: 0.5, Offset: 3.8, Text: "turn on"}}, kt, 200, m)
	assert.Len(t, ss, 1)
	// [3.6s, 4s]
	assert.Equal(t, 6400, len(ss[0].Samples))

	// Non-matching events yield no segment, matching events are indexed in
	// event order
	ss = Extract(b, []Event{
		{Duration: 0.5, Offset: 0.5, Text: "hello"},
		{Duration: 0.5, Offset: 1, Text: "turn on"},
		{Duration: 0.5, Offset: 2, Text: "turn on please"},
	}, kt, 200, m)
	assert.Len(t, ss, 2)
	assert.Equal(t, 1, ss[0].Index)
	assert.Equal(t, 2, ss[1].Index)
}
