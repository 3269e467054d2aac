package asticlip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterSegmentPath(t *testing.T) {
	w := NewWriter(WriterOptions{OutputDirPath: "/out"}, 16, 1, 16000)
	s := Segment{
		Index:    1,
		Keyword:  "TURN_ON",
		Metadata: Metadata{Age: "30", City: "NYC", Country: "US", Gender: "M"},
		Speed:    SpeedFast,
	}

	// The path is a pure function of its inputs
	p := w.SegmentPath(1, s)
	assert.Equal(t, filepath.Join("/out", "SPK001", "TURN_ON", "SPK001_US_NYC_M_30_TURN_ON_Fast_001.wav"), p)
	assert.Equal(t, p, w.SegmentPath(1, s))

	// Speaker id and index are zero-padded on 3 digits
	s.Index = 12
	assert.Equal(t, filepath.Join("/out", "SPK042", "TURN_ON", "SPK042_US_NYC_M_30_TURN_ON_Fast_012.wav"), w.SegmentPath(42, s))
}

func TestWriterSave(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(WriterOptions{OutputDirPath: dir}, 16, 1, 16000)
	s := Segment{
		Index:    1,
		Keyword:  "TURN_ON",
		Metadata: Metadata{Age: "30", City: "NYC", Country: "US", Gender: "M"},
		Samples:  loudSamples(4800),
		Speed:    SpeedFast,
		Text:     "turn on",
	}

	// Save
	fs, err := w.Save(1, []Segment{s})
	assert.NoError(t, err)
	assert.Len(t, fs, 1)
	assert.Equal(t, "TURN_ON", fs[0].Keyword)
	assert.Equal(t, "turn on", fs[0].Text)
	fi, err := os.Stat(fs[0].Path)
	assert.NoError(t, err)
	assert.True(t, fi.Size() > 0)

	// Re-saving identical inputs overwrites the same path
	fs2, err := w.Save(1, []Segment{s})
	assert.NoError(t, err)
	assert.Equal(t, fs[0].Path, fs2[0].Path)

	// The saved clip decodes back to the same samples
	b, err := ReadWav(fs[0].Path)
	assert.NoError(t, err)
	assert.Equal(t, s.Samples, b.Data)
	assert.Equal(t, 16000, b.Format.SampleRate)
}
