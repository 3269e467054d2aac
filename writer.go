package asticlip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/asticode/go-astilog"
	"github.com/go-audio/audio"
	"github.com/pkg/errors"
)

// WriterOptions represents writer options
type WriterOptions struct {
	OutputDirPath string `toml:"output_dir_path"`
}

// Writer exports accepted segments to the output directory tree
type Writer struct {
	bitDepth    int
	numChannels int
	o           WriterOptions
	sampleRate  int
}

// SavedFile represents a clip persisted to storage
type SavedFile struct {
	Keyword string
	Path    string
	Text    string
}

// NewWriter creates a new writer
func NewWriter(o WriterOptions, bitDepth, numChannels, sampleRate int) *Writer {
	return &Writer{
		bitDepth:    bitDepth,
		numChannels: numChannels,
		o:           o,
		sampleRate:  sampleRate,
	}
}

// SegmentPath builds the output path of a segment. The path is a pure function
// of the speaker id, the file metadata, the keyword, the speed and the sequence
// number, which makes re-saving identical inputs overwrite the same file.
func (w *Writer) SegmentPath(speakerID int, s Segment) string {
	spk := fmt.Sprintf("SPK%03d", speakerID)
	name := fmt.Sprintf("%s_%s_%s_%s_%s_%s_%s_%03d.wav", spk, s.Metadata.Country, s.Metadata.City, s.Metadata.Gender, s.Metadata.Age, s.Keyword, s.Speed, s.Index)
	return filepath.Join(w.o.OutputDirPath, spk, s.Keyword, name)
}

// Save exports the segments as wav files under
// <output>/SPK<NNN>/<keyword>/, creating directories as needed
func (w *Writer) Save(speakerID int, ss []Segment) (fs []SavedFile, err error) {
	// Loop through segments
	for _, s := range ss {
		// Build path
		p := w.SegmentPath(speakerID, s)

		// Make sure the directory exists
		if err = os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			err = errors.Wrapf(err, "asticlip: mkdirall %s failed", filepath.Dir(p))
			return
		}

		// Write wav
		if err = WriteWav(p, &audio.IntBuffer{
			Data: s.Samples,
			Format: &audio.Format{
				NumChannels: w.numChannels,
				SampleRate:  w.sampleRate,
			},
			SourceBitDepth: w.bitDepth,
		}); err != nil {
			err = errors.Wrapf(err, "asticlip: saving segment to %s failed", p)
			return
		}

		// Append saved file
		fs = append(fs, SavedFile{
			Keyword: s.Keyword,
			Path:    p,
			Text:    s.Text,
		})
		astilog.Infof("asticlip: saved %s", p)
	}
	return
}
