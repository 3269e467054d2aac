package asticlip

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asticode/go-astilog"
	"github.com/go-audio/audio"
	"github.com/pkg/errors"
)

// Options represents processor options
type Options struct {
	BitDepth           int                    `toml:"bit_depth"`
	InputDirPath       string                 `toml:"input_dir_path"`
	Keywords           KeywordTable           `toml:"keywords"`
	NumChannels        int                    `toml:"num_channels"`
	PaddingMs          int                    `toml:"padding_ms"`
	Quality            QualityCheckerOptions  `toml:"quality"`
	RecognitionTimeout time.Duration          `toml:"recognition_timeout"`
	SampleRate         int                    `toml:"sample_rate"`
	SpeakerStartID     int                    `toml:"speaker_start_id"`
	Speed              SpeedClassifierOptions `toml:"speed"`
	TestFilePath       string                 `toml:"test_file_path"`
	Writer             WriterOptions          `toml:"writer"`
}

// Processor runs the full segmentation pipeline: recognition, extraction,
// quality filtering, speed classification, persistence and verification
type Processor struct {
	o Options
	q *QualityChecker
	r Recognizer
	v *Verifier
	w *Writer
}

// FileResult represents the outcome of processing one source file
type FileResult struct {
	InputPath     string
	SavedFiles    []SavedFile
	Segments      []Segment
	Verifications []VerificationResult
}

// New creates a new processor
func New(r Recognizer, o Options) *Processor {
	return &Processor{
		o: o,
		q: NewQualityChecker(o.Quality, o.BitDepth, o.NumChannels, o.SampleRate),
		r: r,
		v: NewVerifier(r, o.Keywords),
		w: NewWriter(o.Writer, o.BitDepth, o.NumChannels, o.SampleRate),
	}
}

// ProcessFile runs the pipeline on one source file
func (p *Processor) ProcessFile(ctx context.Context, path string, speakerID int) (r FileResult, err error) {
	astilog.Infof("asticlip: processing %s", path)

	// Create result
	r = FileResult{InputPath: path}

	// Parse metadata
	var m Metadata
	if m, err = NewMetadata(path); err != nil {
		err = errors.Wrap(err, "asticlip: parsing metadata failed")
		return
	}

	// Read wav
	var b *audio.IntBuffer
	if b, err = ReadWav(path); err != nil {
		err = errors.Wrap(err, "asticlip: reading wav failed")
		return
	}

	// Check audio properties
	if b.Format.SampleRate != p.o.SampleRate || b.Format.NumChannels != p.o.NumChannels {
		err = errors.Errorf("asticlip: %s has format %dHz/%dch, expected %dHz/%dch", path, b.Format.SampleRate, b.Format.NumChannels, p.o.SampleRate, p.o.NumChannels)
		return
	}

	// Recognize
	var es []Event
	if es, err = p.recognize(ctx, b.Data, b.SourceBitDepth); err != nil {
		err = errors.Wrap(err, "asticlip: recognizing failed")
		return
	}
	astilog.Infof("asticlip: recognized %d events in %s", len(es), path)

	// Extract candidate segments
	cs := Extract(b, es, p.o.Keywords, p.o.PaddingMs, m)

	// Filter and classify
	for _, s := range cs {
		// Rejected segments are dropped silently
		if !p.q.Accept(s) {
			continue
		}

		// Classify speed
		s.Speed = ClassifySpeed(s.Duration, s.Text, p.o.Speed)

		// Append segment
		r.Segments = append(r.Segments, s)
	}
	astilog.Infof("asticlip: kept %d of %d candidate segments in %s", len(r.Segments), len(cs), path)

	// Save segments
	if r.SavedFiles, err = p.w.Save(speakerID, r.Segments); err != nil {
		err = errors.Wrap(err, "asticlip: saving segments failed")
		return
	}

	// Verify saved files
	for _, f := range r.SavedFiles {
		// Verify
		var v VerificationResult
		if v, err = p.verify(ctx, f); err != nil {
			err = errors.Wrap(err, "asticlip: verifying failed")
			return
		}

		// Append verification
		r.Verifications = append(r.Verifications, v)
	}
	return
}

func (p *Processor) recognize(ctx context.Context, samples []int, bitDepth int) (es []Event, err error) {
	// Apply recognition timeout
	if p.o.RecognitionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.o.RecognitionTimeout)
		defer cancel()
	}

	// Recognize
	if es, err = p.r.Recognize(ctx, samples, bitDepth, p.o.NumChannels, p.o.SampleRate); err != nil {
		err = errors.Wrap(err, "asticlip: recognizing samples failed")
		return
	}
	return
}

func (p *Processor) verify(ctx context.Context, f SavedFile) (v VerificationResult, err error) {
	// Apply recognition timeout
	if p.o.RecognitionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.o.RecognitionTimeout)
		defer cancel()
	}

	// Verify
	if v, err = p.v.Verify(ctx, f); err != nil {
		err = errors.Wrap(err, "asticlip: verifying saved file failed")
		return
	}
	return
}

// ProcessBatch walks the input directory and runs the pipeline on every wav
// file. Speaker ids are assigned sequentially starting at the configured start
// id. A failing file is logged and doesn't block the rest of the batch.
func (p *Processor) ProcessBatch(ctx context.Context) (rs []FileResult, err error) {
	// Get audio files
	var paths []string
	if paths, err = p.audioFiles(); err != nil {
		err = errors.Wrap(err, "asticlip: getting audio files failed")
		return
	}
	astilog.Infof("asticlip: found %d audio files in %s", len(paths), p.o.InputDirPath)

	// Loop through files
	for idx, path := range paths {
		// Check context
		if ctx.Err() != nil {
			err = errors.Wrap(ctx.Err(), "asticlip: context error")
			return
		}

		// Process file
		r, errFile := p.ProcessFile(ctx, path, p.o.SpeakerStartID+idx)
		if errFile != nil {
			astilog.Error(errors.Wrapf(errFile, "asticlip: processing %s failed", path))
			continue
		}

		// Append result
		rs = append(rs, r)
	}
	return
}

func (p *Processor) audioFiles() (paths []string, err error) {
	// Walk input directory
	if err = filepath.Walk(p.o.InputDirPath, func(path string, info os.FileInfo, errWalk error) (err error) {
		// Check error
		if errWalk != nil {
			err = errWalk
			return
		}

		// Only keep wav files
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".wav") {
			return
		}

		// Append path
		paths = append(paths, path)
		return
	}); err != nil {
		err = errors.Wrapf(err, "asticlip: walking %s failed", p.o.InputDirPath)
		return
	}
	return
}
