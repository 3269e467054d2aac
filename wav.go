package asticlip

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// Audio formats
const (
	audioFormatPCM = 1
)

// ReadWav decodes a wav file into an int buffer
func ReadWav(path string) (b *audio.IntBuffer, err error) {
	// Open file
	var f *os.File
	if f, err = os.Open(path); err != nil {
		err = errors.Wrapf(err, "asticlip: opening %s failed", path)
		return
	}
	defer f.Close()

	// Create decoder
	d := wav.NewDecoder(f)

	// Decode
	if b, err = d.FullPCMBuffer(); err != nil {
		err = errors.Wrapf(err, "asticlip: decoding %s failed", path)
		return
	}

	// Invalid wav
	if b == nil || b.Format == nil {
		err = errors.Errorf("asticlip: %s is not a valid wav file", path)
		return
	}
	return
}

// WriteWav encodes an int buffer to a wav file
func WriteWav(path string, b *audio.IntBuffer) (err error) {
	// Create file
	var f *os.File
	if f, err = os.Create(path); err != nil {
		err = errors.Wrapf(err, "asticlip: creating %s failed", path)
		return
	}
	defer f.Close()

	// Create encoder
	e := wav.NewEncoder(f, b.Format.SampleRate, b.SourceBitDepth, b.Format.NumChannels, audioFormatPCM)
	defer e.Close()

	// Write
	if err = e.Write(b); err != nil {
		err = errors.Wrapf(err, "asticlip: writing wav samples to %s failed", path)
		return
	}
	return
}
