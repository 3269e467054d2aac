package asticlip

import "context"

// Event represents a recognized utterance. Offset and Duration are expressed
// in seconds regardless of the native time unit of the recognition service.
type Event struct {
	Duration float64
	Offset   float64
	Text     string
}

// Recognizer represents an object capable of turning audio samples into
// recognized utterance events. Recognize blocks until the service signals
// completion or the context expires, in which case it returns whatever events
// were collected so far.
type Recognizer interface {
	Recognize(ctx context.Context, samples []int, bitDepth, numChannels, sampleRate int) (es []Event, err error)
}
