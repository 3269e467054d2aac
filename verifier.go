package asticlip

import (
	"context"

	"github.com/pkg/errors"
)

// VerificationResult represents the outcome of replaying recognition against a
// saved clip. A failed verification is data reported in the summary, not an
// error.
type VerificationResult struct {
	ExpectedKeyword string
	IsValid         bool
	Path            string
	RecognizedText  string
}

// Verifier re-runs recognition on saved clips as a self-check
type Verifier struct {
	r Recognizer
	t KeywordTable
}

// NewVerifier creates a new verifier
func NewVerifier(r Recognizer, t KeywordTable) *Verifier {
	return &Verifier{
		r: r,
		t: t,
	}
}

// Verify replays recognition against a saved clip. The clip is valid only if
// exactly one keyword-bearing event is recognized: not zero, not more than one.
func (v *Verifier) Verify(ctx context.Context, f SavedFile) (r VerificationResult, err error) {
	// Create result
	r = VerificationResult{
		ExpectedKeyword: f.Keyword,
		Path:            f.Path,
	}

	// Read wav
	b, err := ReadWav(f.Path)
	if err != nil {
		err = errors.Wrapf(err, "asticlip: reading %s failed", f.Path)
		return
	}

	// Recognize
	es, err := v.r.Recognize(ctx, b.Data, b.SourceBitDepth, b.Format.NumChannels, b.Format.SampleRate)
	if err != nil {
		err = errors.Wrapf(err, "asticlip: recognizing %s failed", f.Path)
		return
	}

	// Count keyword-bearing events
	var texts []string
	for _, e := range es {
		if _, ok := v.t.Match(e.Text); ok {
			texts = append(texts, e.Text)
		}
	}

	// Exactly one keyword-bearing event
	if len(texts) == 1 {
		r.IsValid = true
		r.RecognizedText = texts[0]
	}
	return
}
