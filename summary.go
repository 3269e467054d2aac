package asticlip

import (
	"fmt"
	"strings"
)

// Summary aggregates batch statistics
type Summary struct {
	Files    int
	PassRate float64
	Saved    int
	Segments int
	Verified int
}

// NewSummary computes a summary out of batch results
func NewSummary(rs []FileResult) (s Summary) {
	// Aggregate counts
	s.Files = len(rs)
	for _, r := range rs {
		s.Segments += len(r.Segments)
		s.Saved += len(r.SavedFiles)
		for _, v := range r.Verifications {
			if v.IsValid {
				s.Verified++
			}
		}
	}

	// Guard divide-by-zero when nothing was saved
	if s.Saved > 0 {
		s.PassRate = float64(s.Verified) / float64(s.Saved)
	}
	return
}

// String implements the fmt.Stringer interface
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("Batch summary:\n")
	b.WriteString(fmt.Sprintf("  files processed: %d\n", s.Files))
	b.WriteString(fmt.Sprintf("  keyword segments found: %d\n", s.Segments))
	b.WriteString(fmt.Sprintf("  files saved: %d\n", s.Saved))
	b.WriteString(fmt.Sprintf("  files verified: %d\n", s.Verified))
	if s.Saved > 0 {
		b.WriteString(fmt.Sprintf("  pass rate: %.2f%%", s.PassRate*100))
	} else {
		b.WriteString("  pass rate: n/a")
	}
	return b.String()
}
