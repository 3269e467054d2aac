package asticlip

import "strings"

// Keyword maps a recognized text variant to its canonical label
type Keyword struct {
	Alias string `toml:"alias"`
	Label string `toml:"label"`
}

// KeywordTable is an ordered set of keyword aliases. Order matters: when a text
// contains several aliases, the first one in the table wins.
type KeywordTable []Keyword

// Match returns the canonical label of the first alias contained in the text
func (t KeywordTable) Match(text string) (label string, ok bool) {
	// Normalize
	text = strings.ToLower(strings.TrimSpace(text))

	// Loop through keywords
	for _, k := range t {
		if strings.Contains(text, strings.ToLower(k.Alias)) {
			label = k.Label
			ok = true
			return
		}
	}
	return
}

// Labels returns the unique canonical labels in table order
func (t KeywordTable) Labels() (ls []string) {
	seen := make(map[string]bool)
	for _, k := range t {
		if !seen[k.Label] {
			seen[k.Label] = true
			ls = append(ls, k.Label)
		}
	}
	return
}

// Aliases returns all aliases in table order
func (t KeywordTable) Aliases() (as []string) {
	for _, k := range t {
		as = append(as, k.Alias)
	}
	return
}
