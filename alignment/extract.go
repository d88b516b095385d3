package alignment

import (
	"sort"
	"strings"
)

// punctuation is the token character set that never counts as a word.
const punctuation = `.,;:!?"'()[]{}`

// minWordDuration is the repair applied to degenerate token timing:
// a token whose end does not pass its start is stretched by this many
// seconds.
const minWordDuration = 0.1

// ExtractWordTimestamps flattens an aligned document into a single
// word-timing table in seconds, sorted by start time. Utterances are
// numbered from one. Tokens without timing and tokens whose trimmed
// text is empty or pure punctuation are skipped; a token whose end
// does not exceed its start is repaired, not dropped.
func ExtractWordTimestamps(doc Document) []WordTimestamp {
	var out []WordTimestamp
	for i, utt := range doc.Utterances {
		utteranceID := i + 1
		for _, tok := range utt.Tokens {
			if tok.StartMS == nil || tok.EndMS == nil {
				continue
			}
			word := strings.TrimSpace(tok.Text)
			if word == "" || isPunctuation(word) {
				continue
			}
			start := float64(*tok.StartMS) / 1000
			end := float64(*tok.EndMS) / 1000
			if end <= start {
				end = start + minWordDuration
			}
			out = append(out, WordTimestamp{
				Word:        word,
				Start:       start,
				End:         end,
				UtteranceID: utteranceID,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// isPunctuation reports whether every rune of the word belongs to the
// punctuation set.
func isPunctuation(word string) bool {
	for _, r := range word {
		if !strings.ContainsRune(punctuation, r) {
			return false
		}
	}
	return true
}
