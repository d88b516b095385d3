package alignment

import (
	"sort"
	"testing"
)

func ms(v int64) *int64 { return &v }

func TestExtractWordTimestamps(t *testing.T) {
	doc := Document{
		Utterances: []Utterance{
			{Tokens: []Token{
				{Text: "hello", StartMS: ms(0), EndMS: ms(400)},
				{Text: "there", StartMS: ms(450), EndMS: ms(900)},
				{Text: ".", StartMS: ms(900), EndMS: ms(950)},
			}},
			{Tokens: []Token{
				{Text: "hi", StartMS: ms(1000), EndMS: ms(1300)},
			}},
		},
	}

	words := ExtractWordTimestamps(doc)
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3", len(words))
	}
	if words[0].Word != "hello" || words[0].UtteranceID != 1 {
		t.Errorf("first word = %+v", words[0])
	}
	if words[2].Word != "hi" || words[2].UtteranceID != 2 {
		t.Errorf("third word = %+v", words[2])
	}
	if words[2].Start != 1.0 || words[2].End != 1.3 {
		t.Errorf("third word timing = [%v, %v]", words[2].Start, words[2].End)
	}
}

func TestExtractRepairsDegenerateTiming(t *testing.T) {
	doc := Document{Utterances: []Utterance{
		{Tokens: []Token{{Text: "word", StartMS: ms(500), EndMS: ms(500)}}},
	}}
	words := ExtractWordTimestamps(doc)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1", len(words))
	}
	if words[0].Start != 0.5 || words[0].End != 0.6 {
		t.Errorf("timing = [%v, %v], want [0.5, 0.6]", words[0].Start, words[0].End)
	}
}

func TestExtractSkipsPunctuationAndUntimedTokens(t *testing.T) {
	doc := Document{Utterances: []Utterance{
		{Tokens: []Token{
			{Text: ",", StartMS: ms(0), EndMS: ms(100)},
			{Text: "?!", StartMS: ms(100), EndMS: ms(200)},
			{Text: "  ", StartMS: ms(200), EndMS: ms(300)},
			{Text: "untimed"},
			{Text: "half", StartMS: ms(300)},
			{Text: "kept", StartMS: ms(400), EndMS: ms(700)},
		}},
	}}
	words := ExtractWordTimestamps(doc)
	if len(words) != 1 || words[0].Word != "kept" {
		t.Errorf("words = %+v, want only kept", words)
	}
}

func TestExtractKeepsWordsWithEmbeddedPunctuation(t *testing.T) {
	doc := Document{Utterances: []Utterance{
		{Tokens: []Token{{Text: "don't", StartMS: ms(0), EndMS: ms(300)}}},
	}}
	words := ExtractWordTimestamps(doc)
	if len(words) != 1 || words[0].Word != "don't" {
		t.Errorf("words = %+v", words)
	}
}

func TestExtractSortsByStart(t *testing.T) {
	doc := Document{Utterances: []Utterance{
		{Tokens: []Token{{Text: "late", StartMS: ms(2000), EndMS: ms(2500)}}},
		{Tokens: []Token{{Text: "early", StartMS: ms(100), EndMS: ms(600)}}},
	}}
	words := ExtractWordTimestamps(doc)
	if !sort.SliceIsSorted(words, func(i, j int) bool { return words[i].Start < words[j].Start }) {
		t.Errorf("words not sorted: %+v", words)
	}
	if words[0].Word != "early" {
		t.Errorf("first word = %q, want early", words[0].Word)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	if words := ExtractWordTimestamps(Document{}); len(words) != 0 {
		t.Errorf("expected no words, got %+v", words)
	}
}
