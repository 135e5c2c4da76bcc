package metrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Candidate tokens are runs of Latin letters (accented included) of length
// >= 3, with apostrophes allowed inside a token.
var wordRe = regexp.MustCompile(`[a-zà-ÿ']{3,}`)

// Stop words shared between English and Spanish titles, plus travel-domain
// boilerplate ("travel", "guide", "trip", ...) that would otherwise dominate
// every frequency ranking without distinguishing anything.
var DefaultStopwords = []string{
	// EN
	"the", "and", "for", "with", "from", "are", "this", "that", "these",
	"those", "its", "you", "your", "our", "into", "over", "under", "down",
	"out", "about", "after", "before", "between", "during", "why", "how",
	"things", "one", "them", "not", "all", "was", "has", "have", "will",
	// ES
	"los", "las", "del", "por", "con", "una", "uno", "que", "para", "este",
	"esta", "como", "más", "sus", "donde", "cuando",
	// travel boilerplate
	"best", "top", "new", "latest", "travel", "trip", "guide", "destination",
	"tourism", "visit", "holiday", "viaje", "viajes", "turismo", "destino",
	"guía",
}

// Tokenizer extracts normalized keyword tokens from item titles. The stop
// word set is a configuration value: construct with extra terms per source
// or replace the base set entirely via NewTokenizerWithStopwords.
type Tokenizer struct {
	stopwords map[string]struct{}
}

func NewTokenizer(extra ...string) *Tokenizer {
	return NewTokenizerWithStopwords(append(DefaultStopwords, extra...))
}

func NewTokenizerWithStopwords(stopwords []string) *Tokenizer {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: set}
}

// Run returns the title's tokens in order of appearance, not deduplicated.
// An empty title yields an empty result.
func (t *Tokenizer) Run(title string) []string {
	if title == "" {
		return nil
	}

	// NFC so composed and decomposed accented characters tokenize the same.
	normalized := strings.ToLower(norm.NFC.String(title))

	var tokens []string
	for _, word := range wordRe.FindAllString(normalized, -1) {
		if _, ok := t.stopwords[word]; ok {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}
