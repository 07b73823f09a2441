package categorize

import (
	"regexp"
	"strings"
)

// stopWords is the fixed stop-word set shared by both extraction variants.
var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true, "a": true,
	"an": true, "and": true, "or": true, "for": true, "to": true, "of": true,
	"in": true, "with": true, "by": true, "as": true, "from": true, "that": true,
	"this": true, "it": true, "are": true, "be": true, "was": true, "were": true,
	"has": true, "had": true, "have": true, "but": true, "not": true, "if": true,
	"then": true, "so": true, "do": true, "does": true, "did": true, "can": true,
	"will": true, "just": true, "about": true, "into": true, "over": true,
	"after": true, "before": true, "more": true, "less": true, "than": true,
	"up": true, "out": true, "off": true, "no": true, "yes": true, "you": true,
	"i": true, "we": true, "they": true, "he": true, "she": true, "his": true,
	"her": true, "their": true, "our": true, "my": true, "your": true,
}

var (
	// Strict variant: alphabetic words of length >= 3. Used on the article
	// side of categorization.
	strictWordRe = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

	// Loose variant: word characters including digits, length > 2. Used on
	// the question side of chat relevance ranking.
	looseWordRe = regexp.MustCompile(`\w+`)
)

// ExtractKeywords tokenizes text into ordered lowercase keywords using the
// strict variant, dropping stop words. Pure function.
func ExtractKeywords(text string) []string {
	words := strictWordRe.FindAllString(strings.ToLower(text), -1)
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if !stopWords[word] {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// ExtractKeywordsLoose tokenizes text with the loose variant, which also
// accepts alphanumeric tokens. Keeps words longer than 2 characters.
func ExtractKeywordsLoose(text string) []string {
	words := looseWordRe.FindAllString(strings.ToLower(text), -1)
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) > 2 && !stopWords[word] {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// KeywordSet builds a membership set from an ordered keyword list.
func KeywordSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, keyword := range keywords {
		set[keyword] = true
	}
	return set
}
