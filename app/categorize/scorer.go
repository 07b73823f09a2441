package categorize

import (
	"strings"
)

// Score computes the relevance of article text to a category keyword list on
// a 0-10 scale. 0 means no match and is never persisted.
//
// Each category keyword contributes +2 when it appears as an extracted
// keyword of the text, +1 when it only appears as a raw substring. The raw
// sum is normalized by the fraction of keywords that matched and doubled,
// then clamped to [1,10]. The constants are deliberate; changing them changes
// which associations get stored.
func Score(articleText string, categoryKeywords []string) int {
	if len(categoryKeywords) == 0 {
		return 0
	}

	extracted := KeywordSet(ExtractKeywords(articleText))
	textLower := strings.ToLower(articleText)

	score := 0
	matches := 0

	for _, keyword := range categoryKeywords {
		keywordLower := strings.ToLower(keyword)
		if extracted[keywordLower] {
			matches++
			score += 2
		} else if strings.Contains(textLower, keywordLower) {
			matches++
			score++
		}
	}

	if matches == 0 {
		return 0
	}

	ratio := float64(matches) / float64(len(categoryKeywords))
	normalized := int(float64(score) * ratio * 2)
	if normalized < 1 {
		normalized = 1
	}
	if normalized > 10 {
		normalized = 10
	}

	return normalized
}
