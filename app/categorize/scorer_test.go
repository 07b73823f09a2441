package categorize

import (
	"strings"
	"testing"
)

func TestScore_NoMatch(t *testing.T) {
	score := Score("Gardening tips for the spring season", []string{"blockchain", "cryptocurrency"})
	if score != 0 {
		t.Errorf("Expected score 0 for unrelated text, got %d", score)
	}
}

func TestScore_EmptyKeywordList(t *testing.T) {
	score := Score("Any text at all", nil)
	if score != 0 {
		t.Errorf("Expected score 0 for empty keyword list, got %d", score)
	}
}

func TestScore_EmptyText(t *testing.T) {
	score := Score("", []string{"security", "breach"})
	if score != 0 {
		t.Errorf("Expected score 0 for empty text, got %d", score)
	}
}

func TestScore_ExtractedKeywordMatch(t *testing.T) {
	// "startup" appears as an extracted token: +2, full ratio, doubled
	score := Score("Startup raises funding round", []string{"startup"})
	if score != 4 {
		t.Errorf("Expected score 4, got %d", score)
	}
}

func TestScore_SubstringOnlyMatch(t *testing.T) {
	// "fintech" only appears inside a longer token: +1 instead of +2
	score := Score("The fintechification of banking", []string{"fintech"})
	if score != 2 {
		t.Errorf("Expected score 2, got %d", score)
	}
}

func TestScore_MultiWordKeywordMatchesAsSubstring(t *testing.T) {
	// Multi-word keywords can never be extracted tokens, so they match as
	// raw substrings. "AI" is below the 3-character token minimum and also
	// matches as a substring only.
	text := "Startup launches new AI chatbot machine learning breakthrough"
	score := Score(text, []string{"AI", "machine learning"})
	if score != 4 {
		t.Errorf("Expected score 4, got %d", score)
	}
}

func TestScore_ClampsToTen(t *testing.T) {
	keywords := []string{"security", "breach", "hack", "cybersecurity", "privacy",
		"data protection", "vulnerability", "malware", "ransomware", "encryption"}
	text := "Massive security breach: hack exposes privacy flaws, " +
		"vulnerability allowed malware and ransomware past weak encryption"
	score := Score(text, keywords)
	if score != 10 {
		t.Errorf("Expected score clamped to 10, got %d", score)
	}
}

func TestScore_ClampsToOne(t *testing.T) {
	// One substring match out of ten keywords floors below 1 before clamping
	keywords := []string{"security", "breach", "hack", "cybersecurity", "privacy",
		"data protection", "vulnerability", "malware", "ransomware", "encryption"}
	score := Score("The antihack coating on this phone case", keywords)
	if score != 1 {
		t.Errorf("Expected score clamped to 1, got %d", score)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	lower := Score("tesla announces new battery", []string{"Tesla"})
	upper := Score("TESLA ANNOUNCES NEW BATTERY", []string{"tesla"})
	if lower != upper {
		t.Errorf("Scoring should be case-insensitive: %d vs %d", lower, upper)
	}
	if lower == 0 {
		t.Error("Expected a match for case-differing keyword")
	}
}

func TestScore_StaysInRange(t *testing.T) {
	texts := []string{
		"Google acquires AI startup for cloud automation",
		"New iPhone app brings mobile payments to Android",
		strings.Repeat("security breach hack ", 50),
	}
	keywordSets := [][]string{
		{"Google", "Apple", "Microsoft"},
		{"mobile", "app", "iOS", "Android"},
		{"security", "breach"},
	}

	for _, text := range texts {
		for _, keywords := range keywordSets {
			score := Score(text, keywords)
			if score < 0 || score > 10 {
				t.Errorf("Score(%.30q, %v) = %d, out of range [0,10]", text, keywords, score)
			}
		}
	}
}
