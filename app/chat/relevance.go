package chat

import (
	"sort"
	"strings"

	"techdigest/app/database"
)

// maxContextArticles caps how many articles are handed to the language model
// as context for one question.
const maxContextArticles = 5

// RankArticles orders articles by how many of the query keywords appear in
// their title, summary or LLM summary as case-insensitive substrings, best
// first, stable on ties. When nothing matches at all, the most recent
// articles are returned instead so the model always has some context.
func RankArticles(articles []database.Article, keywords []string) []database.Article {
	if len(articles) == 0 {
		return nil
	}

	type scored struct {
		article database.Article
		score   int
	}

	ranked := make([]scored, 0, len(articles))
	for _, article := range articles {
		text := strings.ToLower(article.Title + " " + article.Summary + " " + article.LLMSummary)

		score := 0
		for _, keyword := range keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				score++
			}
		}
		ranked = append(ranked, scored{article: article, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	// Input order is newest first, so the head of the list doubles as the
	// recency fallback when no keyword matched anything.
	selected := make([]database.Article, 0, maxContextArticles)
	for _, s := range ranked {
		selected = append(selected, s.article)
		if len(selected) == maxContextArticles {
			break
		}
	}

	return selected
}
