package categorize

import (
	"fmt"
	"sort"
	"time"

	"techdigest/app/database"
)

const (
	// MinRelevanceScore is the lowest score ever persisted; weaker matches
	// are discarded, not stored.
	MinRelevanceScore = 3

	// MaxCategoriesPerArticle caps how many associations one article gets.
	MaxCategoriesPerArticle = 3
)

// Match pairs a category with the relevance score an article achieved.
type Match struct {
	CategoryID int
	Score      int
}

// Categorizer evaluates articles against the category set and exposes the
// keyword search used by custom subscriptions and chat.
type Categorizer struct {
	cache       *CategoryCache
	articleRepo database.ArticleRepository
}

func NewCategorizer(cache *CategoryCache, articleRepo database.ArticleRepository) *Categorizer {
	return &Categorizer{
		cache:       cache,
		articleRepo: articleRepo,
	}
}

// Categorize scores the article text against every category with a non-empty
// keyword list and returns at most MaxCategoriesPerArticle matches with
// score >= MinRelevanceScore, best first. Ties keep category declaration
// order (stable sort).
func (c *Categorizer) Categorize(title, summary, llmSummary string) ([]Match, error) {
	categories, err := c.cache.Categories()
	if err != nil {
		return nil, err
	}

	articleText := fmt.Sprintf("%s %s %s", title, summary, llmSummary)

	var matches []Match
	for _, category := range categories {
		if len(category.Keywords) == 0 {
			continue
		}

		score := Score(articleText, category.Keywords)
		if score >= MinRelevanceScore {
			matches = append(matches, Match{CategoryID: category.ID, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxCategoriesPerArticle {
		matches = matches[:MaxCategoriesPerArticle]
	}

	return matches, nil
}

// SearchArticles returns articles matching any of the given keywords as a
// case-insensitive substring of title, summary or LLM summary, newest first,
// de-duplicated and capped at limit.
func (c *Categorizer) SearchArticles(keywords []string, limit int) ([]database.Article, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var combined []database.Article
	for _, keyword := range keywords {
		found, err := c.articleRepo.SearchArticlesByKeyword(keyword, limit)
		if err != nil {
			return nil, fmt.Errorf("keyword search failed for %q: %w", keyword, err)
		}
		combined = append(combined, found...)
	}

	seen := make(map[string]bool, len(combined))
	unique := make([]database.Article, 0, len(combined))
	for _, article := range combined {
		if seen[article.ID] {
			continue
		}
		seen[article.ID] = true
		unique = append(unique, article)
	}

	if len(unique) > limit {
		unique = unique[:limit]
	}

	return unique, nil
}

// FilterSince keeps articles created at or after the cutoff, preserving order.
func FilterSince(articles []database.Article, cutoff time.Time) []database.Article {
	var recent []database.Article
	for _, article := range articles {
		if !article.CreatedAt.Before(cutoff) {
			recent = append(recent, article)
		}
	}
	return recent
}
