package ingest

import (
	"fmt"
	"log/slog"

	"techdigest/app/categorize"
	"techdigest/app/database"
)

// Syncer imports candidate articles into the store and populates their
// category associations. Running the same batch twice is a no-op: candidates
// whose id already exists are skipped, and the batch commits in a single
// transaction, so a mid-batch failure leaves nothing behind.
type Syncer struct {
	articleRepo database.ArticleRepository
	categorizer *categorize.Categorizer
	cache       *categorize.CategoryCache
}

func NewSyncer(articleRepo database.ArticleRepository, categorizer *categorize.Categorizer,
	cache *categorize.CategoryCache) *Syncer {
	return &Syncer{
		articleRepo: articleRepo,
		categorizer: categorizer,
		cache:       cache,
	}
}

// Sync validates, de-duplicates and categorizes the candidates, then commits
// the surviving entries atomically. A malformed candidate is logged and
// skipped without aborting the batch.
func (s *Syncer) Sync(candidates []IncomingArticle) (Result, error) {
	var result Result

	// Categories are reloaded once per batch; administrative changes become
	// visible at the next sync, not mid-batch.
	if err := s.cache.Reload(); err != nil {
		return result, fmt.Errorf("failed to load categories: %w", err)
	}

	var entries []database.ArticleEntry

	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			slog.Warn("Skipping malformed article", "id", candidate.ID, "error", err)
			continue
		}

		existing, err := s.articleRepo.GetArticle(candidate.ID)
		if err != nil {
			return result, fmt.Errorf("failed to check existing article %s: %w", candidate.ID, err)
		}
		if existing != nil {
			continue
		}

		matches, err := s.categorizer.Categorize(candidate.Title, candidate.Summary, candidate.LLMSummary)
		if err != nil {
			slog.Warn("Skipping article, categorization failed", "id", candidate.ID, "error", err)
			continue
		}

		entry := database.ArticleEntry{
			Article: database.Article{
				ID:         candidate.ID,
				Title:      candidate.Title,
				Link:       candidate.Link,
				Summary:    candidate.Summary,
				LLMSummary: candidate.LLMSummary,
				Published:  candidate.Published,
				ImageURL:   candidate.ImageURL,
			},
		}
		for _, match := range matches {
			entry.Categories = append(entry.Categories, database.ArticleCategory{
				ArticleID:      candidate.ID,
				CategoryID:     match.CategoryID,
				RelevanceScore: match.Score,
			})
		}
		entries = append(entries, entry)

		result.Processed++
		if len(matches) > 0 {
			result.Categorized++
		}
		result.Stored = append(result.Stored, candidate)
	}

	if err := s.articleRepo.StoreArticleEntries(entries); err != nil {
		return Result{}, fmt.Errorf("failed to store article batch: %w", err)
	}

	slog.Info("Article sync completed", "candidates", len(candidates),
		"processed", result.Processed, "categorized", result.Categorized)

	return result, nil
}
