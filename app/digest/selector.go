package digest

import (
	"fmt"
	"strings"
	"time"

	"techdigest/app/categorize"
	"techdigest/app/database"
)

// Group is one labelled section of a digest. The label is either a category
// name or a synthetic custom-subscription label; labels are unique within a
// selection and a group always holds at least one article.
type Group struct {
	Label    string
	Articles []database.Article
}

// Selector assembles the per-user article selection for one digest: the
// user's interest categories (or all categories when none are chosen) plus
// any active custom keyword subscriptions, each time-windowed and capped.
type Selector struct {
	userRepo    database.UserRepository
	subRepo     database.SubscriptionRepository
	articleRepo database.ArticleRepository
	cache       *categorize.CategoryCache
	categorizer *categorize.Categorizer
	now         func() time.Time
}

func NewSelector(userRepo database.UserRepository, subRepo database.SubscriptionRepository,
	articleRepo database.ArticleRepository, cache *categorize.CategoryCache,
	categorizer *categorize.Categorizer) *Selector {
	return &Selector{
		userRepo:    userRepo,
		subRepo:     subRepo,
		articleRepo: articleRepo,
		cache:       cache,
		categorizer: categorizer,
		now:         time.Now,
	}
}

// Select returns the ordered digest groups for the user: interest categories
// first in declaration order, then custom subscriptions. Articles older than
// daysBack days are excluded and each group is capped at maxPerGroup. An
// article appearing in two groups is not merged or de-duplicated across them.
func (s *Selector) Select(user database.User, daysBack, maxPerGroup int) ([]Group, error) {
	categories, err := s.userRepo.GetUserInterests(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interests for user %s: %w", user.ID, err)
	}
	if len(categories) == 0 {
		categories, err = s.cache.Categories()
		if err != nil {
			return nil, err
		}
	}

	cutoff := s.now().Add(-time.Duration(daysBack) * 24 * time.Hour)

	var groups []Group
	for _, category := range categories {
		articles, err := s.articleRepo.GetArticlesByCategory(category.ID, cutoff, maxPerGroup)
		if err != nil {
			return nil, fmt.Errorf("failed to load articles for category %s: %w", category.Name, err)
		}
		if len(articles) == 0 {
			continue
		}
		groups = append(groups, Group{Label: category.Name, Articles: articles})
	}

	subscriptions, err := s.subRepo.GetActiveKeywordSubscriptions(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions for user %s: %w", user.ID, err)
	}

	for _, sub := range subscriptions {
		found, err := s.categorizer.SearchArticles(sub.Keywords, maxPerGroup)
		if err != nil {
			return nil, err
		}
		recent := categorize.FilterSince(found, cutoff)
		if len(recent) == 0 {
			continue
		}
		groups = append(groups, Group{Label: customLabel(sub.Keywords), Articles: recent})
	}

	return groups, nil
}

// customLabel builds the group label for a keyword subscription from its
// first three keywords.
func customLabel(keywords []string) string {
	shown := keywords
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return "Custom: " + strings.Join(shown, ", ")
}
