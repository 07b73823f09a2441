package categorize

import (
	"fmt"
	"sync"

	"techdigest/app/database"
)

// CategoryCache is a read-through cache over the category table. Categories
// are effectively immutable between administrative actions, so callers reload
// at defined points (startup, start of a sync batch) instead of per lookup.
type CategoryCache struct {
	repo       database.CategoryRepository
	categories []database.Category
	mu         sync.RWMutex
}

func NewCategoryCache(repo database.CategoryRepository) *CategoryCache {
	return &CategoryCache{repo: repo}
}

// Reload replaces the cached snapshot from the database.
func (cc *CategoryCache) Reload() error {
	categories, err := cc.repo.GetCategories()
	if err != nil {
		return fmt.Errorf("failed to reload categories: %w", err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.categories = categories

	return nil
}

// Categories returns the cached snapshot in declaration order, loading it on
// first use.
func (cc *CategoryCache) Categories() ([]database.Category, error) {
	cc.mu.RLock()
	cached := cc.categories
	cc.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}

	if err := cc.Reload(); err != nil {
		return nil, err
	}

	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.categories, nil
}

// CategoryName resolves a category id from the cached snapshot.
func (cc *CategoryCache) CategoryName(id int) (string, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	for _, c := range cc.categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}

func (cc *CategoryCache) Count() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.categories)
}
