package digest

import (
	"testing"
	"time"

	"techdigest/app/categorize"
	"techdigest/app/database"
)

var selectorNow = time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

func selectorCategories() []database.Category {
	return []database.Category{
		{ID: 1, Name: "Artificial Intelligence", Keywords: []string{"AI", "machine learning", "GPT"}},
		{ID: 2, Name: "Fintech", Keywords: []string{"fintech", "payment", "banking"}},
		{ID: 3, Name: "Gaming", Keywords: []string{"game", "console"}},
	}
}

func newTestSelector(articleRepo *MockArticleRepository, userRepo *MockUserRepository,
	subRepo *MockSubscriptionRepository) *Selector {
	catRepo := &MockCategoryRepository{categories: selectorCategories()}
	cache := categorize.NewCategoryCache(catRepo)
	categorizer := categorize.NewCategorizer(cache, articleRepo)

	selector := NewSelector(userRepo, subRepo, articleRepo, cache, categorizer)
	selector.now = func() time.Time { return selectorNow }
	return selector
}

func TestSelect_DailyWindowFiltersOldArticles(t *testing.T) {
	fresh1 := database.Article{ID: "f1", Title: "Fintech funding round", CreatedAt: selectorNow.Add(-2 * time.Hour)}
	fresh2 := database.Article{ID: "f2", Title: "Payment startup launches", CreatedAt: selectorNow.Add(-5 * time.Hour)}
	stale := database.Article{ID: "f3", Title: "Old banking news", CreatedAt: selectorNow.Add(-10 * 24 * time.Hour)}

	articleRepo := &MockArticleRepository{byCategory: map[int][]database.Article{
		2: {fresh1, fresh2, stale},
	}}
	userRepo := &MockUserRepository{interests: map[string][]database.Category{
		"user-1": {selectorCategories()[1]},
	}}
	selector := newTestSelector(articleRepo, userRepo, &MockSubscriptionRepository{})

	groups, err := selector.Select(database.User{ID: "user-1"}, 1, 5)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if groups[0].Label != "Fintech" {
		t.Errorf("Expected Fintech group, got %q", groups[0].Label)
	}
	if len(groups[0].Articles) != 2 {
		t.Errorf("Expected 2 articles inside the daily window, got %d", len(groups[0].Articles))
	}
}

func TestSelect_NoEmptyGroups(t *testing.T) {
	articleRepo := &MockArticleRepository{byCategory: map[int][]database.Article{
		1: {{ID: "a1", Title: "GPT release", CreatedAt: selectorNow.Add(-time.Hour)}},
	}}
	userRepo := &MockUserRepository{interests: map[string][]database.Category{
		"user-1": {selectorCategories()[0], selectorCategories()[2]},
	}}
	selector := newTestSelector(articleRepo, userRepo, &MockSubscriptionRepository{})

	groups, err := selector.Select(database.User{ID: "user-1"}, 1, 5)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("Expected only the non-empty group, got %d groups", len(groups))
	}
	for _, g := range groups {
		if len(g.Articles) == 0 {
			t.Errorf("Group %q has an empty article list", g.Label)
		}
	}
}

func TestSelect_NoInterestsFallsBackToAllCategories(t *testing.T) {
	articleRepo := &MockArticleRepository{byCategory: map[int][]database.Article{
		3: {{ID: "g1", Title: "New console announced", CreatedAt: selectorNow.Add(-time.Hour)}},
	}}
	userRepo := &MockUserRepository{interests: map[string][]database.Category{}}
	selector := newTestSelector(articleRepo, userRepo, &MockSubscriptionRepository{})

	groups, err := selector.Select(database.User{ID: "user-1"}, 1, 5)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(groups) != 1 || groups[0].Label != "Gaming" {
		t.Fatalf("Expected fallback scan to find the Gaming group, got %v", groups)
	}
}

func TestSelect_PerGroupCap(t *testing.T) {
	var articles []database.Article
	for i := 0; i < 8; i++ {
		articles = append(articles, database.Article{
			ID:        string(rune('a' + i)),
			CreatedAt: selectorNow.Add(-time.Duration(i) * time.Hour),
		})
	}
	articleRepo := &MockArticleRepository{byCategory: map[int][]database.Article{1: articles}}
	userRepo := &MockUserRepository{interests: map[string][]database.Category{
		"user-1": {selectorCategories()[0]},
	}}
	selector := newTestSelector(articleRepo, userRepo, &MockSubscriptionRepository{})

	groups, err := selector.Select(database.User{ID: "user-1"}, 1, 5)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(groups[0].Articles) != 5 {
		t.Errorf("Expected group capped at 5 articles, got %d", len(groups[0].Articles))
	}
}

func TestSelect_CustomSubscription(t *testing.T) {
	articleRepo := &MockArticleRepository{
		articles: []database.Article{
			{ID: "t1", Title: "Tesla battery breakthrough", CreatedAt: selectorNow.Add(-3 * time.Hour)},
			{ID: "t2", Title: "Tesla recalls old models", CreatedAt: selectorNow.Add(-20 * 24 * time.Hour)},
		},
	}
	userRepo := &MockUserRepository{interests: map[string][]database.Category{
		"user-1": {selectorCategories()[1]},
	}}
	subRepo := &MockSubscriptionRepository{subscriptions: []database.UserSubscription{
		{ID: 1, UserID: "user-1", SubscriptionType: "daily", Keywords: []string{"tesla", "battery", "solar", "energy"}, IsActive: true},
	}}
	selector := newTestSelector(articleRepo, userRepo, subRepo)

	groups, err := selector.Select(database.User{ID: "user-1"}, 1, 5)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group (Fintech is empty), got %d", len(groups))
	}
	group := groups[0]
	if group.Label != "Custom: tesla, battery, solar" {
		t.Errorf("Unexpected custom group label: %q", group.Label)
	}
	if len(group.Articles) != 1 || group.Articles[0].ID != "t1" {
		t.Errorf("Expected only the recent tesla article, got %v", group.Articles)
	}
}

func TestSelect_InactiveSubscriptionIgnored(t *testing.T) {
	articleRepo := &MockArticleRepository{
		articles: []database.Article{
			{ID: "t1", Title: "Tesla battery breakthrough", CreatedAt: selectorNow.Add(-3 * time.Hour)},
		},
	}
	userRepo := &MockUserRepository{interests: map[string][]database.Category{
		"user-1": {selectorCategories()[2]},
	}}
	subRepo := &MockSubscriptionRepository{subscriptions: []database.UserSubscription{
		{ID: 1, UserID: "user-1", SubscriptionType: "daily", Keywords: []string{"tesla"}, IsActive: false},
	}}
	selector := newTestSelector(articleRepo, userRepo, subRepo)

	groups, err := selector.Select(database.User{ID: "user-1"}, 1, 5)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Expected no groups for inactive subscription, got %v", groups)
	}
}
