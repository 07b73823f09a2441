package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"techdigest/app/database"
)

func recentFirstArticles() []database.Article {
	now := time.Now()
	return []database.Article{
		{ID: "a1", Title: "Apple unveils new iPhone", Summary: "Mobile hardware refresh", CreatedAt: now},
		{ID: "a2", Title: "Tesla battery factory opens", Summary: "Electric vehicle production ramps", CreatedAt: now.Add(-time.Hour)},
		{ID: "a3", Title: "GPT model sets benchmark record", Summary: "Machine learning milestone", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "a4", Title: "Fintech startup raises funding", Summary: "Payment infrastructure", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "a5", Title: "Game studio announces console title", Summary: "Holiday release planned", CreatedAt: now.Add(-4 * time.Hour)},
		{ID: "a6", Title: "Cloud provider cuts prices", Summary: "Enterprise savings", CreatedAt: now.Add(-5 * time.Hour)},
	}
}

func TestRankArticles_BestMatchFirst(t *testing.T) {
	ranked := RankArticles(recentFirstArticles(), []string{"tesla", "battery", "electric"})

	if len(ranked) == 0 {
		t.Fatal("Expected ranked articles")
	}
	if ranked[0].ID != "a2" {
		t.Errorf("Expected a2 ranked first, got %s", ranked[0].ID)
	}
}

func TestRankArticles_FallsBackToRecency(t *testing.T) {
	ranked := RankArticles(recentFirstArticles(), []string{"blockchain", "quantum"})

	if len(ranked) != maxContextArticles {
		t.Fatalf("Expected %d articles, got %d", maxContextArticles, len(ranked))
	}
	// No keyword matched, so the newest articles win in order
	for i, want := range []string{"a1", "a2", "a3", "a4", "a5"} {
		if ranked[i].ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, ranked[i].ID)
		}
	}
}

func TestRankArticles_CapsAtLimit(t *testing.T) {
	ranked := RankArticles(recentFirstArticles(), []string{"the"})

	if len(ranked) > maxContextArticles {
		t.Errorf("Expected at most %d articles, got %d", maxContextArticles, len(ranked))
	}
}

func TestRankArticles_Empty(t *testing.T) {
	if ranked := RankArticles(nil, []string{"tesla"}); ranked != nil {
		t.Errorf("Expected nil for empty input, got %v", ranked)
	}
}

// MockCompleter implements Completer for testing
type MockCompleter struct {
	enabled bool
	answer  string
	err     error
	prompt  string
}

func (m *MockCompleter) Enabled() bool { return m.enabled }

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// MockArticleRepository implements database.ArticleRepository for testing
type MockArticleRepository struct {
	articles []database.Article
}

func (m *MockArticleRepository) GetArticle(id string) (*database.Article, error) { return nil, nil }

func (m *MockArticleRepository) GetRecentArticles(limit int) ([]database.Article, error) {
	if len(m.articles) > limit {
		return m.articles[:limit], nil
	}
	return m.articles, nil
}

func (m *MockArticleRepository) GetArticlesByCategory(categoryID int, since time.Time, limit int) ([]database.Article, error) {
	return nil, nil
}

func (m *MockArticleRepository) SearchArticlesByKeyword(keyword string, limit int) ([]database.Article, error) {
	return nil, nil
}

func (m *MockArticleRepository) GetArticleCount() (int, error) { return len(m.articles), nil }

func (m *MockArticleRepository) StoreArticleEntries(entries []database.ArticleEntry) error {
	return nil
}

func TestAnswer(t *testing.T) {
	completer := &MockCompleter{enabled: true, answer: "Tesla opened a factory."}
	service := NewService(&MockArticleRepository{articles: recentFirstArticles()}, completer)

	answer, err := service.Answer(context.Background(), "What is Tesla up to?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer != "Tesla opened a factory." {
		t.Errorf("Unexpected answer: %q", answer)
	}
	if !strings.Contains(completer.prompt, "Tesla battery factory opens") {
		t.Error("Expected the matching article in the prompt context")
	}
	if !strings.Contains(completer.prompt, "Question: What is Tesla up to?") {
		t.Error("Expected the question at the end of the prompt")
	}
}

func TestAnswer_NoArticles(t *testing.T) {
	service := NewService(&MockArticleRepository{}, &MockCompleter{enabled: true})

	answer, err := service.Answer(context.Background(), "Anything new?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(answer, "check back") {
		t.Errorf("Expected empty-store fallback answer, got %q", answer)
	}
}

func TestAnswer_LLMDisabled(t *testing.T) {
	service := NewService(&MockArticleRepository{articles: recentFirstArticles()}, &MockCompleter{enabled: false})

	if _, err := service.Answer(context.Background(), "Anything new?"); err == nil {
		t.Error("Expected error when llm is not configured")
	}
}

func TestAnswer_CompletionFailure(t *testing.T) {
	completer := &MockCompleter{enabled: true, err: errors.New("timeout")}
	service := NewService(&MockArticleRepository{articles: recentFirstArticles()}, completer)

	if _, err := service.Answer(context.Background(), "Anything new?"); err == nil {
		t.Error("Expected completion error to surface")
	}
}
