package chat

import (
	"context"
	"fmt"
	"strings"

	"techdigest/app/categorize"
	"techdigest/app/database"
)

// recentArticlePool is how many stored articles are considered for ranking
// before the context cap is applied.
const recentArticlePool = 50

// Completer produces a chat completion for a prompt. Satisfied by the llm
// client.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service answers free-form questions about recent news by ranking stored
// articles against the question and asking the language model to answer from
// that context.
type Service struct {
	articleRepo database.ArticleRepository
	completer   Completer
}

func NewService(articleRepo database.ArticleRepository, completer Completer) *Service {
	return &Service{
		articleRepo: articleRepo,
		completer:   completer,
	}
}

// Answer responds to one question. Question keywording uses the loose token
// variant so model names like "gpt4" survive.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	if !s.completer.Enabled() {
		return "", fmt.Errorf("chat is unavailable without a configured llm")
	}

	articles, err := s.articleRepo.GetRecentArticles(recentArticlePool)
	if err != nil {
		return "", fmt.Errorf("failed to load recent articles: %w", err)
	}
	if len(articles) == 0 {
		return "I don't have any recent news to draw on yet. Please check back after the next feed sync.", nil
	}

	keywords := categorize.ExtractKeywordsLoose(question)
	relevant := RankArticles(articles, keywords)

	answer, err := s.completer.Complete(ctx, buildPrompt(question, relevant))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return answer, nil
}

func buildPrompt(question string, articles []database.Article) string {
	var b strings.Builder

	b.WriteString("You are an expert tech news assistant. Answer the user's question using the recent articles below. ")
	b.WriteString("Be concise and mention which article your answer comes from. ")
	b.WriteString("If the articles do not cover the question, say so instead of guessing.\n\n")
	b.WriteString("Recent articles:\n")

	for i, article := range articles {
		summary := article.LLMSummary
		if summary == "" {
			summary = article.Summary
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n\n", i+1, article.Title, summary, article.Link)
	}

	fmt.Fprintf(&b, "Question: %s", question)

	return b.String()
}
