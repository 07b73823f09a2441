package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"techdigest/app/database"
	"techdigest/app/digest"
	"techdigest/app/ingest"
	"techdigest/app/llm"
	"techdigest/app/sources"
)

type FetchSourceTask struct {
	Task
	Source       *sources.Source
	httpClient   *http.Client
	parser       *ingest.Parser
	syncer       *ingest.Syncer
	articleRepo  database.ArticleRepository
	orchestrator *digest.Orchestrator
	llmClient    *llm.Client
	userAgent    string
}

func NewFetchSourceTask(sourceName string, source *sources.Source, httpClient *http.Client,
	parser *ingest.Parser, syncer *ingest.Syncer, articleRepo database.ArticleRepository,
	orchestrator *digest.Orchestrator, llmClient *llm.Client, userAgent string) *FetchSourceTask {
	return &FetchSourceTask{
		Task:         NewTask(TaskTypeFetchSource, sourceName),
		Source:       source,
		httpClient:   httpClient,
		parser:       parser,
		syncer:       syncer,
		articleRepo:  articleRepo,
		orchestrator: orchestrator,
		llmClient:    llmClient,
		userAgent:    userAgent,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.Subject)
		return nil
	}

	data, err := t.fetchSource(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	candidates, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	t.enrichNewCandidates(ctx, candidates)

	result, err := t.syncer.Sync(candidates)
	if err != nil {
		return fmt.Errorf("failed to sync articles: %w", err)
	}

	notified := 0
	for _, stored := range result.Stored {
		article := database.Article{
			ID:         stored.ID,
			Title:      stored.Title,
			Link:       stored.Link,
			Summary:    stored.Summary,
			LLMSummary: stored.LLMSummary,
			Published:  stored.Published,
			ImageURL:   stored.ImageURL,
			CreatedAt:  time.Now(),
		}
		sent, err := t.orchestrator.SendInstantNotifications(article)
		if err != nil {
			slog.Warn("Instant notification dispatch failed", "article_id", stored.ID, "error", err)
			continue
		}
		notified += sent
	}

	slog.Info("Task completed",
		"type", "FetchSource",
		"source", t.Subject,
		"duration", t.GetDuration(),
		"total", len(candidates),
		"new", result.Processed,
		"categorized", result.Categorized,
		"notifications", notified)

	return nil
}

// enrichNewCandidates fills in missing LLM summaries for candidates not yet
// stored. Enrichment is best-effort; a failed or disabled LLM never blocks
// ingestion.
func (t *FetchSourceTask) enrichNewCandidates(ctx context.Context, candidates []ingest.IncomingArticle) {
	if !t.llmClient.Enabled() {
		return
	}

	for i, candidate := range candidates {
		if candidate.LLMSummary != "" || candidate.ID == "" {
			continue
		}

		existing, err := t.articleRepo.GetArticle(candidate.ID)
		if err != nil || existing != nil {
			continue
		}

		summary, err := t.llmClient.Summarize(ctx, candidate.Title, candidate.Summary, t.Source.Settings.Audience)
		if err != nil {
			slog.Warn("LLM summarization failed", "article_id", candidate.ID, "error", err)
			continue
		}
		candidates[i].LLMSummary = summary
	}
}

func (t *FetchSourceTask) fetchSource(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Source.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
