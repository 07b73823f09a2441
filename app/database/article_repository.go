package database

import (
	"database/sql"
	"fmt"
	"time"
)

// ArticleRepo handles database operations for articles and their category
// associations
type ArticleRepo struct {
	db *DB
}

var _ ArticleRepository = (*ArticleRepo)(nil)

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, title, COALESCE(link, ''), COALESCE(summary, ''),
	COALESCE(llm_summary, ''), COALESCE(published, ''), COALESCE(image_url, ''), created_at`

func scanArticle(scanner interface{ Scan(...interface{}) error }) (Article, error) {
	var a Article
	err := scanner.Scan(&a.ID, &a.Title, &a.Link, &a.Summary,
		&a.LLMSummary, &a.Published, &a.ImageURL, &a.CreatedAt)
	return a, err
}

func (r *ArticleRepo) GetArticle(id string) (*Article, error) {
	row := r.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &a, nil
}

func (r *ArticleRepo) GetRecentArticles(limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// GetArticlesByCategory returns articles associated to a category created at
// or after the cutoff, best matches first.
func (r *ArticleRepo) GetArticlesByCategory(categoryID int, since time.Time, limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT a.id, a.title, COALESCE(a.link, ''), COALESCE(a.summary, ''),
		       COALESCE(a.llm_summary, ''), COALESCE(a.published, ''),
		       COALESCE(a.image_url, ''), a.created_at
		FROM articles a
		JOIN article_categories ac ON ac.article_id = a.id
		WHERE ac.category_id = $1
		  AND a.created_at >= $2
		ORDER BY ac.relevance_score DESC, a.created_at DESC
		LIMIT $3
	`, categoryID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles by category: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// SearchArticlesByKeyword returns articles whose title, summary or LLM summary
// contains the keyword as a case-insensitive substring, newest first.
func (r *ArticleRepo) SearchArticlesByKeyword(keyword string, limit int) ([]Article, error) {
	pattern := "%" + keyword + "%"
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE title ILIKE $1 OR summary ILIKE $1 OR llm_summary ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// StoreArticleEntries persists articles and their category associations in a
// single transaction. A mid-batch failure rolls everything back; re-running
// the sync is safe because existing ids are skipped upstream and the inserts
// are conflict-tolerant.
func (r *ArticleRepo) StoreArticleEntries(entries []ArticleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		a := entry.Article
		_, err := tx.Exec(`
			INSERT INTO articles (id, title, link, summary, llm_summary, published, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`, a.ID, a.Title, a.Link, a.Summary, a.LLMSummary, a.Published, a.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to store article %s: %w", a.ID, err)
		}

		for _, ac := range entry.Categories {
			_, err := tx.Exec(`
				INSERT INTO article_categories (article_id, category_id, relevance_score)
				VALUES ($1, $2, $3)
				ON CONFLICT (article_id, category_id) DO NOTHING
			`, a.ID, ac.CategoryID, ac.RelevanceScore)
			if err != nil {
				return fmt.Errorf("failed to store category association for %s: %w", a.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit article batch: %w", err)
	}

	return nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}
