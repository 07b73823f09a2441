package ingest

import (
	"fmt"
)

// IncomingArticle is a candidate article at the ingestion boundary. ID, Title
// and Link are required; everything else is optional enrichment.
type IncomingArticle struct {
	ID         string
	Title      string
	Link       string
	Summary    string
	LLMSummary string
	Published  string
	ImageURL   string
}

// Validate checks the required fields before an article enters the store.
func (a IncomingArticle) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("article id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("article title is required")
	}
	if a.Link == "" {
		return fmt.Errorf("article link is required")
	}
	return nil
}

// Result reports the outcome of one sync batch. Stored lists the articles
// that were new to this batch, in input order, for downstream notification.
type Result struct {
	Processed   int // articles newly stored
	Categorized int // of those, articles that matched at least one category
	Stored      []IncomingArticle
}
