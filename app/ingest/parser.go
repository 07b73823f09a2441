package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser turns raw RSS/Atom payloads into incoming article records with
// stable, content-derived identifiers.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

var (
	slugRe = regexp.MustCompile(`[^a-z0-9]+`)
	imgRe  = regexp.MustCompile(`<img[^>]+src="([^"]+)"`)
)

const maxSlugLen = 50

func (p *Parser) Run(data []byte) ([]IncomingArticle, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]IncomingArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, p.normalizeItem(item))
	}

	return articles, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) IncomingArticle {
	article := IncomingArticle{
		Title:     item.Title,
		Link:      item.Link,
		Summary:   item.Description,
		Published: item.Published,
		ImageURL:  extractImageURL(item),
	}
	article.ID = ArticleID(item)

	return article
}

// ArticleID derives the stable article identifier: publish date (when
// parseable) plus a slug of the title capped at 50 characters. Re-ingesting
// the same item always produces the same id.
func ArticleID(item *gofeed.Item) string {
	dateStr := ""
	if item.PublishedParsed != nil {
		dateStr = item.PublishedParsed.Format("2006-01-02")
	}
	return fmt.Sprintf("%s-%s", dateStr, Slugify(item.Title))
}

// Slugify lowercases text and collapses every non-alphanumeric run into a
// single hyphen, trimming to maxSlugLen.
func Slugify(text string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(text), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}

// extractImageURL tries item image, media extensions, then the first <img>
// tag inside the description or content HTML.
func extractImageURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, name := range []string{"content", "thumbnail"} {
		for _, ext := range item.Extensions["media"][name] {
			if url := ext.Attrs["url"]; url != "" {
				return url
			}
		}
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	for _, html := range []string{item.Description, item.Content} {
		if match := imgRe.FindStringSubmatch(html); match != nil {
			return match[1]
		}
	}

	return ""
}
