package database

import (
	"time"
)

// Category is a named topic with a keyword list used for automatic tagging.
// Keywords keep their declaration order; scoring tie-breaks depend on it.
type Category struct {
	ID          int
	Name        string
	Description string
	Keywords    []string
}

// Article is an ingested news item. Rows are immutable once stored; the ID is
// a stable slug derived from title and publish date, which makes re-ingestion
// idempotent.
type Article struct {
	ID         string
	Title      string
	Link       string
	Summary    string
	LLMSummary string
	Published  string // raw feed value, not necessarily parseable
	ImageURL   string
	CreatedAt  time.Time
}

// ArticleCategory associates an article with a category at a relevance score
// in [3,10]. Sub-threshold matches are never persisted.
type ArticleCategory struct {
	ArticleID      string
	CategoryID     int
	RelevanceScore int
}

// User holds digest preferences alongside the account record. DigestTime and
// TimeZone are consumed by the external scheduler, not by the core.
type User struct {
	ID                   string
	Email                string
	HashedPassword       string
	FullName             string
	IsActive             bool
	DailyDigestEnabled   bool
	WeeklyDigestEnabled  bool
	InstantNotifications bool
	DigestTime           string // HH:MM
	TimeZone             string
	CreatedAt            time.Time
}

// UserSubscription is either a category subscription or a custom keyword
// subscription (Keywords set, CategoryID nil).
type UserSubscription struct {
	ID               int
	UserID           string
	SubscriptionType string // "daily", "weekly", "instant"
	CategoryID       *int
	Keywords         []string
	IsActive         bool
	CreatedAt        time.Time
}

// DigestLog records one attempted digest send. Append-only; the digest gate
// reads it to enforce at-most-one-per-period delivery.
type DigestLog struct {
	ID           int
	UserID       string
	DigestType   string // "daily", "weekly"
	SentAt       time.Time
	ArticleCount int
	EmailStatus  string // "pending", "sent", "failed"
}

// NotificationLog records one instant notification attempt.
type NotificationLog struct {
	ID               int
	UserID           string
	ArticleID        string
	NotificationType string
	SentAt           time.Time
	Status           string // "pending", "sent", "failed"
}
