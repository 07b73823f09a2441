package database

import (
	"time"
)

// ArticleEntry is an article together with its surviving category
// associations, stored as one unit during article sync.
type ArticleEntry struct {
	Article    Article
	Categories []ArticleCategory
}

type CategoryRepository interface {
	GetCategories() ([]Category, error)
	GetCategory(id int) (*Category, error)
	GetCategoryByName(name string) (*Category, error)
}

type ArticleRepository interface {
	GetArticle(id string) (*Article, error)
	GetRecentArticles(limit int) ([]Article, error)
	GetArticlesByCategory(categoryID int, since time.Time, limit int) ([]Article, error)
	SearchArticlesByKeyword(keyword string, limit int) ([]Article, error)
	GetArticleCount() (int, error)

	// StoreArticleEntries commits all entries in a single transaction.
	StoreArticleEntries(entries []ArticleEntry) error
}

type UserRepository interface {
	GetUser(id string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserCount() (int, error)
	GetActiveUsersWithDigest(digestType string) ([]User, error)
	GetActiveUsersWithInstantNotifications() ([]User, error)

	CreateUser(user User) error
	UpdatePreferences(user User) error

	GetUserInterests(userID string) ([]Category, error)
	SetUserInterests(userID string, categoryIDs []int) error
}

type SubscriptionRepository interface {
	GetSubscriptions(userID string) ([]UserSubscription, error)
	GetActiveKeywordSubscriptions(userID string) ([]UserSubscription, error)

	CreateSubscription(sub UserSubscription) (int, error)
	DeactivateSubscription(userID string, subscriptionID int) error
}

type DigestLogRepository interface {
	HasSentDigestSince(userID, digestType string, cutoff time.Time) (bool, error)
	GetDigestHistory(userID string, limit int) ([]DigestLog, error)

	InsertDigestLog(log DigestLog) error
	InsertNotificationLog(log NotificationLog) error
}
