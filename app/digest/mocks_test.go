package digest

import (
	"strings"
	"time"

	"techdigest/app/database"
)

// MockCategoryRepository implements database.CategoryRepository for testing
type MockCategoryRepository struct {
	categories []database.Category
}

func (m *MockCategoryRepository) GetCategories() ([]database.Category, error) {
	return m.categories, nil
}

func (m *MockCategoryRepository) GetCategory(id int) (*database.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) GetCategoryByName(name string) (*database.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

// MockArticleRepository implements database.ArticleRepository for testing.
// byCategory maps category id to its associated articles, best first.
type MockArticleRepository struct {
	byCategory map[int][]database.Article
	articles   []database.Article
}

func (m *MockArticleRepository) GetArticle(id string) (*database.Article, error) {
	for _, a := range m.articles {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) GetRecentArticles(limit int) ([]database.Article, error) {
	if len(m.articles) > limit {
		return m.articles[:limit], nil
	}
	return m.articles, nil
}

func (m *MockArticleRepository) GetArticlesByCategory(categoryID int, since time.Time, limit int) ([]database.Article, error) {
	var found []database.Article
	for _, a := range m.byCategory[categoryID] {
		if a.CreatedAt.Before(since) {
			continue
		}
		found = append(found, a)
		if len(found) == limit {
			break
		}
	}
	return found, nil
}

func (m *MockArticleRepository) SearchArticlesByKeyword(keyword string, limit int) ([]database.Article, error) {
	var found []database.Article
	for _, a := range m.articles {
		text := strings.ToLower(a.Title + " " + a.Summary + " " + a.LLMSummary)
		if strings.Contains(text, strings.ToLower(keyword)) {
			found = append(found, a)
		}
		if len(found) == limit {
			break
		}
	}
	return found, nil
}

func (m *MockArticleRepository) GetArticleCount() (int, error) {
	return len(m.articles), nil
}

func (m *MockArticleRepository) StoreArticleEntries(entries []database.ArticleEntry) error {
	for _, e := range entries {
		m.articles = append(m.articles, e.Article)
	}
	return nil
}

// MockUserRepository implements database.UserRepository for testing
type MockUserRepository struct {
	users     []database.User
	interests map[string][]database.Category
}

func (m *MockUserRepository) GetUser(id string) (*database.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetUserByEmail(email string) (*database.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) GetUserCount() (int, error) {
	return len(m.users), nil
}

func (m *MockUserRepository) GetActiveUsersWithDigest(digestType string) ([]database.User, error) {
	var found []database.User
	for _, u := range m.users {
		if !u.IsActive {
			continue
		}
		if digestType == TypeDaily && u.DailyDigestEnabled || digestType == TypeWeekly && u.WeeklyDigestEnabled {
			found = append(found, u)
		}
	}
	return found, nil
}

func (m *MockUserRepository) GetActiveUsersWithInstantNotifications() ([]database.User, error) {
	var found []database.User
	for _, u := range m.users {
		if u.IsActive && u.InstantNotifications {
			found = append(found, u)
		}
	}
	return found, nil
}

func (m *MockUserRepository) CreateUser(user database.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *MockUserRepository) UpdatePreferences(user database.User) error {
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = user
			return nil
		}
	}
	return nil
}

func (m *MockUserRepository) GetUserInterests(userID string) ([]database.Category, error) {
	return m.interests[userID], nil
}

func (m *MockUserRepository) SetUserInterests(userID string, categoryIDs []int) error {
	return nil
}

// MockSubscriptionRepository implements database.SubscriptionRepository for testing
type MockSubscriptionRepository struct {
	subscriptions []database.UserSubscription
}

func (m *MockSubscriptionRepository) GetSubscriptions(userID string) ([]database.UserSubscription, error) {
	var found []database.UserSubscription
	for _, s := range m.subscriptions {
		if s.UserID == userID {
			found = append(found, s)
		}
	}
	return found, nil
}

func (m *MockSubscriptionRepository) GetActiveKeywordSubscriptions(userID string) ([]database.UserSubscription, error) {
	var found []database.UserSubscription
	for _, s := range m.subscriptions {
		if s.UserID == userID && s.IsActive && len(s.Keywords) > 0 {
			found = append(found, s)
		}
	}
	return found, nil
}

func (m *MockSubscriptionRepository) CreateSubscription(sub database.UserSubscription) (int, error) {
	m.subscriptions = append(m.subscriptions, sub)
	return len(m.subscriptions), nil
}

func (m *MockSubscriptionRepository) DeactivateSubscription(userID string, subscriptionID int) error {
	return nil
}

// MockDigestLogRepository implements database.DigestLogRepository for testing
type MockDigestLogRepository struct {
	digestLogs       []database.DigestLog
	notificationLogs []database.NotificationLog
}

func (m *MockDigestLogRepository) HasSentDigestSince(userID, digestType string, cutoff time.Time) (bool, error) {
	for _, l := range m.digestLogs {
		if l.UserID == userID && l.DigestType == digestType && l.EmailStatus == "sent" && !l.SentAt.Before(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockDigestLogRepository) GetDigestHistory(userID string, limit int) ([]database.DigestLog, error) {
	var found []database.DigestLog
	for _, l := range m.digestLogs {
		if l.UserID == userID {
			found = append(found, l)
		}
		if len(found) == limit {
			break
		}
	}
	return found, nil
}

func (m *MockDigestLogRepository) InsertDigestLog(log database.DigestLog) error {
	m.digestLogs = append(m.digestLogs, log)
	return nil
}

func (m *MockDigestLogRepository) InsertNotificationLog(log database.NotificationLog) error {
	m.notificationLogs = append(m.notificationLogs, log)
	return nil
}

// MockSender implements Sender for testing
type MockSender struct {
	digests       []sentDigest
	notifications []sentNotification
	err           error
}

type sentDigest struct {
	userID     string
	digestType string
	groups     []Group
}

type sentNotification struct {
	userID    string
	articleID string
}

func (m *MockSender) SendDigest(user database.User, groups []Group, digestType string) error {
	if m.err != nil {
		return m.err
	}
	m.digests = append(m.digests, sentDigest{userID: user.ID, digestType: digestType, groups: groups})
	return nil
}

func (m *MockSender) SendInstantNotification(user database.User, article database.Article, categoryNames []string) error {
	if m.err != nil {
		return m.err
	}
	m.notifications = append(m.notifications, sentNotification{userID: user.ID, articleID: article.ID})
	return nil
}
