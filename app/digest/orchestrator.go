package digest

import (
	"fmt"
	"log/slog"
	"time"

	"techdigest/app/categorize"
	"techdigest/app/database"
)

const (
	dailyDaysBack     = 1
	dailyMaxPerGroup  = 5
	weeklyDaysBack    = 7
	weeklyMaxPerGroup = 10

	// InstantScoreThreshold is the minimum relevance score a category match
	// needs before an article triggers instant notifications.
	InstantScoreThreshold = 7
)

// Sender renders and delivers digest and notification emails. Transport
// timeouts are the sender's responsibility.
type Sender interface {
	SendDigest(user database.User, groups []Group, digestType string) error
	SendInstantNotification(user database.User, article database.Article, categoryNames []string) error
}

// Orchestrator ties the gate, the selector, email delivery and delivery
// logging into the per-user and bulk send operations.
type Orchestrator struct {
	gate        *Gate
	selector    *Selector
	sender      Sender
	userRepo    database.UserRepository
	logRepo     database.DigestLogRepository
	categorizer *categorize.Categorizer
	cache       *categorize.CategoryCache
	now         func() time.Time
}

func NewOrchestrator(gate *Gate, selector *Selector, sender Sender,
	userRepo database.UserRepository, logRepo database.DigestLogRepository,
	categorizer *categorize.Categorizer, cache *categorize.CategoryCache) *Orchestrator {
	return &Orchestrator{
		gate:        gate,
		selector:    selector,
		sender:      sender,
		userRepo:    userRepo,
		logRepo:     logRepo,
		categorizer: categorizer,
		cache:       cache,
		now:         time.Now,
	}
}

// GenerateAndSend produces and delivers one digest for one user. It returns
// true only when the email transport reported success. A gated-off or empty
// selection is a silent no-op with no log row; an attempted send always
// appends exactly one DigestLog row, sent or failed.
func (o *Orchestrator) GenerateAndSend(user database.User, digestType string) (bool, error) {
	due, err := o.gate.ShouldSend(user, digestType)
	if err != nil {
		return false, err
	}
	if !due {
		return false, nil
	}

	daysBack, maxPerGroup := dailyDaysBack, dailyMaxPerGroup
	if digestType == TypeWeekly {
		daysBack, maxPerGroup = weeklyDaysBack, weeklyMaxPerGroup
	}

	groups, err := o.selector.Select(user, daysBack, maxPerGroup)
	if err != nil {
		return false, err
	}
	if len(groups) == 0 {
		slog.Debug("No articles for digest, skipping", "user_id", user.ID, "digest_type", digestType)
		return false, nil
	}

	sendErr := o.sender.SendDigest(user, groups, digestType)

	status := "sent"
	if sendErr != nil {
		status = "failed"
		slog.Error("Digest delivery failed", "user_id", user.ID, "digest_type", digestType, "error", sendErr)
	}

	entry := database.DigestLog{
		UserID:       user.ID,
		DigestType:   digestType,
		SentAt:       o.now(),
		ArticleCount: countArticles(groups),
		EmailStatus:  status,
	}
	if err := o.logRepo.InsertDigestLog(entry); err != nil {
		return sendErr == nil, fmt.Errorf("failed to record digest log for user %s: %w", user.ID, err)
	}

	return sendErr == nil, nil
}

// SendDailyDigests delivers daily digests to every eligible user, isolating
// per-user failures, and returns the number of successful sends.
func (o *Orchestrator) SendDailyDigests() (int, error) {
	return o.sendBulk(TypeDaily)
}

// SendWeeklyDigests is the weekly counterpart of SendDailyDigests.
func (o *Orchestrator) SendWeeklyDigests() (int, error) {
	return o.sendBulk(TypeWeekly)
}

func (o *Orchestrator) sendBulk(digestType string) (int, error) {
	users, err := o.userRepo.GetActiveUsersWithDigest(digestType)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s digest users: %w", digestType, err)
	}

	sent := 0
	for _, user := range users {
		delivered, err := o.GenerateAndSend(user, digestType)
		if err != nil {
			slog.Error("Digest generation failed", "user_id", user.ID, "digest_type", digestType, "error", err)
			continue
		}
		if delivered {
			sent++
		}
	}

	slog.Info("Bulk digest run completed", "digest_type", digestType, "users", len(users), "sent", sent)

	return sent, nil
}

// SendInstantNotifications notifies users about one freshly ingested article.
// The article must score at least InstantScoreThreshold in some category, and
// only users whose interests intersect the qualifying categories are
// notified. Returns the number of successful notifications.
func (o *Orchestrator) SendInstantNotifications(article database.Article) (int, error) {
	matches, err := o.categorizer.Categorize(article.Title, article.Summary, article.LLMSummary)
	if err != nil {
		return 0, err
	}

	qualifying := make(map[int]bool)
	var categoryNames []string
	for _, match := range matches {
		if match.Score < InstantScoreThreshold {
			continue
		}
		qualifying[match.CategoryID] = true
		if name, ok := o.cache.CategoryName(match.CategoryID); ok {
			categoryNames = append(categoryNames, name)
		}
	}
	if len(qualifying) == 0 {
		return 0, nil
	}

	users, err := o.userRepo.GetActiveUsersWithInstantNotifications()
	if err != nil {
		return 0, fmt.Errorf("failed to list instant notification users: %w", err)
	}

	sent := 0
	for _, user := range users {
		interests, err := o.userRepo.GetUserInterests(user.ID)
		if err != nil {
			slog.Error("Failed to load interests", "user_id", user.ID, "error", err)
			continue
		}

		interested := false
		for _, category := range interests {
			if qualifying[category.ID] {
				interested = true
				break
			}
		}
		if !interested {
			continue
		}

		sendErr := o.sender.SendInstantNotification(user, article, categoryNames)

		status := "sent"
		if sendErr != nil {
			status = "failed"
			slog.Error("Instant notification failed", "user_id", user.ID, "article_id", article.ID, "error", sendErr)
		} else {
			sent++
		}

		entry := database.NotificationLog{
			UserID:           user.ID,
			ArticleID:        article.ID,
			NotificationType: "instant",
			SentAt:           o.now(),
			Status:           status,
		}
		if err := o.logRepo.InsertNotificationLog(entry); err != nil {
			slog.Error("Failed to record notification log", "user_id", user.ID, "article_id", article.ID, "error", err)
		}
	}

	return sent, nil
}

func countArticles(groups []Group) int {
	total := 0
	for _, group := range groups {
		total += len(group.Articles)
	}
	return total
}
