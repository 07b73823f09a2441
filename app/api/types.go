package api

import (
	"context"

	"techdigest/app/categorize"
	"techdigest/app/chat"
	"techdigest/app/database"
	"techdigest/app/digest"
	"techdigest/app/sources"
)

type ChatServiceInterface interface {
	Answer(ctx context.Context, question string) (string, error)
}

var _ ChatServiceInterface = (*chat.Service)(nil)

type Handler struct {
	categoryRepo database.CategoryRepository
	articleRepo  database.ArticleRepository
	userRepo     database.UserRepository
	subRepo      database.SubscriptionRepository
	logRepo      database.DigestLogRepository
	cache        *categorize.CategoryCache
	selector     *digest.Selector
	orchestrator *digest.Orchestrator
	chatService  ChatServiceInterface
	configCache  *sources.ConfigCache
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type updatePreferencesRequest struct {
	DailyDigestEnabled   *bool   `json:"daily_digest_enabled"`
	WeeklyDigestEnabled  *bool   `json:"weekly_digest_enabled"`
	InstantNotifications *bool   `json:"instant_notifications"`
	DigestTime           *string `json:"digest_time"`
	TimeZone             *string `json:"timezone"`
}

type setInterestsRequest struct {
	CategoryIDs []int `json:"category_ids" binding:"required"`
}

type createSubscriptionRequest struct {
	SubscriptionType string   `json:"subscription_type" binding:"required,oneof=daily weekly instant"`
	CategoryID       *int     `json:"category_id"`
	Keywords         []string `json:"keywords"`
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}
