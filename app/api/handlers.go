package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"techdigest/app/categorize"
	"techdigest/app/database"
	"techdigest/app/digest"
	"techdigest/app/sources"
)

func NewHandler(categoryRepo database.CategoryRepository, articleRepo database.ArticleRepository,
	userRepo database.UserRepository, subRepo database.SubscriptionRepository,
	logRepo database.DigestLogRepository, cache *categorize.CategoryCache,
	selector *digest.Selector, orchestrator *digest.Orchestrator,
	chatService ChatServiceInterface, configCache *sources.ConfigCache) *Handler {
	return &Handler{
		categoryRepo: categoryRepo,
		articleRepo:  articleRepo,
		userRepo:     userRepo,
		subRepo:      subRepo,
		logRepo:      logRepo,
		cache:        cache,
		selector:     selector,
		orchestrator: orchestrator,
		chatService:  chatService,
		configCache:  configCache,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	health["categories"] = h.cache.Count()
	health["loaded_sources"] = h.configCache.GetSourceCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		stats["articles"] = articleCount
	}
	if userCount, err := h.userRepo.GetUserCount(); err == nil {
		stats["users"] = userCount
	}

	stats["categories"] = h.cache.Count()
	stats["sources"] = h.configCache.GetSourceCount()
	stats["enabled_sources"] = len(h.configCache.GetEnabledSources())

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categoryRepo.GetCategories()
	if err != nil {
		slog.Error("Database error", "operation", "get_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(categories))
	for _, category := range categories {
		result = append(result, map[string]interface{}{
			"id":          category.ID,
			"name":        category.Name,
			"description": category.Description,
			"keywords":    category.Keywords,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": result, "total": len(result)})
}

func (h *Handler) ListArticles(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	var articles []database.Article

	if categoryParam := c.Query("category_id"); categoryParam != "" {
		categoryID, err := strconv.Atoi(categoryParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}

		days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
		if err != nil || days < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
			return
		}

		since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
		articles, err = h.articleRepo.GetArticlesByCategory(categoryID, since, limit)
		if err != nil {
			slog.Error("Database error", "operation", "get_articles_by_category", "category_id", categoryID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	} else {
		articles, err = h.articleRepo.GetRecentArticles(limit)
		if err != nil {
			slog.Error("Database error", "operation", "get_recent_articles", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"articles": articlesResponse(articles), "total": len(articles)})
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer, err := h.chatService.Answer(c.Request.Context(), req.Question)
	if err != nil {
		slog.Error("Chat request failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		slog.Error("Database error", "operation", "get_user_by_email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Password hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := database.User{
		ID:                 uuid.NewString(),
		Email:              req.Email,
		HashedPassword:     string(hashed),
		FullName:           req.FullName,
		IsActive:           true,
		DailyDigestEnabled: true,
		DigestTime:         "09:00",
		TimeZone:           "UTC",
	}

	if err := h.userRepo.CreateUser(user); err != nil {
		slog.Error("Database error", "operation", "create_user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, preferencesResponse(*user))
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DailyDigestEnabled != nil {
		user.DailyDigestEnabled = *req.DailyDigestEnabled
	}
	if req.WeeklyDigestEnabled != nil {
		user.WeeklyDigestEnabled = *req.WeeklyDigestEnabled
	}
	if req.InstantNotifications != nil {
		user.InstantNotifications = *req.InstantNotifications
	}
	if req.DigestTime != nil {
		if _, err := time.Parse("15:04", *req.DigestTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "digest_time must be HH:MM"})
			return
		}
		user.DigestTime = *req.DigestTime
	}
	if req.TimeZone != nil {
		if _, err := time.LoadLocation(*req.TimeZone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone"})
			return
		}
		user.TimeZone = *req.TimeZone
	}

	if err := h.userRepo.UpdatePreferences(*user); err != nil {
		slog.Error("Database error", "operation", "update_preferences", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, preferencesResponse(*user))
}

func (h *Handler) GetInterests(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	interests, err := h.userRepo.GetUserInterests(user.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_user_interests", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(interests))
	for _, category := range interests {
		result = append(result, map[string]interface{}{"id": category.ID, "name": category.Name})
	}

	c.JSON(http.StatusOK, gin.H{"interests": result})
}

func (h *Handler) SetInterests(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	var req setInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, categoryID := range req.CategoryIDs {
		category, err := h.categoryRepo.GetCategory(categoryID)
		if err != nil {
			slog.Error("Database error", "operation", "get_category", "category_id", categoryID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if category == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category id " + strconv.Itoa(categoryID)})
			return
		}
	}

	if err := h.userRepo.SetUserInterests(user.ID, req.CategoryIDs); err != nil {
		slog.Error("Database error", "operation", "set_user_interests", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"interests": req.CategoryIDs})
}

func (h *Handler) ListSubscriptions(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	subscriptions, err := h.subRepo.GetSubscriptions(user.ID)
	if err != nil {
		slog.Error("Database error", "operation", "get_subscriptions", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(subscriptions))
	for _, sub := range subscriptions {
		result = append(result, map[string]interface{}{
			"id":                sub.ID,
			"subscription_type": sub.SubscriptionType,
			"category_id":       sub.CategoryID,
			"keywords":          sub.Keywords,
			"is_active":         sub.IsActive,
		})
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": result})
}

func (h *Handler) CreateSubscription(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CategoryID == nil && len(req.Keywords) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either category_id or keywords is required"})
		return
	}

	sub := database.UserSubscription{
		UserID:           user.ID,
		SubscriptionType: req.SubscriptionType,
		CategoryID:       req.CategoryID,
		Keywords:         req.Keywords,
		IsActive:         true,
	}

	id, err := h.subRepo.CreateSubscription(sub)
	if err != nil {
		slog.Error("Database error", "operation", "create_subscription", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) DeactivateSubscription(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	subscriptionID, err := strconv.Atoi(c.Param("subscriptionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	if err := h.subRepo.DeactivateSubscription(user.ID, subscriptionID); err != nil {
		slog.Error("Database error", "operation", "deactivate_subscription", "user_id", user.ID, "subscription_id", subscriptionID, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": subscriptionID, "is_active": false})
}

func (h *Handler) PreviewDigest(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	digestType := c.DefaultQuery("type", digest.TypeDaily)
	daysBack, maxPerGroup := 1, 5
	switch digestType {
	case digest.TypeDaily:
	case digest.TypeWeekly:
		daysBack, maxPerGroup = 7, 10
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be daily or weekly"})
		return
	}

	groups, err := h.selector.Select(*user, daysBack, maxPerGroup)
	if err != nil {
		slog.Error("Digest preview failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build digest preview"})
		return
	}

	result := make([]map[string]interface{}, 0, len(groups))
	for _, group := range groups {
		result = append(result, map[string]interface{}{
			"label":    group.Label,
			"articles": articlesResponse(group.Articles),
		})
	}

	c.JSON(http.StatusOK, gin.H{"digest_type": digestType, "groups": result})
}

func (h *Handler) SendDigest(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	digestType := c.DefaultQuery("type", digest.TypeDaily)
	if digestType != digest.TypeDaily && digestType != digest.TypeWeekly {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be daily or weekly"})
		return
	}

	delivered, err := h.orchestrator.GenerateAndSend(*user, digestType)
	if err != nil {
		slog.Error("Digest send failed", "user_id", user.ID, "digest_type", digestType, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send digest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"digest_type": digestType, "delivered": delivered})
}

func (h *Handler) GetDigestHistory(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	history, err := h.logRepo.GetDigestHistory(user.ID, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_digest_history", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]map[string]interface{}, 0, len(history))
	for _, entry := range history {
		result = append(result, map[string]interface{}{
			"digest_type":   entry.DigestType,
			"sent_at":       entry.SentAt.Format(time.RFC3339),
			"article_count": entry.ArticleCount,
			"status":        entry.EmailStatus,
		})
	}

	c.JSON(http.StatusOK, gin.H{"history": result})
}

// lookupUser resolves the :id path parameter to a user, writing the error
// response itself when the user cannot be found.
func (h *Handler) lookupUser(c *gin.Context) (*database.User, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user id"})
		return nil, false
	}

	user, err := h.userRepo.GetUser(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_user", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}

	return user, true
}

func preferencesResponse(user database.User) gin.H {
	return gin.H{
		"id":                    user.ID,
		"email":                 user.Email,
		"daily_digest_enabled":  user.DailyDigestEnabled,
		"weekly_digest_enabled": user.WeeklyDigestEnabled,
		"instant_notifications": user.InstantNotifications,
		"digest_time":           user.DigestTime,
		"timezone":              user.TimeZone,
	}
}

func articlesResponse(articles []database.Article) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(articles))
	for _, article := range articles {
		result = append(result, map[string]interface{}{
			"id":          article.ID,
			"title":       article.Title,
			"link":        article.Link,
			"summary":     article.Summary,
			"llm_summary": article.LLMSummary,
			"published":   article.Published,
			"image_url":   article.ImageURL,
			"created_at":  article.CreatedAt.Format(time.RFC3339),
		})
	}
	return result
}
