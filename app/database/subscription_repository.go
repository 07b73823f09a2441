package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// SubscriptionRepo handles database operations for user subscriptions
type SubscriptionRepo struct {
	db *DB
}

var _ SubscriptionRepository = (*SubscriptionRepo)(nil)

func NewSubscriptionRepository(db *DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

const subscriptionColumns = `id, user_id, subscription_type, category_id,
	COALESCE(keywords, '{}'), is_active, created_at`

func scanSubscription(scanner interface{ Scan(...interface{}) error }) (UserSubscription, error) {
	var s UserSubscription
	var categoryID sql.NullInt64
	err := scanner.Scan(&s.ID, &s.UserID, &s.SubscriptionType, &categoryID,
		pq.Array(&s.Keywords), &s.IsActive, &s.CreatedAt)
	if categoryID.Valid {
		id := int(categoryID.Int64)
		s.CategoryID = &id
	}
	return s, err
}

func (r *SubscriptionRepo) GetSubscriptions(userID string) ([]UserSubscription, error) {
	rows, err := r.db.Query(`
		SELECT `+subscriptionColumns+`
		FROM user_subscriptions
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// GetActiveKeywordSubscriptions returns the user's active custom keyword
// subscriptions, i.e. rows carrying a non-empty keyword list.
func (r *SubscriptionRepo) GetActiveKeywordSubscriptions(userID string) ([]UserSubscription, error) {
	rows, err := r.db.Query(`
		SELECT `+subscriptionColumns+`
		FROM user_subscriptions
		WHERE user_id = $1
		  AND is_active = TRUE
		  AND keywords IS NOT NULL
		  AND array_length(keywords, 1) > 0
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

func (r *SubscriptionRepo) CreateSubscription(sub UserSubscription) (int, error) {
	var categoryID sql.NullInt64
	if sub.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: int64(*sub.CategoryID), Valid: true}
	}

	var id int
	err := r.db.QueryRow(`
		INSERT INTO user_subscriptions (user_id, subscription_type, category_id, keywords, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, sub.UserID, sub.SubscriptionType, categoryID, pq.Array(sub.Keywords), sub.IsActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create subscription: %w", err)
	}

	return id, nil
}

func (r *SubscriptionRepo) DeactivateSubscription(userID string, subscriptionID int) error {
	result, err := r.db.Exec(`
		UPDATE user_subscriptions
		SET is_active = FALSE
		WHERE id = $1 AND user_id = $2
	`, subscriptionID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("subscription %d not found for user %s", subscriptionID, userID)
	}

	return nil
}

func collectSubscriptions(rows *sql.Rows) ([]UserSubscription, error) {
	var subs []UserSubscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}

	return subs, nil
}
