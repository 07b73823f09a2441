package database

import (
	"fmt"
	"time"
)

// DigestLogRepo handles database operations for digest and notification logs
type DigestLogRepo struct {
	db *DB
}

var _ DigestLogRepository = (*DigestLogRepo)(nil)

func NewDigestLogRepository(db *DB) *DigestLogRepo {
	return &DigestLogRepo{db: db}
}

// HasSentDigestSince reports whether a digest of the given type was
// successfully sent to the user at or after the cutoff. Only rows with
// status "sent" count; failed attempts do not block a retry.
func (r *DigestLogRepo) HasSentDigestSince(userID, digestType string, cutoff time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM digest_logs
			WHERE user_id = $1
			  AND digest_type = $2
			  AND email_status = 'sent'
			  AND sent_at >= $3
		)
	`, userID, digestType, cutoff).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check digest history: %w", err)
	}
	return exists, nil
}

func (r *DigestLogRepo) GetDigestHistory(userID string, limit int) ([]DigestLog, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, digest_type, sent_at, article_count, email_status
		FROM digest_logs
		WHERE user_id = $1
		ORDER BY sent_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get digest history: %w", err)
	}
	defer rows.Close()

	var logs []DigestLog
	for rows.Next() {
		var l DigestLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.DigestType, &l.SentAt, &l.ArticleCount, &l.EmailStatus); err != nil {
			return nil, fmt.Errorf("failed to scan digest log row: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating digest log rows: %w", err)
	}

	return logs, nil
}

func (r *DigestLogRepo) InsertDigestLog(log DigestLog) error {
	_, err := r.db.Exec(`
		INSERT INTO digest_logs (user_id, digest_type, article_count, email_status)
		VALUES ($1, $2, $3, $4)
	`, log.UserID, log.DigestType, log.ArticleCount, log.EmailStatus)
	if err != nil {
		return fmt.Errorf("failed to insert digest log: %w", err)
	}
	return nil
}

func (r *DigestLogRepo) InsertNotificationLog(log NotificationLog) error {
	_, err := r.db.Exec(`
		INSERT INTO notification_logs (user_id, article_id, notification_type, status)
		VALUES ($1, $2, $3, $4)
	`, log.UserID, log.ArticleID, log.NotificationType, log.Status)
	if err != nil {
		return fmt.Errorf("failed to insert notification log: %w", err)
	}
	return nil
}
