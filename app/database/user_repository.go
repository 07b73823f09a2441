package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// UserRepo handles database operations for users and their interests
type UserRepo struct {
	db *DB
}

var _ UserRepository = (*UserRepo)(nil)

func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, hashed_password, COALESCE(full_name, ''), is_active,
	daily_digest_enabled, weekly_digest_enabled, instant_notifications,
	digest_time, time_zone, created_at`

func scanUser(scanner interface{ Scan(...interface{}) error }) (User, error) {
	var u User
	err := scanner.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.IsActive,
		&u.DailyDigestEnabled, &u.WeeklyDigestEnabled, &u.InstantNotifications,
		&u.DigestTime, &u.TimeZone, &u.CreatedAt)
	return u, err
}

func (r *UserRepo) GetUser(id string) (*User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetUserByEmail(email string) (*User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetUserCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// GetActiveUsersWithDigest returns active users with the daily or weekly
// digest preference enabled.
func (r *UserRepo) GetActiveUsersWithDigest(digestType string) ([]User, error) {
	var column string
	switch digestType {
	case "daily":
		column = "daily_digest_enabled"
	case "weekly":
		column = "weekly_digest_enabled"
	default:
		return nil, fmt.Errorf("unknown digest type: %s", digestType)
	}

	rows, err := r.db.Query(`
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND ` + column + ` = TRUE
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with %s digest: %w", digestType, err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepo) GetActiveUsersWithInstantNotifications() ([]User, error) {
	rows, err := r.db.Query(`
		SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE AND instant_notifications = TRUE
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get users with instant notifications: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepo) CreateUser(user User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, email, hashed_password, full_name, is_active,
			daily_digest_enabled, weekly_digest_enabled, instant_notifications,
			digest_time, time_zone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Email, user.HashedPassword, user.FullName, user.IsActive,
		user.DailyDigestEnabled, user.WeeklyDigestEnabled, user.InstantNotifications,
		user.DigestTime, user.TimeZone)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) UpdatePreferences(user User) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET daily_digest_enabled = $2,
		    weekly_digest_enabled = $3,
		    instant_notifications = $4,
		    digest_time = $5,
		    time_zone = $6
		WHERE id = $1
	`, user.ID, user.DailyDigestEnabled, user.WeeklyDigestEnabled,
		user.InstantNotifications, user.DigestTime, user.TimeZone)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s not found", user.ID)
	}

	return nil
}

// GetUserInterests returns the user's interest categories in declaration
// order (category id).
func (r *UserRepo) GetUserInterests(userID string) ([]Category, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.name, COALESCE(c.description, ''), COALESCE(c.keywords, '{}')
		FROM categories c
		JOIN user_interests ui ON ui.category_id = c.id
		WHERE ui.user_id = $1
		ORDER BY c.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user interests: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, pq.Array(&c.Keywords)); err != nil {
			return nil, fmt.Errorf("failed to scan interest row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interest rows: %w", err)
	}

	return categories, nil
}

// SetUserInterests replaces the user's interest set in one transaction.
func (r *UserRepo) SetUserInterests(userID string, categoryIDs []int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_interests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear user interests: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err := tx.Exec(`
			INSERT INTO user_interests (user_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, categoryID)
		if err != nil {
			return fmt.Errorf("failed to add interest %d: %w", categoryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit interests: %w", err)
	}

	return nil
}

func collectUsers(rows *sql.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}
