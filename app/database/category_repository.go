package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// CategoryRepo handles database operations for categories
type CategoryRepo struct {
	db *DB
}

var _ CategoryRepository = (*CategoryRepo)(nil)

func NewCategoryRepository(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// GetCategories returns all categories ordered by id, which is their
// declaration order and the tie-break order used by the categorizer.
func (r *CategoryRepo) GetCategories() ([]Category, error) {
	rows, err := r.db.Query(`
		SELECT id, name, COALESCE(description, ''), COALESCE(keywords, '{}')
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, pq.Array(&c.Keywords)); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) GetCategory(id int) (*Category, error) {
	var c Category
	err := r.db.QueryRow(`
		SELECT id, name, COALESCE(description, ''), COALESCE(keywords, '{}')
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, pq.Array(&c.Keywords))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) GetCategoryByName(name string) (*Category, error) {
	var c Category
	err := r.db.QueryRow(`
		SELECT id, name, COALESCE(description, ''), COALESCE(keywords, '{}')
		FROM categories
		WHERE name = $1
	`, name).Scan(&c.ID, &c.Name, &c.Description, pq.Array(&c.Keywords))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &c, nil
}
