package repository

import (
	"github.com/jmoiron/sqlx"
)

type BlockedSlugRepository interface {
	Blocked(slug string) (bool, error)
}

type blockedSlugRepository struct {
	db *sqlx.DB
}

func NewBlockedSlugRepository(db *sqlx.DB) BlockedSlugRepository {
	return &blockedSlugRepository{db: db}
}

func (r *blockedSlugRepository) Blocked(slug string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM blocked_slugs WHERE slug = LOWER($1)`
	err := r.db.QueryRow(query, slug).Scan(&count)
	return count > 0, err
}
