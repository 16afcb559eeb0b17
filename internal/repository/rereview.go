package repository

import (
	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

type RereviewRepository interface {
	Create(entry *model.RereviewEntry) error
	ByListing(listingID string) ([]*model.RereviewEntry, error)
}

type rereviewRepository struct {
	db *sqlx.DB
}

func NewRereviewRepository(db *sqlx.DB) RereviewRepository {
	return &rereviewRepository{db: db}
}

func (r *rereviewRepository) Create(entry *model.RereviewEntry) error {
	query := `INSERT INTO rereview_queue (id, listing_id, reason, message, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.ListingID,
		entry.Reason,
		entry.Message,
		entry.CreatedAt,
	)

	return err
}

func (r *rereviewRepository) ByListing(listingID string) ([]*model.RereviewEntry, error) {
	var entries []*model.RereviewEntry
	query := `SELECT * FROM rereview_queue WHERE listing_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&entries, query, listingID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
