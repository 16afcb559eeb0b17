package repository

import (
	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

type NoteRepository interface {
	Create(note *model.ReviewNote) error
	ByListing(listingID string) ([]*model.ReviewNote, error)
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *model.ReviewNote) error {
	query := `INSERT INTO review_notes (id, listing_id, version_id, user_id, note_type, body, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		note.ID,
		note.ListingID,
		note.VersionID,
		note.UserID,
		note.NoteType,
		note.Body,
		note.CreatedAt,
	)

	return err
}

func (r *noteRepository) ByListing(listingID string) ([]*model.ReviewNote, error) {
	var notes []*model.ReviewNote
	query := `SELECT * FROM review_notes WHERE listing_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&notes, query, listingID)
	if err != nil {
		return nil, err
	}

	return notes, nil
}
