package repository

import (
	"database/sql"
	"errors"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUploadNotFound = errors.New("upload not found")
)

type UploadRepository interface {
	Create(upload *model.Upload) error
	// Valid returns the upload only if it passed validation and has not been
	// consumed by an earlier submission.
	Valid(id string) (*model.Upload, error)
	Consume(id string) error
}

type uploadRepository struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(upload *model.Upload) error {
	query := `INSERT INTO uploads (id, user_id, name, path, valid, consumed, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		upload.ID,
		upload.UserID,
		upload.Name,
		upload.Path,
		upload.Valid,
		upload.Consumed,
		upload.CreatedAt,
	)

	return err
}

func (r *uploadRepository) Valid(id string) (*model.Upload, error) {
	upload := &model.Upload{}
	query := `SELECT * FROM uploads WHERE id = $1 AND valid = $2 AND consumed = $3`

	err := r.db.Get(upload, query, id, true, false)
	if err == sql.ErrNoRows {
		return nil, ErrUploadNotFound
	}

	return upload, err
}

func (r *uploadRepository) Consume(id string) error {
	query := `UPDATE uploads SET consumed = $1 WHERE id = $2 AND consumed = $3`

	result, err := r.db.Exec(query, true, id, false)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUploadNotFound
	}

	return nil
}
