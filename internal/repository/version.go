package repository

import (
	"database/sql"
	"errors"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrVersionNotFound = errors.New("version not found")
)

type VersionRepository interface {
	Create(version *model.Version) error
	ByID(id string) (*model.Version, error)
	Latest(listingID string) (*model.Version, error)
	Exists(listingID, version string) (bool, error)
	SetUsesFlash(versionID string, usesFlash bool) error
}

type versionRepository struct {
	db *sqlx.DB
}

func NewVersionRepository(db *sqlx.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *model.Version) error {
	query := `INSERT INTO versions (id, listing_id, version, package_path, uses_flash, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		version.ID,
		version.ListingID,
		version.Version,
		version.PackagePath,
		version.UsesFlash,
		version.CreatedAt,
	)

	return err
}

func (r *versionRepository) ByID(id string) (*model.Version, error) {
	version := &model.Version{}
	query := `SELECT * FROM versions WHERE id = $1`

	err := r.db.Get(version, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrVersionNotFound
	}

	return version, err
}

func (r *versionRepository) Latest(listingID string) (*model.Version, error) {
	version := &model.Version{}
	query := `SELECT * FROM versions WHERE listing_id = $1 ORDER BY created_at DESC LIMIT 1`

	err := r.db.Get(version, query, listingID)
	if err == sql.ErrNoRows {
		return nil, ErrVersionNotFound
	}

	return version, err
}

func (r *versionRepository) Exists(listingID, version string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM versions WHERE listing_id = $1 AND version = $2`
	err := r.db.QueryRow(query, listingID, version).Scan(&count)
	return count > 0, err
}

func (r *versionRepository) SetUsesFlash(versionID string, usesFlash bool) error {
	query := `UPDATE versions SET uses_flash = $1 WHERE id = $2`

	result, err := r.db.Exec(query, usesFlash, versionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrVersionNotFound
	}

	return nil
}
