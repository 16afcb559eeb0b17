package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFeatureProfileNotFound = errors.New("feature profile not found")
)

type FeatureRepository interface {
	ByVersionID(versionID string) (*model.FeatureProfile, error)
	Create(profile *model.FeatureProfile) error
	Update(profile *model.FeatureProfile) error
}

type featureRepository struct {
	db *sqlx.DB
}

func NewFeatureRepository(db *sqlx.DB) FeatureRepository {
	return &featureRepository{db: db}
}

func (r *featureRepository) ByVersionID(versionID string) (*model.FeatureProfile, error) {
	profile := &model.FeatureProfile{}
	query := `SELECT * FROM feature_profiles WHERE version_id = $1`

	err := r.db.Get(profile, query, versionID)
	if err == sql.ErrNoRows {
		return nil, ErrFeatureProfileNotFound
	}

	return profile, err
}

func (r *featureRepository) Create(profile *model.FeatureProfile) error {
	query := `INSERT INTO feature_profiles (id, version_id, features, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		profile.ID,
		profile.VersionID,
		profile.Features,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (r *featureRepository) Update(profile *model.FeatureProfile) error {
	query := `UPDATE feature_profiles SET features = $1, updated_at = $2 WHERE version_id = $3`

	result, err := r.db.Exec(query, profile.Features, time.Now(), profile.VersionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFeatureProfileNotFound
	}

	return nil
}
