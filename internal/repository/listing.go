package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

type ListingRepository interface {
	Create(listing *model.Listing) error
	ByID(id string) (*model.Listing, error)
	BySlug(slug string) (*model.Listing, error)
	Update(listing *model.Listing) error
	SlugInUse(slug, excludeID string) (bool, error)
	DomainInUse(domain, excludeID string) (bool, error)
}

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *model.Listing) error {
	query := `INSERT INTO listings (id, user_id, slug, name, status, premium_type, publish_type,
	          is_packaged, app_domain, default_locale, description, privacy_policy, homepage,
	          support_url, support_email, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(query,
		listing.ID,
		listing.UserID,
		listing.Slug,
		listing.Name,
		listing.Status,
		listing.PremiumType,
		listing.PublishType,
		listing.IsPackaged,
		listing.AppDomain,
		listing.DefaultLocale,
		listing.Description,
		listing.PrivacyPolicy,
		listing.Homepage,
		listing.SupportURL,
		listing.SupportEmail,
		listing.CreatedAt,
		listing.UpdatedAt,
	)

	return err
}

func (r *listingRepository) ByID(id string) (*model.Listing, error) {
	listing := &model.Listing{}
	query := `SELECT * FROM listings WHERE id = $1`

	err := r.db.Get(listing, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrListingNotFound
	}

	return listing, err
}

func (r *listingRepository) BySlug(slug string) (*model.Listing, error) {
	listing := &model.Listing{}
	query := `SELECT * FROM listings WHERE slug = $1`

	err := r.db.Get(listing, query, slug)
	if err == sql.ErrNoRows {
		return nil, ErrListingNotFound
	}

	return listing, err
}

func (r *listingRepository) Update(listing *model.Listing) error {
	query := `UPDATE listings
	          SET slug = $1, name = $2, status = $3, premium_type = $4, publish_type = $5,
	              is_packaged = $6, app_domain = $7, default_locale = $8, description = $9,
	              privacy_policy = $10, homepage = $11, support_url = $12, support_email = $13,
	              updated_at = $14
	          WHERE id = $15`

	result, err := r.db.Exec(query,
		listing.Slug,
		listing.Name,
		listing.Status,
		listing.PremiumType,
		listing.PublishType,
		listing.IsPackaged,
		listing.AppDomain,
		listing.DefaultLocale,
		listing.Description,
		listing.PrivacyPolicy,
		listing.Homepage,
		listing.SupportURL,
		listing.SupportEmail,
		time.Now(),
		listing.ID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *listingRepository) SlugInUse(slug, excludeID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM listings WHERE slug = $1 AND id != $2`
	err := r.db.QueryRow(query, slug, excludeID).Scan(&count)
	return count > 0, err
}

func (r *listingRepository) DomainInUse(domain, excludeID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM listings WHERE app_domain = $1 AND app_domain != '' AND id != $2`
	err := r.db.QueryRow(query, domain, excludeID).Scan(&count)
	return count > 0, err
}
