package repository

import (
	"time"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

type DeviceRepository interface {
	DeviceTypes(listingID string) ([]model.DeviceType, error)
	Add(listingID string, deviceType model.DeviceType) error
	Remove(listingID string, deviceType model.DeviceType) error
}

type deviceRepository struct {
	db *sqlx.DB
}

func NewDeviceRepository(db *sqlx.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) DeviceTypes(listingID string) ([]model.DeviceType, error) {
	var types []model.DeviceType
	query := `SELECT device_type FROM listing_devices WHERE listing_id = $1 ORDER BY device_type`

	err := r.db.Select(&types, query, listingID)
	if err != nil {
		return nil, err
	}

	return types, nil
}

func (r *deviceRepository) Add(listingID string, deviceType model.DeviceType) error {
	query := `INSERT INTO listing_devices (listing_id, device_type, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(query, listingID, deviceType, time.Now())
	return err
}

func (r *deviceRepository) Remove(listingID string, deviceType model.DeviceType) error {
	query := `DELETE FROM listing_devices WHERE listing_id = $1 AND device_type = $2`
	_, err := r.db.Exec(query, listingID, deviceType)
	return err
}
