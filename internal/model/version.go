package model

import (
	"time"
)

type Version struct {
	ID          string    `db:"id"`
	ListingID   string    `db:"listing_id"`
	Version     string    `db:"version"`
	PackagePath string    `db:"package_path"`
	UsesFlash   bool      `db:"uses_flash"`
	CreatedAt   time.Time `db:"created_at"`
}
