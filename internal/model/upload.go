package model

import (
	"time"
)

// Upload is a transient validated file reference. It is created when a
// developer uploads a package (or names a hosted manifest URL) and consumed
// once by a successful version submission.
type Upload struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"` // filename, or the manifest URL for hosted apps
	Path      string    `db:"path"` // storage key of the package archive
	Valid     bool      `db:"valid"`
	Consumed  bool      `db:"consumed"`
	CreatedAt time.Time `db:"created_at"`
}
