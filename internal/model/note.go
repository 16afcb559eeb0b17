package model

import (
	"time"
)

const (
	NoteTypeSubmission = "submission"
	NoteTypeReviewer   = "reviewer"
	NoteTypeDeveloper  = "developer"
)

// ReviewNote is a communication-log entry between a developer and reviewers,
// attached to a specific version of a listing.
type ReviewNote struct {
	ID        string    `db:"id"`
	ListingID string    `db:"listing_id"`
	VersionID string    `db:"version_id"`
	UserID    string    `db:"user_id"`
	NoteType  string    `db:"note_type"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
