package model

import (
	"time"
)

const (
	RereviewReasonDevicesAdded    = "devices-added"
	RereviewReasonFeaturesChanged = "features-changed"
	RereviewReasonManifestChanged = "manifest-changed"
)

// RereviewEntry is an append-only record sending an approved listing back
// through human review after a post-approval change.
type RereviewEntry struct {
	ID        string    `db:"id"`
	ListingID string    `db:"listing_id"`
	Reason    string    `db:"reason"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
