package model

import (
	"time"
)

const (
	StatusIncomplete = "incomplete"
	StatusPending    = "pending"
	StatusPublic     = "public"
	StatusApproved   = "approved" // approved but held private
	StatusRejected   = "rejected"
	StatusDisabled   = "disabled"
)

const (
	PremiumTypeFree    = "free"
	PremiumTypePremium = "premium"
)

const (
	PublishImmediate = "immediate"
	PublishPrivate   = "private"
)

type Listing struct {
	ID            string           `db:"id"`
	UserID        string           `db:"user_id"`
	Slug          string           `db:"slug"`
	Name          string           `db:"name"`
	Status        string           `db:"status"`
	PremiumType   string           `db:"premium_type"`
	PublishType   string           `db:"publish_type"`
	IsPackaged    bool             `db:"is_packaged"`
	AppDomain     string           `db:"app_domain"`
	DefaultLocale string           `db:"default_locale"`
	Description   TranslatedString `db:"description"`
	PrivacyPolicy TranslatedString `db:"privacy_policy"`
	Homepage      TranslatedString `db:"homepage"`
	SupportURL    TranslatedString `db:"support_url"`
	SupportEmail  TranslatedString `db:"support_email"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// IsApproved reports whether the listing has passed review. Post-approval
// changes to devices or required features send it back through re-review.
func (l *Listing) IsApproved() bool {
	return l.Status == StatusPublic || l.Status == StatusApproved
}
