package model

import (
	"time"
)

type User struct {
	ID               string     `db:"id"`
	Email            string     `db:"email"`
	DisplayName      string     `db:"display_name"`
	Region           string     `db:"region"`
	Locale           string     `db:"locale"`
	ReadDevAgreement *time.Time `db:"read_dev_agreement"` // Nullable until accepted
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// HasAcceptedAgreement reports whether the developer agreement was accepted.
func (u *User) HasAcceptedAgreement() bool {
	return u.ReadDevAgreement != nil
}
