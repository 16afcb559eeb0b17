package model

import (
	"time"
)

// NotificationAppSurveys is the opt-in channel for developer newsletter and
// survey mail around app submission.
const NotificationAppSurveys = "app-surveys"

// UserNotification is a per-user opt-in record for a named notification
// channel.
type UserNotification struct {
	UserID       string    `db:"user_id"`
	Notification string    `db:"notification"`
	Enabled      bool      `db:"enabled"`
	UpdatedAt    time.Time `db:"updated_at"`
}
