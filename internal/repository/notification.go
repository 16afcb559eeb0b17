package repository

import (
	"time"

	"github.com/appfair/marketplace/internal/model"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository interface {
	Upsert(userID, notification string, enabled bool) error
	ByUser(userID string) ([]*model.UserNotification, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Upsert(userID, notification string, enabled bool) error {
	query := `INSERT INTO user_notifications (user_id, notification, enabled, updated_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, notification) DO UPDATE SET enabled = $3, updated_at = $4`

	_, err := r.db.Exec(query, userID, notification, enabled, time.Now())
	return err
}

func (r *notificationRepository) ByUser(userID string) ([]*model.UserNotification, error) {
	var notifications []*model.UserNotification
	query := `SELECT * FROM user_notifications WHERE user_id = $1`

	err := r.db.Select(&notifications, query, userID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}
