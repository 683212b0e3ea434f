package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hostelmart/internal/domain"
)

type NotificationRepo struct{ db *sqlx.DB }

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// insertNotification enqueues one record inside the caller's transaction so
// the event and its notification commit or roll back together.
func insertNotification(tx sqlx.Execer, recipientID, notifType, message string) error {
	_, err := tx.Exec(`
		INSERT INTO notifications(id, recipient_id, type, message)
		VALUES(?, ?, ?, ?)
	`, uuid.NewString(), recipientID, notifType, message)
	return err
}

func (r *NotificationRepo) Enqueue(recipientID, notifType, message string) error {
	return insertNotification(r.db, recipientID, notifType, message)
}

func (r *NotificationRepo) ListForUser(userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, recipient_id, type, message, read, created_at
	      FROM notifications WHERE recipient_id = ?`
	if unreadOnly {
		q += ` AND read = 0`
	}
	q += ` ORDER BY datetime(created_at) DESC LIMIT ?`
	var out []domain.Notification
	err := r.db.Select(&out, q, userID, limit)
	return out, err
}

// MarkRead flips one notification, scoped to its recipient.
func (r *NotificationRepo) MarkRead(id, userID string) error {
	_, err := r.db.Exec(`UPDATE notifications SET read = 1 WHERE id = ? AND recipient_id = ?`, id, userID)
	return err
}
