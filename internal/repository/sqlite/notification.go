package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/google/uuid"
)

func (r *SQLiteRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Created = now()

	_, err := r.q.ExecContext(ctx, `INSERT INTO notifications (id, user_id, title, message, type, related_id, is_read, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.IsRead, n.Created)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// ListNotifications returns the user's notifications, newest first. A non-nil
// isRead narrows the result to read or unread ones.
func (r *SQLiteRepo) ListNotifications(ctx context.Context, userID string, isRead *bool) ([]models.Notification, error) {
	q := `SELECT id, user_id, title, message, type, related_id, is_read, created FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if isRead != nil {
		q += ` AND is_read = ?`
		args = append(args, *isRead)
	}
	q += ` ORDER BY created DESC, rowid DESC`

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedID, &n.IsRead, &n.Created); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) MarkNotificationRead(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
