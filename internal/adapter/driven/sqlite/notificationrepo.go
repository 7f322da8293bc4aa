package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.NotificationStore = (*NotificationRepo)(nil)

// NotificationRepo is the SQLite implementation of the NotificationStore port interface.
type NotificationRepo struct {
	db *DB
}

// NewNotificationRepo creates a new NotificationRepo backed by the given DB.
func NewNotificationRepo(db *DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// ListUnreadKeys returns one key per distinct unread (type, account) pair.
func (r *NotificationRepo) ListUnreadKeys(ctx context.Context) ([]model.NotificationKey, error) {
	const query = `SELECT DISTINCT type, account_id FROM notifications WHERE is_read = 0`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unread notification keys: %w", err)
	}
	defer rows.Close()

	var keys []model.NotificationKey
	for rows.Next() {
		var typ string
		var accountID sql.NullString
		if err := rows.Scan(&typ, &accountID); err != nil {
			return nil, fmt.Errorf("scan notification key: %w", err)
		}
		keys = append(keys, model.NotificationKey{
			Type:      model.NotificationType(typ),
			AccountID: accountID.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification keys: %w", err)
	}

	return keys, nil
}

// InsertBatch inserts every notification with a single multi-row INSERT.
func (r *NotificationRepo) InsertBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	builder := sq.Insert("notifications").
		Columns("id", "account_id", "type", "message", "priority", "is_read", "created_at")
	for _, n := range notifications {
		var accountID any
		if n.AccountID != "" {
			accountID = n.AccountID
		}
		builder = builder.Values(n.ID, accountID, string(n.Type), n.Message, n.Priority, boolToInt(n.IsRead), formatTime(n.CreatedAt))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build notification insert: %w", err)
	}

	if _, err := r.db.Writer.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %d notifications: %w", len(notifications), err)
	}
	return nil
}

// List returns notifications matching filter, most urgent and newest first.
func (r *NotificationRepo) List(ctx context.Context, filter driven.NotificationFilter) ([]model.Notification, error) {
	builder := sq.Select("id", "account_id", "type", "message", "priority", "is_read", "created_at").
		From("notifications").
		OrderBy("priority", "created_at DESC", "rowid DESC")

	if filter.UnreadOnly {
		builder = builder.Where(sq.Eq{"is_read": 0})
	}
	if filter.AccountID != "" {
		builder = builder.Where(sq.Eq{"account_id": filter.AccountID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification query: %w", err)
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var accountID sql.NullString
		var typ, createdAt string
		var isRead int
		if err := rows.Scan(&n.ID, &accountID, &typ, &n.Message, &n.Priority, &isRead, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.AccountID = accountID.String
		n.Type = model.NotificationType(typ)
		n.IsRead = isRead != 0
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead flags one notification as read. Marking an already-read
// notification is not an error.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.Writer.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification %q read: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark notification %q read: %w", id, driven.ErrNotificationNotFound)
	}
	return nil
}

// MarkAllRead flags every unread notification and returns how many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context) (int64, error) {
	result, err := r.db.Writer.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE is_read = 0`)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
