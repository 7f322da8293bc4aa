package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ActivityStore = (*ActivityRepo)(nil)

// ActivityRepo is the SQLite implementation of the ActivityStore port interface.
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a new ActivityRepo backed by the given DB.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

const insertActivity = `INSERT INTO activity_logs (id, account_id, content, type, created_at) VALUES (?, ?, ?, ?, ?)`

// Append inserts a single activity entry.
func (r *ActivityRepo) Append(ctx context.Context, entry model.ActivityLog) error {
	_, err := r.db.Writer.ExecContext(ctx, insertActivity,
		entry.ID, entry.AccountID, entry.Content, string(entry.Type), formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append activity for %q: %w", entry.AccountID, err)
	}
	return nil
}

// ListByAccount returns up to limit entries, newest first.
func (r *ActivityRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.ActivityLog, error) {
	const query = `
		SELECT id, account_id, content, type, created_at
		FROM activity_logs
		WHERE account_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity for %q: %w", accountID, err)
	}
	defer rows.Close()

	var entries []model.ActivityLog
	for rows.Next() {
		var e model.ActivityLog
		var typ, createdAt string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Content, &typ, &createdAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.Type = model.ActivityType(typ)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return entries, nil
}
