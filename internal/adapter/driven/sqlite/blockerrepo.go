package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BlockerStore = (*BlockerRepo)(nil)

// BlockerRepo is the SQLite implementation of the BlockerStore port interface.
type BlockerRepo struct {
	db *DB
}

// NewBlockerRepo creates a new BlockerRepo backed by the given DB.
func NewBlockerRepo(db *DB) *BlockerRepo {
	return &BlockerRepo{db: db}
}

const blockerColumns = `id, account_id, title, description, category, status, owner, escalation_level, created_at, updated_at, resolved_at`

// Create inserts a new blocker.
func (r *BlockerRepo) Create(ctx context.Context, b model.Blocker) error {
	const query = `INSERT INTO blockers (` + blockerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		b.ID, b.AccountID, b.Title, b.Description, string(b.Category), string(b.Status), b.Owner,
		b.EscalationLevel, formatTime(b.CreatedAt), formatTime(b.UpdatedAt), nullableTime(b.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("create blocker %q: %w", b.Title, err)
	}
	return nil
}

// GetByID returns nil, nil when the blocker does not exist.
func (r *BlockerRepo) GetByID(ctx context.Context, id string) (*model.Blocker, error) {
	const query = `SELECT ` + blockerColumns + ` FROM blockers WHERE id = ?`

	b, err := scanBlocker(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blocker %q: %w", id, err)
	}
	return b, nil
}

// ListByAccount returns the account's blockers, open ones first, newest first.
func (r *BlockerRepo) ListByAccount(ctx context.Context, accountID string) ([]model.Blocker, error) {
	const query = `
		SELECT ` + blockerColumns + `
		FROM blockers
		WHERE account_id = ?
		ORDER BY CASE status WHEN 'open' THEN 0 ELSE 1 END, created_at DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list blockers for %q: %w", accountID, err)
	}
	defer rows.Close()

	var blockers []model.Blocker
	for rows.Next() {
		b, err := scanBlocker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blocker: %w", err)
		}
		blockers = append(blockers, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blockers: %w", err)
	}

	return blockers, nil
}

// ListOpen returns every open blocker, oldest update first.
func (r *BlockerRepo) ListOpen(ctx context.Context) ([]model.OpenBlocker, error) {
	query, args, err := sq.Select("id", "title", "account_id", "updated_at").
		From("blockers").
		Where(sq.Eq{"status": string(model.BlockerStatusOpen)}).
		OrderBy("updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build open blockers query: %w", err)
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list open blockers: %w", err)
	}
	defer rows.Close()

	var blockers []model.OpenBlocker
	for rows.Next() {
		var b model.OpenBlocker
		var updatedAt string
		if err := rows.Scan(&b.ID, &b.Title, &b.AccountID, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan open blocker: %w", err)
		}
		if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		blockers = append(blockers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open blockers: %w", err)
	}

	return blockers, nil
}

// Resolve marks an open blocker resolved. Resolved blockers are left as-is so
// resolvedAt is only ever set once.
func (r *BlockerRepo) Resolve(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE blockers
		SET status = ?, resolved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`

	stamp := formatTime(at)
	result, err := r.db.Writer.ExecContext(ctx, query,
		string(model.BlockerStatusResolved), stamp, stamp, id, string(model.BlockerStatusOpen),
	)
	if err != nil {
		return fmt.Errorf("resolve blocker %q: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing changed: either already resolved or unknown.
	var exists int
	err = r.db.Writer.QueryRowContext(ctx, `SELECT 1 FROM blockers WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("resolve blocker %q: %w", id, driven.ErrBlockerNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolve blocker %q: %w", id, err)
	}
	return nil
}

// EscalateStale promotes open level-0 blockers untouched since before
// threshold to the maximum escalation level. updated_at is not bumped so an
// escalated blocker keeps counting as stale.
func (r *BlockerRepo) EscalateStale(ctx context.Context, threshold time.Time) (int64, error) {
	query, args, err := sq.Update("blockers").
		Set("escalation_level", model.MaxEscalationLevel).
		Where(sq.Eq{"status": string(model.BlockerStatusOpen)}).
		Where(sq.Lt{"escalation_level": model.MaxEscalationLevel}).
		Where(sq.Lt{"updated_at": formatTime(threshold)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build escalation update: %w", err)
	}

	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("escalate stale blockers: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

func scanBlocker(s scanner) (*model.Blocker, error) {
	var b model.Blocker
	var category, status, createdAt, updatedAt string
	var resolvedAt sql.NullString

	err := s.Scan(
		&b.ID, &b.AccountID, &b.Title, &b.Description, &category, &status, &b.Owner,
		&b.EscalationLevel, &createdAt, &updatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Category = model.BlockerCategory(category)
	b.Status = model.BlockerStatus(status)

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if b.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, fmt.Errorf("parse resolved_at: %w", err)
	}

	return &b, nil
}
