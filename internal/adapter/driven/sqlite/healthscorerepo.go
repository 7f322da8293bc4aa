package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HealthScoreStore = (*HealthScoreRepo)(nil)

// HealthScoreRepo is the SQLite implementation of the HealthScoreStore port interface.
type HealthScoreRepo struct {
	db *DB
}

// NewHealthScoreRepo creates a new HealthScoreRepo backed by the given DB.
func NewHealthScoreRepo(db *DB) *HealthScoreRepo {
	return &HealthScoreRepo{db: db}
}

// RecordHealthScore writes the score, the history row and the optional
// change note in one transaction. The breakdown is stored as JSON.
func (r *HealthScoreRepo) RecordHealthScore(ctx context.Context, rec model.HealthScoreRecord) error {
	breakdown, err := json.Marshal(rec.Log.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	accountID := rec.Log.AccountID
	calculatedAt := formatTime(rec.Log.CalculatedAt)

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE accounts SET health_score = ? WHERE id = ?`, rec.Log.Score, accountID)
		if err != nil {
			return fmt.Errorf("update health score %q: %w", accountID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("update health score %q: %w", accountID, sql.ErrNoRows)
		}

		const insertLog = `INSERT INTO health_score_logs (id, account_id, score, breakdown, calculated_at) VALUES (?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, insertLog, rec.Log.ID, accountID, rec.Log.Score, string(breakdown), calculatedAt); err != nil {
			return fmt.Errorf("append health score log %q: %w", accountID, err)
		}

		if rec.Note == nil {
			return nil
		}

		note := rec.Note
		if _, err := tx.ExecContext(ctx, insertActivity,
			note.ID, accountID, note.Content, string(note.Type), formatTime(note.CreatedAt),
		); err != nil {
			return fmt.Errorf("append score change note %q: %w", accountID, err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET last_activity_at = ? WHERE id = ?`, calculatedAt, accountID); err != nil {
			return fmt.Errorf("touch last activity %q: %w", accountID, err)
		}
		return nil
	})
}

// ListHistory returns up to limit rows, newest first.
func (r *HealthScoreRepo) ListHistory(ctx context.Context, accountID string, limit int) ([]model.HealthScoreLog, error) {
	const query = `
		SELECT id, account_id, score, breakdown, calculated_at
		FROM health_score_logs
		WHERE account_id = ?
		ORDER BY calculated_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list health history for %q: %w", accountID, err)
	}
	defer rows.Close()

	var logs []model.HealthScoreLog
	for rows.Next() {
		var l model.HealthScoreLog
		var breakdown, calculatedAt string
		if err := rows.Scan(&l.ID, &l.AccountID, &l.Score, &breakdown, &calculatedAt); err != nil {
			return nil, fmt.Errorf("scan health score log: %w", err)
		}
		if err := json.Unmarshal([]byte(breakdown), &l.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
		if l.CalculatedAt, err = parseTime(calculatedAt); err != nil {
			return nil, fmt.Errorf("parse calculated_at: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate health history: %w", err)
	}

	return logs, nil
}
