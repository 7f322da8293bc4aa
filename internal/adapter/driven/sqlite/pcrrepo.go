package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PCRStore = (*PCRRepo)(nil)

// PCRRepo is the SQLite implementation of the PCRStore port interface.
type PCRRepo struct {
	db *DB
}

// NewPCRRepo creates a new PCRRepo backed by the given DB.
func NewPCRRepo(db *DB) *PCRRepo {
	return &PCRRepo{db: db}
}

const pcrColumns = `id, title, description, priority, requested_by, status, created_at, completed_at`

// Create inserts a new product change request.
func (r *PCRRepo) Create(ctx context.Context, p model.ProductChangeRequest) error {
	const query = `INSERT INTO product_change_requests (` + pcrColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Priority, p.RequestedBy, string(p.Status),
		formatTime(p.CreatedAt), nullableTime(p.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("create product change request %q: %w", p.Title, err)
	}
	return nil
}

// GetByID returns nil, nil when the request does not exist.
func (r *PCRRepo) GetByID(ctx context.Context, id string) (*model.ProductChangeRequest, error) {
	const query = `SELECT ` + pcrColumns + ` FROM product_change_requests WHERE id = ?`

	p, err := scanPCR(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product change request %q: %w", id, err)
	}
	return p, nil
}

// ListAll returns all requests by priority, then newest first.
func (r *PCRRepo) ListAll(ctx context.Context) ([]model.ProductChangeRequest, error) {
	const query = `SELECT ` + pcrColumns + ` FROM product_change_requests ORDER BY priority, created_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list product change requests: %w", err)
	}
	defer rows.Close()

	var pcrs []model.ProductChangeRequest
	for rows.Next() {
		p, err := scanPCR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product change request: %w", err)
		}
		pcrs = append(pcrs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product change requests: %w", err)
	}

	return pcrs, nil
}

// UpdateStatus sets the status; completed_at follows the Completed state.
func (r *PCRRepo) UpdateStatus(ctx context.Context, id string, status model.PCRStatus, at time.Time) error {
	const query = `UPDATE product_change_requests SET status = ?, completed_at = ? WHERE id = ?`

	var completedAt any
	if status == model.PCRStatusCompleted {
		completedAt = formatTime(at)
	}

	result, err := r.db.Writer.ExecContext(ctx, query, string(status), completedAt, id)
	if err != nil {
		return fmt.Errorf("update product change request %q: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update product change request %q: %w", id, driven.ErrPCRNotFound)
	}
	return nil
}

// CountOpen counts requests that are not completed.
func (r *PCRRepo) CountOpen(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM product_change_requests WHERE status != ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, string(model.PCRStatusCompleted)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open product change requests: %w", err)
	}
	return count, nil
}

func scanPCR(s scanner) (*model.ProductChangeRequest, error) {
	var p model.ProductChangeRequest
	var status, createdAt string
	var completedAt sql.NullString

	err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Priority, &p.RequestedBy, &status, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	p.Status = model.PCRStatus(status)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}

	return &p, nil
}
