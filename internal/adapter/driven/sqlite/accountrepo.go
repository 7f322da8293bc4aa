package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
type AccountRepo struct {
	db *DB
}

// NewAccountRepo creates a new AccountRepo backed by the given DB.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, name, health_score, status, contract_end_date, last_activity_at, conversation_volume, created_at`

// Create inserts a new account.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) error {
	const query = `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		a.ID, a.Name, a.HealthScore, string(a.Status),
		nullableTime(a.ContractEndDate), nullableTime(a.LastActivityAt), nullableInt(a.ConversationVolume),
		formatTime(a.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("create account %q: %w", a.Name, driven.ErrAccountAlreadyExists)
		}
		return fmt.Errorf("create account %q: %w", a.Name, err)
	}
	return nil
}

// GetByID returns nil, nil when the account does not exist.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	a, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account %q: %w", id, err)
	}
	return a, nil
}

// GetByName returns nil, nil when no account has the given name.
func (r *AccountRepo) GetByName(ctx context.Context, name string) (*model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE name = ?`

	a, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by name %q: %w", name, err)
	}
	return a, nil
}

// ListAll returns all accounts ordered by name.
func (r *AccountRepo) ListAll(ctx context.Context) ([]model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// ListSummaries returns the attention projection of every account.
func (r *AccountRepo) ListSummaries(ctx context.Context) ([]model.AccountSummary, error) {
	const query = `SELECT id, name, contract_end_date, health_score, last_activity_at FROM accounts ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list account summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.AccountSummary
	for rows.Next() {
		var s model.AccountSummary
		var contractEnd, lastActivity sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &contractEnd, &s.HealthScore, &lastActivity); err != nil {
			return nil, fmt.Errorf("scan account summary: %w", err)
		}
		if s.ContractEndDate, err = parseNullTime(contractEnd); err != nil {
			return nil, fmt.Errorf("parse contract_end_date: %w", err)
		}
		if s.LastActivityAt, err = parseNullTime(lastActivity); err != nil {
			return nil, fmt.Errorf("parse last_activity_at: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account summaries: %w", err)
	}

	return summaries, nil
}

// GetSignals returns nil, nil when the account does not exist.
func (r *AccountRepo) GetSignals(ctx context.Context, id string) (*model.AccountSignals, error) {
	const query = `
		SELECT a.id, a.health_score, a.last_activity_at, a.conversation_volume, a.contract_end_date,
		       (SELECT COUNT(*) FROM blockers b WHERE b.account_id = a.id AND b.status = ?)
		FROM accounts a
		WHERE a.id = ?
	`

	var s model.AccountSignals
	var lastActivity, contractEnd sql.NullString
	var volume sql.NullInt64

	err := r.db.Reader.QueryRowContext(ctx, query, string(model.BlockerStatusOpen), id).Scan(
		&s.AccountID, &s.HealthScore, &lastActivity, &volume, &contractEnd, &s.OpenBlockerCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account signals %q: %w", id, err)
	}

	if s.LastActivityAt, err = parseNullTime(lastActivity); err != nil {
		return nil, fmt.Errorf("parse last_activity_at: %w", err)
	}
	if s.ContractEndDate, err = parseNullTime(contractEnd); err != nil {
		return nil, fmt.Errorf("parse contract_end_date: %w", err)
	}
	s.ConversationVolume = intPtr(volume)

	return &s, nil
}

// UpdateStatus returns an error wrapping sql.ErrNoRows when the account does not exist.
func (r *AccountRepo) UpdateStatus(ctx context.Context, id string, status model.AccountStatus) error {
	const query = `UPDATE accounts SET status = ? WHERE id = ?`
	return r.execOne(ctx, "update account status", id, query, string(status), id)
}

// SetConversationVolume stores the latest ingested usage counter.
func (r *AccountRepo) SetConversationVolume(ctx context.Context, id string, volume int) error {
	const query = `UPDATE accounts SET conversation_volume = ? WHERE id = ?`
	return r.execOne(ctx, "set conversation volume", id, query, volume, id)
}

func (r *AccountRepo) execOne(ctx context.Context, op, id, query string, args ...any) error {
	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %q: %w", op, id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", op, id, sql.ErrNoRows)
	}
	return nil
}

func scanAccount(s scanner) (*model.Account, error) {
	var a model.Account
	var status, createdAt string
	var contractEnd, lastActivity sql.NullString
	var volume sql.NullInt64

	err := s.Scan(&a.ID, &a.Name, &a.HealthScore, &status, &contractEnd, &lastActivity, &volume, &createdAt)
	if err != nil {
		return nil, err
	}

	a.Status = model.AccountStatus(status)
	a.ConversationVolume = intPtr(volume)

	if a.ContractEndDate, err = parseNullTime(contractEnd); err != nil {
		return nil, fmt.Errorf("parse contract_end_date: %w", err)
	}
	if a.LastActivityAt, err = parseNullTime(lastActivity); err != nil {
		return nil, fmt.Errorf("parse last_activity_at: %w", err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &a, nil
}
