package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
	"github.com/ericfisherdev/accountpulse/internal/domain/port/driven"
)

var now = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

var errStorage = errors.New("storage unavailable")

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func daysAgo(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }

func daysAhead(d int) time.Time { return now.Add(time.Duration(d) * 24 * time.Hour) }

// --- Mock implementations ---

type mockAccountStore struct {
	accounts   map[string]*model.Account
	blockers   *mockBlockerStore
	signalsErr error
	statuses   []model.AccountStatus
}

func newMockAccountStore(blockers *mockBlockerStore, accounts ...model.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: make(map[string]*model.Account), blockers: blockers}
	for i := range accounts {
		a := accounts[i]
		m.accounts[a.ID] = &a
	}
	return m
}

func (m *mockAccountStore) Create(_ context.Context, account model.Account) error {
	for _, a := range m.accounts {
		if a.Name == account.Name {
			return driven.ErrAccountAlreadyExists
		}
	}
	m.accounts[account.ID] = &account
	return nil
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (*model.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountStore) GetByName(_ context.Context, name string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccountStore) ListAll(_ context.Context) ([]model.Account, error) {
	out := make([]model.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockAccountStore) ListSummaries(ctx context.Context) ([]model.AccountSummary, error) {
	all, _ := m.ListAll(ctx)
	out := make([]model.AccountSummary, 0, len(all))
	for _, a := range all {
		out = append(out, model.AccountSummary{
			ID:              a.ID,
			Name:            a.Name,
			ContractEndDate: a.ContractEndDate,
			HealthScore:     a.HealthScore,
			LastActivityAt:  a.LastActivityAt,
		})
	}
	return out, nil
}

func (m *mockAccountStore) GetSignals(_ context.Context, id string) (*model.AccountSignals, error) {
	if m.signalsErr != nil {
		return nil, m.signalsErr
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	open := 0
	if m.blockers != nil {
		for _, b := range m.blockers.blockers {
			if b.AccountID == id && b.IsOpen() {
				open++
			}
		}
	}
	return &model.AccountSignals{
		AccountID:          a.ID,
		HealthScore:        a.HealthScore,
		LastActivityAt:     a.LastActivityAt,
		ConversationVolume: a.ConversationVolume,
		ContractEndDate:    a.ContractEndDate,
		OpenBlockerCount:   open,
	}, nil
}

func (m *mockAccountStore) UpdateStatus(_ context.Context, id string, status model.AccountStatus) error {
	a, ok := m.accounts[id]
	if !ok {
		return errors.New("no rows")
	}
	a.Status = status
	m.statuses = append(m.statuses, status)
	return nil
}

func (m *mockAccountStore) SetConversationVolume(_ context.Context, id string, volume int) error {
	a, ok := m.accounts[id]
	if !ok {
		return errors.New("no rows")
	}
	a.ConversationVolume = &volume
	return nil
}

type mockBlockerStore struct {
	blockers      []*model.Blocker
	escalateErr   error
	thresholds    []time.Time
	resolveCalled int
}

func (m *mockBlockerStore) Create(_ context.Context, blocker model.Blocker) error {
	m.blockers = append(m.blockers, &blocker)
	return nil
}

func (m *mockBlockerStore) GetByID(_ context.Context, id string) (*model.Blocker, error) {
	for _, b := range m.blockers {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockBlockerStore) ListByAccount(_ context.Context, accountID string) ([]model.Blocker, error) {
	var out []model.Blocker
	for _, b := range m.blockers {
		if b.AccountID == accountID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBlockerStore) ListOpen(_ context.Context) ([]model.OpenBlocker, error) {
	var out []model.OpenBlocker
	for _, b := range m.blockers {
		if b.IsOpen() {
			out = append(out, model.OpenBlocker{ID: b.ID, Title: b.Title, AccountID: b.AccountID, UpdatedAt: b.UpdatedAt})
		}
	}
	return out, nil
}

func (m *mockBlockerStore) Resolve(_ context.Context, id string, at time.Time) error {
	m.resolveCalled++
	for _, b := range m.blockers {
		if b.ID == id {
			if b.IsOpen() {
				b.Status = model.BlockerStatusResolved
				b.UpdatedAt = at
				b.ResolvedAt = &at
			}
			return nil
		}
	}
	return driven.ErrBlockerNotFound
}

func (m *mockBlockerStore) EscalateStale(_ context.Context, threshold time.Time) (int64, error) {
	m.thresholds = append(m.thresholds, threshold)
	if m.escalateErr != nil {
		return 0, m.escalateErr
	}
	var n int64
	for _, b := range m.blockers {
		if b.IsOpen() && b.EscalationLevel < model.MaxEscalationLevel && b.UpdatedAt.Before(threshold) {
			b.EscalationLevel = model.MaxEscalationLevel
			n++
		}
	}
	return n, nil
}

type mockPCRStore struct {
	pcrs     []*model.ProductChangeRequest
	countErr error
}

func (m *mockPCRStore) Create(_ context.Context, pcr model.ProductChangeRequest) error {
	m.pcrs = append(m.pcrs, &pcr)
	return nil
}

func (m *mockPCRStore) GetByID(_ context.Context, id string) (*model.ProductChangeRequest, error) {
	for _, p := range m.pcrs {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockPCRStore) ListAll(_ context.Context) ([]model.ProductChangeRequest, error) {
	out := make([]model.ProductChangeRequest, 0, len(m.pcrs))
	for _, p := range m.pcrs {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPCRStore) UpdateStatus(_ context.Context, id string, status model.PCRStatus, at time.Time) error {
	for _, p := range m.pcrs {
		if p.ID == id {
			p.Status = status
			p.CompletedAt = nil
			if status == model.PCRStatusCompleted {
				p.CompletedAt = &at
			}
			return nil
		}
	}
	return driven.ErrPCRNotFound
}

func (m *mockPCRStore) CountOpen(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, p := range m.pcrs {
		if p.Status != model.PCRStatusCompleted {
			n++
		}
	}
	return n, nil
}

// mockHealthScoreStore applies records to the account store so follow-up
// reads observe the new score and activity time.
type mockHealthScoreStore struct {
	accounts  *mockAccountStore
	activity  *mockActivityStore
	records   []model.HealthScoreRecord
	recordErr error
}

func (m *mockHealthScoreStore) RecordHealthScore(_ context.Context, rec model.HealthScoreRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.records = append(m.records, rec)
	a := m.accounts.accounts[rec.Log.AccountID]
	a.HealthScore = rec.Log.Score
	if rec.Note != nil {
		at := rec.Log.CalculatedAt
		a.LastActivityAt = &at
		if m.activity != nil {
			m.activity.entries = append(m.activity.entries, *rec.Note)
		}
	}
	return nil
}

func (m *mockHealthScoreStore) ListHistory(_ context.Context, accountID string, limit int) ([]model.HealthScoreLog, error) {
	var out []model.HealthScoreLog
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].Log.AccountID == accountID {
			out = append(out, m.records[i].Log)
		}
	}
	return out, nil
}

type mockActivityStore struct {
	entries   []model.ActivityLog
	appendErr error
}

func (m *mockActivityStore) Append(_ context.Context, entry model.ActivityLog) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityStore) ListByAccount(_ context.Context, accountID string, limit int) ([]model.ActivityLog, error) {
	var out []model.ActivityLog
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].AccountID == accountID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type mockNotificationStore struct {
	notifications []model.Notification
	batches       int
	insertErr     error
	keysErr       error
}

func (m *mockNotificationStore) ListUnreadKeys(_ context.Context) ([]model.NotificationKey, error) {
	if m.keysErr != nil {
		return nil, m.keysErr
	}
	var keys []model.NotificationKey
	for _, n := range m.notifications {
		if !n.IsRead {
			keys = append(keys, n.Key())
		}
	}
	return keys, nil
}

func (m *mockNotificationStore) InsertBatch(_ context.Context, notifications []model.Notification) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.batches++
	m.notifications = append(m.notifications, notifications...)
	return nil
}

func (m *mockNotificationStore) List(_ context.Context, filter driven.NotificationFilter) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.notifications {
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockNotificationStore) MarkRead(_ context.Context, id string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].IsRead = true
			return nil
		}
	}
	return driven.ErrNotificationNotFound
}

func (m *mockNotificationStore) MarkAllRead(_ context.Context) (int64, error) {
	var n int64
	for i := range m.notifications {
		if !m.notifications[i].IsRead {
			m.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

// --- Fixture ---

type fixture struct {
	accounts      *mockAccountStore
	blockers      *mockBlockerStore
	pcrs          *mockPCRStore
	health        *mockHealthScoreStore
	activity      *mockActivityStore
	notifications *mockNotificationStore
	clock         fixedClock
	newID         func() string
}

func newFixture(accounts ...model.Account) *fixture {
	blockers := &mockBlockerStore{}
	accountStore := newMockAccountStore(blockers, accounts...)
	activity := &mockActivityStore{}
	return &fixture{
		accounts:      accountStore,
		blockers:      blockers,
		pcrs:          &mockPCRStore{},
		health:        &mockHealthScoreStore{accounts: accountStore, activity: activity},
		activity:      activity,
		notifications: &mockNotificationStore{},
		clock:         fixedClock{t: now},
		newID:         sequentialIDs(),
	}
}
