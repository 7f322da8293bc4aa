package driven

import (
	"context"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// HealthScoreStore defines the driven port for score persistence.
type HealthScoreStore interface {
	// RecordHealthScore atomically stores the account's new score, appends
	// the history row and, when rec.Note is set, appends the note and moves
	// the account's last activity to rec.Log.CalculatedAt.
	RecordHealthScore(ctx context.Context, rec model.HealthScoreRecord) error

	// ListHistory returns up to limit history rows, newest first.
	ListHistory(ctx context.Context, accountID string, limit int) ([]model.HealthScoreLog, error)
}
