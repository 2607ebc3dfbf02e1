package journal

import (
	"time"

	"github.com/BEAUVILLE/abos/models"
)

// Journal is the durable attempt log backing orphan reconciliation. It
// observes submissions; the payment backend remains the system of record.
type Journal interface {
	PutAttempt(a *models.Attempt) error
	UpdateAttempt(id string, state models.AttemptState, errMsg string) error

	StaleUploads(olderThan time.Duration) ([]*models.Attempt, error)
	MarkOrphaned(id string) error

	Close() error
}
