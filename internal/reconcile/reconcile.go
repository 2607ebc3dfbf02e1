// Package reconcile flags orphaned proof uploads: objects that were
// written to storage but never got a matching payment record. Nothing is
// deleted; the journal row plus the timestamped object path are enough
// for manual follow-up.
package reconcile

import (
	"time"

	"github.com/BEAUVILLE/abos/internal/journal"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Sweeper struct {
	Journal   journal.Journal
	Logger    *zap.SugaredLogger
	OrphanAge time.Duration
}

// Run performs one sweep: every upload stuck past OrphanAge without a
// registration is marked orphaned and logged.
func (s *Sweeper) Run() {
	attempts, err := s.Journal.StaleUploads(s.OrphanAge)
	if err != nil {
		s.Logger.Warnw("orphan sweep failed", "error", err)
		return
	}

	for _, a := range attempts {
		if err := s.Journal.MarkOrphaned(a.ID); err != nil {
			s.Logger.Warnw("failed to mark attempt orphaned", "attempt", a.ID, "error", err)
			continue
		}
		s.Logger.Warnw("orphaned proof upload",
			"attempt", a.ID,
			"reference", a.Reference,
			"proof_path", a.ProofPath,
			"uploaded_at", a.UpdatedAt,
		)
	}

	if len(attempts) > 0 {
		s.Logger.Infow("orphan sweep finished", "orphans", len(attempts))
	}
}

// Schedule registers the sweep on the given cron, e.g. "@every 10m".
func (s *Sweeper) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, s.Run)
	return err
}
