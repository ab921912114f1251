package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/task-manager-be/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const purgeTimeout = 30 * time.Second

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron        *cron.Cron
	revocations store.RevocationStore
	now         func() time.Time
}

// New creates a scheduler that purges expired revocations on the given cron spec
// (standard five-field syntax or descriptors such as "@hourly").
func New(revocations store.RevocationStore, purgeSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		revocations: revocations,
		now:         time.Now,
	}
	if _, err := s.cron.AddFunc(purgeSpec, s.PurgeRevokedTokens); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", purgeSpec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	log.Info().Msg("Starting background scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	log.Info().Msg("Stopped background scheduler")
}

// PurgeRevokedTokens deletes revocation entries for tokens that have expired.
func (s *Scheduler) PurgeRevokedTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := s.revocations.PurgeExpired(ctx, s.now())
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to purge revoked tokens")
		return
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("Scheduler: purged expired revoked tokens")
	}
}
