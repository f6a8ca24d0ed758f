package service

import (
	"context"
	"time"

	"novblog/internal/logger"
	"novblog/internal/repository"
)

// SweeperService deletes expired session rows in the background so the
// table doesn't accumulate dead logins between restarts.
type SweeperService struct {
	sessions repository.Sessions
	log      *logger.Logger
}

func NewSweeperService(sessions repository.Sessions, log *logger.Logger) *SweeperService {
	return &SweeperService{sessions: sessions, log: log}
}

var _ Sweeper = (*SweeperService)(nil)

// Run ticks at the given interval until ctx is canceled. Purge errors
// are logged; the next tick retries.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := s.sessions.DeleteExpired(ctx, now.UTC()); err != nil && s.log != nil {
				s.log.Errorw("session_purge_failed", "err", err)
			}
		}
	}
}
