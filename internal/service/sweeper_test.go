package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"novblog/internal/models"
	"novblog/internal/repository"
)

type signalSessions struct {
	repository.Sessions
	purged   chan time.Time
	purgeErr error
}

func (s *signalSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	select {
	case s.purged <- now:
	default:
	}
	if s.purgeErr != nil {
		return 0, s.purgeErr
	}
	return 1, nil
}

func (s *signalSessions) Create(context.Context, models.Session) error { return nil }

func TestSweeperService_RunPurgesUntilCanceled(t *testing.T) {
	sessions := &signalSessions{purged: make(chan time.Time, 1)}
	sw := NewSweeperService(sessions, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-sessions.purged:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper never purged")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not stop on cancel")
	}
}

func TestSweeperService_KeepsTickingAfterPurgeError(t *testing.T) {
	sessions := &signalSessions{
		purged:   make(chan time.Time),
		purgeErr: errors.New("db locked"),
	}
	sw := NewSweeperService(sessions, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sw.Run(ctx, 5*time.Millisecond)

	// Two ticks must arrive despite every purge failing.
	for i := 0; i < 2; i++ {
		select {
		case <-sessions.purged:
		case <-time.After(2 * time.Second):
			t.Fatalf("sweeper stopped after %d purges", i)
		}
	}
}
