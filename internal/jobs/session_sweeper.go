// Package jobs holds the background work that runs next to the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"gudang/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionPurger deletes expired sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// SessionSweeper periodically removes expired sessions so that sessions of
// users who never come back do not pile up. Validation still rejects expired
// sessions on its own.
type SessionSweeper struct {
	purger  SessionPurger
	cron    *cron.Cron
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewSessionSweeper schedules a sweep using a cron expression such as "@every 1h".
func NewSessionSweeper(purger SessionPurger, schedule string, log *zap.SugaredLogger) (*SessionSweeper, error) {
	s := &SessionSweeper{
		purger:  purger,
		cron:    cron.New(),
		timeout: time.Minute,
		log:     log,
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *SessionSweeper) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep purges expired sessions once.
func (s *SessionSweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		s.log.Errorw("session sweep failed", "error", err)
		return
	}
	metrics.RecordSessionsPurged(n)
	if n > 0 {
		s.log.Infow("purged expired sessions", "count", n)
	}
}
