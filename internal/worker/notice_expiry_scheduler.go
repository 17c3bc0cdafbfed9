package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// NoticeExpirer takes down published notices whose expire_date has passed.
type NoticeExpirer interface {
	UnpublishExpired(ctx context.Context) (int64, error)
}

// NoticeExpiryScheduler periodically unpublishes expired notices so the
// admin list matches the public board.
type NoticeExpiryScheduler struct {
	cron    *cron.Cron
	notices NoticeExpirer
	timeout time.Duration
	log     zerolog.Logger
}

// NewNoticeExpiryScheduler creates a scheduler for a six-field cron spec
// (seconds first), e.g. "0 */15 * * * *".
func NewNoticeExpiryScheduler(spec string, notices NoticeExpirer, log zerolog.Logger) (*NoticeExpiryScheduler, error) {
	s := &NoticeExpiryScheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		notices: notices,
		timeout: 30 * time.Second,
		log:     log.With().Str("component", "notice_expiry_scheduler").Logger(),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule notice expiry %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule until ctx is done, then waits for a running job.
func (s *NoticeExpiryScheduler) Start(ctx context.Context) {
	s.log.Info().Msg("Scheduler started")
	s.cron.Start()

	<-ctx.Done()

	s.log.Info().Msg("Scheduler stopping...")
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *NoticeExpiryScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.notices.UnpublishExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Unpublish expired notices failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("Unpublished expired notices")
	}
}
