package service

import (
	"context"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs periodic housekeeping
type Scheduler struct {
	sched           *cron.Cron
	idempotencyRepo repository.IdempotencyRepository
	log             *zap.Logger
}

// NewScheduler creates the housekeeping scheduler in the given location
func NewScheduler(loc *time.Location, idempotencyRepo repository.IdempotencyRepository, log *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		sched:           cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		idempotencyRepo: idempotencyRepo,
		log:             log,
	}
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.sched.AddFunc("@hourly", func() {
		if _, err := s.PurgeExpiredKeys(context.Background()); err != nil {
			s.log.Error("idempotency purge failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.sched.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.sched.Stop().Done():
	case <-ctx.Done():
	}
}

// PurgeExpiredKeys deletes idempotency keys past their expiry
func (s *Scheduler) PurgeExpiredKeys(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("expired idempotency keys purged", zap.Int64("count", n))
	}
	return n, nil
}
