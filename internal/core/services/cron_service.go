package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// sweepTimeout bounds one run of the session sweeper
const sweepTimeout = 30 * time.Second

// Sweeper deletes sessions that can no longer be used
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// CronService runs periodic maintenance jobs
type CronService struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
}

// NewCronService creates a cron service that sweeps sessions on spec, e.g. "@every 1h"
func NewCronService(sweeper Sweeper, spec string) (*CronService, error) {
	s := &CronService{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		sweeper: sweeper,
		spec:    spec,
	}
	if _, err := s.cron.AddFunc(spec, s.SweepSessions); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("⏰ Session sweeper scheduled")
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("⏰ Cron service stopped")
}

// SweepSessions runs one sweep
func (s *CronService) SweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	n, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("🧹 Expired sessions removed")
	}
}
