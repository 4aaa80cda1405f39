// -----------------------------------------------------------------------
// Scheduler - Periodic storage maintenance
// -----------------------------------------------------------------------

package scheduler

import (
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docere/internal/common"
	"github.com/ternarybob/docere/internal/storage/badger"
)

// gcDiscardRatio is the badger value-log GC threshold: rewrite a log file
// when at least half of it is stale.
const gcDiscardRatio = 0.5

// Scheduler runs periodic maintenance jobs. Currently one job: badger
// value-log garbage collection, which badger never runs on its own.
type Scheduler struct {
	cron    *cron.Cron
	logger  arbor.ILogger
	storage *badger.Manager
	config  *common.MaintenanceConfig
}

// NewScheduler creates the maintenance scheduler.
func NewScheduler(config *common.MaintenanceConfig, storage *badger.Manager, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger,
		storage: storage,
		config:  config,
	}
}

// Start registers and begins the maintenance jobs. No-op when disabled.
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Debug().Msg("Maintenance scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.config.GCSchedule, s.runValueLogGC); err != nil {
		return fmt.Errorf("invalid gc schedule %q: %w", s.config.GCSchedule, err)
	}

	s.cron.Start()
	s.logger.Info().Str("gc_schedule", s.config.GCSchedule).Msg("Maintenance scheduler started")
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Debug().Msg("Maintenance scheduler stopped")
}

// runValueLogGC repeatedly collects value-log files until a round reclaims
// nothing.
func (s *Scheduler) runValueLogGC() {
	rounds := 0
	for {
		err := s.storage.DB().RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badgerdb.ErrNoRewrite) {
			break
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Value-log GC failed")
			return
		}
		rounds++
	}
	if rounds > 0 {
		s.logger.Info().Int("rounds", rounds).Msg("Value-log GC reclaimed space")
	}
}
