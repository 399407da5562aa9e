// Package scheduler holds maintenance jobs run against the store.
package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bread-finance/bread/internal/database"
)

// CheckStoreJob verifies the integrity of the ledger store. Corruption of
// the ledger is critical and cannot be auto-recovered, so a failed check
// is surfaced as an error rather than logged and swallowed.
type CheckStoreJob struct {
	log zerolog.Logger
	db  *database.DB
}

// NewCheckStoreJob creates a new CheckStoreJob
func NewCheckStoreJob(db *database.DB) *CheckStoreJob {
	return &CheckStoreJob{
		log: zerolog.Nop(),
		db:  db,
	}
}

// SetLogger sets the logger for the job
func (j *CheckStoreJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CheckStoreJob) Name() string {
	return "check_store"
}

// Run executes the store check
func (j *CheckStoreJob) Run(ctx context.Context) error {
	if j.db == nil {
		j.log.Warn().Msg("Store not initialized, skipping check")
		return nil
	}

	if err := j.db.HealthCheck(ctx); err != nil {
		j.log.Error().Err(err).Str("store", j.db.Name()).Msg("Store integrity check failed")
		return fmt.Errorf("store %s is corrupted: %w", j.db.Name(), err)
	}

	j.log.Info().Str("store", j.db.Name()).Msg("Store integrity check passed")
	return nil
}
