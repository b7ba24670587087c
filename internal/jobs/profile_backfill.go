// File: internal/jobs/profile_backfill.go
package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"property_listing_backend/internal/config"
	"property_listing_backend/internal/user"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OwnerSource lists the user ids that own at least one property.
type OwnerSource interface {
	OwnerIDs(ctx context.Context) ([]string, error)
}

// BackfillResult summarizes one backfill run.
type BackfillResult struct {
	Scanned int
	Created int
	Failed  int
}

// ProfileBackfillJob creates missing profile documents for property owners.
type ProfileBackfillJob struct {
	owners        OwnerSource
	profiles      user.Service
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewProfileBackfillJob creates a new ProfileBackfillJob.
func NewProfileBackfillJob(owners OwnerSource, profiles user.Service, logger *zap.Logger, cfg *config.Config) *ProfileBackfillJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &ProfileBackfillJob{
		owners:        owners,
		profiles:      profiles,
		logger:        logger.Named("ProfileBackfillJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules the job on PROFILE_BACKFILL_JOB_SCHEDULE. An empty schedule disables it.
func (j *ProfileBackfillJob) SetupAndStart() error {
	jobSpec := j.cfg.ProfileBackfillJobSchedule
	if jobSpec == "" {
		j.logger.Info("Profile backfill job schedule not defined (PROFILE_BACKFILL_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule profile backfill job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Profile backfill job scheduled", zap.String("spec", jobSpec), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

func (j *ProfileBackfillJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("Profile backfill job run failed", zap.Error(err))
	}
}

// RunOnce ensures a profile exists for every property owner. Per-user failures are counted,
// only a failure to list the owners aborts the run.
func (j *ProfileBackfillJob) RunOnce(ctx context.Context) (BackfillResult, error) {
	j.logger.Info("Starting profile backfill run...")
	ids, err := j.owners.OwnerIDs(ctx)
	if err != nil {
		return BackfillResult{}, err
	}

	var created, failed int64
	var g errgroup.Group
	g.SetLimit(max(j.cfg.OwnerLookupConcurrency, 1))
	for _, uid := range ids {
		uid := uid
		g.Go(func() error {
			_, isNew, err := j.profiles.EnsureProfile(ctx, uid, user.ProfileHints{})
			switch {
			case err != nil:
				atomic.AddInt64(&failed, 1)
				j.logger.Warn("Could not backfill profile", zap.String("userID", uid), zap.Error(err))
			case isNew:
				atomic.AddInt64(&created, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := BackfillResult{Scanned: len(ids), Created: int(created), Failed: int(failed)}
	j.logger.Info("Profile backfill run completed",
		zap.Int("owners_scanned", result.Scanned),
		zap.Int("profiles_created", result.Created),
		zap.Int("failures", result.Failed),
	)
	return result, nil
}

// Stop gracefully stops the cron scheduler.
func (j *ProfileBackfillJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping profile backfill job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Profile backfill job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Profile backfill job scheduler stop timed out.")
	}
}
