// File: internal/jobs/user_stats.go
package jobs

import (
	"context"
	"time"

	"blog_backend/internal/config"
	"blog_backend/internal/user"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RoleCounter reports how many users hold each role.
type RoleCounter interface {
	CountByRole(ctx context.Context) (map[user.Role]int64, error)
}

// UserStatsSink receives per-role counts keyed by role name.
type UserStatsSink interface {
	SetUsersByRole(counts map[string]int64)
}

// UserStatsJob periodically publishes the number of users per role.
type UserStatsJob struct {
	counter       RoleCounter
	sink          UserStatsSink
	schedule      string
	logger        *zap.Logger
	cronScheduler *cron.Cron
}

func NewUserStatsJob(counter RoleCounter, sink UserStatsSink, cfg *config.Config, logger *zap.Logger) *UserStatsJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &UserStatsJob{
		counter:       counter,
		sink:          sink,
		schedule:      cfg.UserStatsJobSchedule,
		logger:        logger.Named("UserStatsJob"),
		cronScheduler: scheduler,
	}
}

// SetupAndStart runs the job once, then schedules it. An empty schedule disables it.
func (j *UserStatsJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("User stats job schedule not defined (USER_STATS_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule user stats job", zap.String("spec", j.schedule), zap.Error(err))
		return err
	}

	j.logger.Info("User stats job scheduled", zap.String("spec", j.schedule), zap.Int("jobID", int(jobID)))
	j.runJob()
	j.cronScheduler.Start()
	return nil
}

func (j *UserStatsJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		j.logger.Error("User stats job run failed", zap.Error(err))
	}
}

// Run counts users per role and publishes the result.
func (j *UserStatsJob) Run(ctx context.Context) error {
	counts, err := j.counter.CountByRole(ctx)
	if err != nil {
		return err
	}

	byName := make(map[string]int64, len(counts))
	for role, n := range counts {
		byName[string(role)] = n
	}
	j.sink.SetUsersByRole(byName)
	j.logger.Debug("User stats published", zap.Any("counts", byName))
	return nil
}

// Stop waits up to ten seconds for a running job to finish.
func (j *UserStatsJob) Stop() {
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("User stats job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("User stats job scheduler stop timed out.")
	}
}
