package workers

import (
	"context"
	"fmt"
	"time"

	"freelance-marketplace/database"
	"freelance-marketplace/logger"
	"freelance-marketplace/services"

	"github.com/go-co-op/gocron/v2"
)

const sweepAction = "scheduled_sweep"

// AchievementSweepWorker periodically re-runs the achievement check for every
// user with a profile, picking up unlocks whose trigger failed open.
type AchievementSweepWorker struct {
	store    database.DocumentStore
	trigger  services.AchievementTrigger
	interval time.Duration

	sched gocron.Scheduler
}

func NewAchievementSweepWorker(store database.DocumentStore, trigger services.AchievementTrigger, interval time.Duration) *AchievementSweepWorker {
	return &AchievementSweepWorker{
		store:    store,
		trigger:  trigger,
		interval: interval,
	}
}

// Start schedules the sweep. Runs never overlap; a run still in progress
// when the next one is due pushes it back.
func (w *AchievementSweepWorker) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				logger.Error().Err(err).Msg("[SWEEP] run failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("achievement-sweep"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule achievement sweep: %w", err)
	}

	sched.Start()
	w.sched = sched
	logger.Info().Dur("interval", w.interval).Msg("🔁 Achievement sweep scheduled")
	return nil
}

func (w *AchievementSweepWorker) Stop() error {
	if w.sched == nil {
		return nil
	}
	err := w.sched.Shutdown()
	w.sched = nil
	logger.Info().Msg("⏹️ Achievement sweep stopped")
	return err
}

// RunOnce checks every profiled user and returns the number of new unlocks.
// A failing user is logged and skipped.
func (w *AchievementSweepWorker) RunOnce(ctx context.Context) (int, error) {
	profiles, err := w.store.ListDocuments(ctx, database.CollectionUserProfiles, nil)
	if err != nil {
		return 0, err
	}

	var unlocked, failed int
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return unlocked, err
		}
		userID := p.String("user_id")
		if userID == "" {
			continue
		}
		got, err := w.trigger.TriggerAchievementCheck(ctx, userID, sweepAction)
		if err != nil {
			failed++
			continue
		}
		unlocked += len(got)
	}

	logger.Info().
		Int("users", len(profiles)).
		Int("unlocked", unlocked).
		Int("failed", failed).
		Msg("[SWEEP] ✅ achievement sweep finished")
	return unlocked, nil
}
