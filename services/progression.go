package services

import (
	"context"
	"fmt"
	"time"

	"freelance-marketplace/database"
	"freelance-marketplace/logger"
	"freelance-marketplace/models"

	"github.com/google/uuid"
)

// ProgressionService owns the per-user level record (user_progress).
type ProgressionService struct {
	store  database.DocumentStore
	locker Locker

	// autoCreate makes an XP award create a missing level record instead of
	// dropping the award.
	autoCreate bool
	now        func() time.Time
	newID      func() string
}

func NewProgressionService(store database.DocumentStore, locker Locker, autoCreate bool) *ProgressionService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &ProgressionService{
		store:      store,
		locker:     locker,
		autoCreate: autoCreate,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// EnsureProgressRecord returns the user's level record, creating the level-1
// default when none exists (idempotent).
func (s *ProgressionService) EnsureProgressRecord(ctx context.Context, userID string) (*models.UserProgress, error) {
	return s.ensure(ctx, s.store, userID)
}

func (s *ProgressionService) ensure(ctx context.Context, store database.DocumentStore, userID string) (*models.UserProgress, error) {
	doc, err := database.First(ctx, store, database.CollectionUserProgress, database.Filters{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if doc != nil {
		prog := progressFromDocument(doc)
		return &prog, nil
	}

	prog := models.UserProgress{
		ID:           s.newID(),
		UserID:       userID,
		CurrentLevel: 1,
		NextLevelXP:  NextLevelXP(1),
	}
	created, err := store.CreateDocument(ctx, database.CollectionUserProgress, prog.ID, map[string]interface{}{
		"user_id":            prog.UserID,
		"current_xp":         int64(0),
		"total_xp":           int64(0),
		"current_level":      prog.CurrentLevel,
		"next_level_xp":      prog.NextLevelXP,
		"achievements_count": 0,
		"streak_days":        0,
	})
	if err != nil {
		// Lost a create race against the unique user_id index.
		if again, rerr := database.First(ctx, store, database.CollectionUserProgress, database.Filters{"user_id": userID}); rerr == nil && again != nil {
			p := progressFromDocument(again)
			return &p, nil
		}
		return nil, err
	}
	prog = progressFromDocument(created)
	return &prog, nil
}

// GetProgress returns nil without error when the user has no record.
func (s *ProgressionService) GetProgress(ctx context.Context, userID string) (*models.UserProgress, error) {
	doc, err := database.First(ctx, s.store, database.CollectionUserProgress, database.Filters{"user_id": userID})
	if err != nil || doc == nil {
		return nil, err
	}
	prog := progressFromDocument(doc)
	return &prog, nil
}

// AwardXP grants xp outside of an achievement unlock (admin grants).
func (s *ProgressionService) AwardXP(ctx context.Context, userID string, xp int64, reason string) (XPResult, error) {
	if xp <= 0 {
		return XPResult{}, fmt.Errorf("xp must be positive, got %d", xp)
	}
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return XPResult{}, err
	}
	defer unlock()

	var res XPResult
	err = s.store.Transaction(ctx, func(tx database.DocumentStore) error {
		var err error
		res, err = s.awardXP(ctx, tx, userID, xp, reason)
		return err
	})
	return res, err
}

// awardXP applies amount inside the caller's unit of work. With autoCreate
// off, a user without a level record gets nothing and no record.
func (s *ProgressionService) awardXP(ctx context.Context, tx database.DocumentStore, userID string, amount int64, reason string) (XPResult, error) {
	var prog *models.UserProgress
	if s.autoCreate {
		p, err := s.ensure(ctx, tx, userID)
		if err != nil {
			return XPResult{}, err
		}
		prog = p
	} else {
		doc, err := database.First(ctx, tx, database.CollectionUserProgress, database.Filters{"user_id": userID})
		if err != nil {
			return XPResult{}, err
		}
		if doc == nil {
			logger.Debug().Str("user_id", userID).Str("reason", reason).Msg("no progress record, XP award dropped")
			return XPResult{}, nil
		}
		p := progressFromDocument(doc)
		prog = &p
	}

	res := applyXP(prog, amount, s.now())
	if _, err := tx.UpdateDocument(ctx, database.CollectionUserProgress, prog.ID, progressXPFields(prog)); err != nil {
		return XPResult{}, err
	}

	logger.Info().
		Str("user_id", userID).
		Int64("xp", amount).
		Int64("total_xp", prog.TotalXP).
		Int("level", prog.CurrentLevel).
		Str("reason", reason).
		Msg("🎮 XP awarded")
	return res, nil
}

func (s *ProgressionService) incrementAchievementsCount(ctx context.Context, tx database.DocumentStore, userID string, n int) error {
	if n <= 0 {
		return nil
	}
	doc, err := database.First(ctx, tx, database.CollectionUserProgress, database.Filters{"user_id": userID})
	if err != nil || doc == nil {
		return err
	}
	_, err = tx.UpdateDocument(ctx, database.CollectionUserProgress, doc.ID(), map[string]interface{}{
		"achievements_count": doc.Int("achievements_count") + int64(n),
	})
	return err
}

// TouchActivity advances the daily streak: same UTC day is a no-op, the next
// day extends it, any longer gap restarts it at 1.
func (s *ProgressionService) TouchActivity(ctx context.Context, userID string) (*models.UserProgress, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prog, err := s.ensure(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	streak := nextStreak(prog.StreakDays, prog.LastActiveAt, now)
	if streak == prog.StreakDays && prog.LastActiveAt != nil && sameDay(*prog.LastActiveAt, now) {
		return prog, nil
	}

	if _, err := s.store.UpdateDocument(ctx, database.CollectionUserProgress, prog.ID, map[string]interface{}{
		"streak_days":    streak,
		"last_active_at": now,
	}); err != nil {
		return nil, err
	}
	prog.StreakDays = streak
	prog.LastActiveAt = &now
	return prog, nil
}

func nextStreak(current int, lastActive *time.Time, now time.Time) int {
	if lastActive == nil {
		return 1
	}
	last := lastActive.UTC()
	switch {
	case sameDay(last, now):
		if current < 1 {
			return 1
		}
		return current
	case sameDay(last.AddDate(0, 0, 1), now):
		return current + 1
	default:
		return 1
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
