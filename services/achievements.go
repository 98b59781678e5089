package services

import (
	"context"
	"time"

	"freelance-marketplace/database"
	"freelance-marketplace/logger"
	"freelance-marketplace/models"

	"github.com/google/uuid"
)

// AchievementTrigger is what user actions call after they succeed.
type AchievementTrigger interface {
	TriggerAchievementCheck(ctx context.Context, userID, action string) ([]models.UnlockedAchievement, error)
}

// AchievementService evaluates the catalog for one user and persists unlocks.
type AchievementService struct {
	store       database.DocumentStore
	aggregator  *Aggregator
	progression *ProgressionService
	locker      Locker
	catalog     []models.AchievementDefinition

	now   func() time.Time
	newID func() string
}

type AchievementOption func(*AchievementService)

func WithCatalog(catalog []models.AchievementDefinition) AchievementOption {
	return func(s *AchievementService) { s.catalog = catalog }
}

func WithClock(now func() time.Time) AchievementOption {
	return func(s *AchievementService) { s.now = now }
}

// NewAchievementService shares progression's locker so XP grants and
// achievement checks for one user never interleave.
func NewAchievementService(store database.DocumentStore, progression *ProgressionService, opts ...AchievementOption) *AchievementService {
	s := &AchievementService{
		store:       store,
		aggregator:  NewAggregator(store),
		progression: progression,
		locker:      progression.locker,
		catalog:     DefaultCatalog,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AchievementService) Catalog() []models.AchievementDefinition {
	return s.catalog
}

// Definition looks up a catalog entry by id.
func (s *AchievementService) Definition(id string) (models.AchievementDefinition, bool) {
	for _, def := range s.catalog {
		if def.ID == id {
			return def, true
		}
	}
	return models.AchievementDefinition{}, false
}

func (s *AchievementService) GetUserDataForAchievements(ctx context.Context, userID string) (models.UserDataSnapshot, error) {
	return s.aggregator.GetUserDataForAchievements(ctx, userID)
}

// CheckAndAwardAchievements unlocks every catalog entry whose condition holds
// for snapshot and that the user does not have yet, awarding its XP with
// reason achievement_<id>. Unlocks are permanent: entries already unlocked
// are never evaluated again. The whole sequence runs under the user's lock
// and in one store transaction.
func (s *AchievementService) CheckAndAwardAchievements(ctx context.Context, userID string, snapshot models.UserDataSnapshot) ([]models.UnlockedAchievement, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var awarded []models.UnlockedAchievement
	err = s.store.Transaction(ctx, func(tx database.DocumentStore) error {
		awarded = awarded[:0]

		unlockedIDs, err := s.unlockedIDs(ctx, tx, userID)
		if err != nil {
			return err
		}

		newly := evaluateCatalog(s.catalog, snapshot, unlockedIDs)
		if len(newly) == 0 {
			return nil
		}

		now := s.now()
		for _, def := range newly {
			rec := models.UnlockedAchievement{
				ID:               s.newID(),
				UserID:           userID,
				AchievementID:    def.ID,
				AchievementName:  def.Name,
				Category:         def.Category,
				Rarity:           def.Rarity,
				XPReward:         def.XPReward,
				ProgressCurrent:  1,
				ProgressRequired: 1,
				UnlockedAt:       now,
			}
			rec.CreatedAt, rec.UpdatedAt = now, now

			if _, err := tx.CreateDocument(ctx, database.CollectionAchievements, rec.ID, unlockedFields(&rec)); err != nil {
				return err
			}
			if _, err := s.progression.awardXP(ctx, tx, userID, def.XPReward, "achievement_"+def.ID); err != nil {
				return err
			}
			awarded = append(awarded, rec)
		}

		return s.progression.incrementAchievementsCount(ctx, tx, userID, len(awarded))
	})
	if err != nil {
		return nil, err
	}
	if awarded == nil {
		awarded = []models.UnlockedAchievement{}
	}
	return awarded, nil
}

func (s *AchievementService) unlockedIDs(ctx context.Context, store database.DocumentStore, userID string) (map[string]bool, error) {
	docs, err := store.ListDocuments(ctx, database.CollectionAchievements, database.Filters{"user_id": userID})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(docs))
	for _, d := range docs {
		ids[d.String("achievement_id")] = true
	}
	return ids, nil
}

// ListUnlocked returns the user's unlock records.
func (s *AchievementService) ListUnlocked(ctx context.Context, userID string) ([]models.UnlockedAchievement, error) {
	docs, err := s.store.ListDocuments(ctx, database.CollectionAchievements, database.Filters{"user_id": userID})
	if err != nil {
		return nil, err
	}
	out := make([]models.UnlockedAchievement, 0, len(docs))
	for _, d := range docs {
		out = append(out, unlockedFromDocument(d))
	}
	return out, nil
}

// GetAchievementProgress reports every catalog entry with its unlock state.
// Locked entries with a tracker report the raw snapshot value; locked
// entries without one report {0, 1}. Nothing is written.
func (s *AchievementService) GetAchievementProgress(ctx context.Context, userID string, snapshot models.UserDataSnapshot) ([]models.AchievementStatus, error) {
	unlocked, err := s.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.UnlockedAchievement, len(unlocked))
	for _, u := range unlocked {
		byID[u.AchievementID] = u
	}

	out := make([]models.AchievementStatus, 0, len(s.catalog))
	for _, def := range s.catalog {
		st := models.AchievementStatus{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			XPReward:    def.XPReward,
			Rarity:      def.Rarity,
			Progress:    models.Progress{Current: 0, Required: 1},
		}

		if u, ok := byID[def.ID]; ok {
			st.IsUnlocked = true
			if !u.UnlockedAt.IsZero() {
				t := u.UnlockedAt
				st.UnlockedAt = &t
			}
			if u.ProgressRequired > 0 {
				st.Progress = models.Progress{Current: float64(u.ProgressCurrent), Required: float64(u.ProgressRequired)}
			} else {
				st.Progress = models.Progress{Current: 1, Required: 1}
			}
		} else if tr := trackerOf(def); tr != nil {
			cur, req := tr.Progress(snapshot)
			st.Progress = models.Progress{Current: cur, Required: req}
		}

		out = append(out, st)
	}
	return out, nil
}

// TriggerAchievementCheck runs the full check for userID after an action.
// It fails open: on error the result is an empty list together with the
// error, which callers log and otherwise ignore. action is only logged.
func (s *AchievementService) TriggerAchievementCheck(ctx context.Context, userID, action string) ([]models.UnlockedAchievement, error) {
	empty := []models.UnlockedAchievement{}

	snapshot, err := s.GetUserDataForAchievements(ctx, userID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("achievement check skipped: could not load user data")
		return empty, err
	}

	result, err := s.CheckAndAwardAchievements(ctx, userID, snapshot)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("achievement check failed")
		return empty, err
	}

	if len(result) > 0 {
		ids := make([]string, len(result))
		for i, r := range result {
			ids[i] = r.AchievementID
		}
		logger.Info().
			Str("user_id", userID).
			Str("action", action).
			Strs("achievements", ids).
			Msg("🏆 Achievements unlocked")
	}
	return result, nil
}
