package services

import (
	"context"

	"freelance-marketplace/database"
	"freelance-marketplace/models"

	"golang.org/x/sync/errgroup"
)

// Aggregator builds the UserDataSnapshot the achievement rules read. Each
// source collection is queried independently and in parallel; a source with
// no records leaves its fields at zero.
type Aggregator struct {
	store database.DocumentStore
}

func NewAggregator(store database.DocumentStore) *Aggregator {
	return &Aggregator{store: store}
}

// GetUserDataForAchievements returns an empty snapshot and the first store
// error if any source fails.
func (a *Aggregator) GetUserDataForAchievements(ctx context.Context, userID string) (models.UserDataSnapshot, error) {
	var snap models.UserDataSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		doc, err := database.First(gctx, a.store, database.CollectionUserProgress, database.Filters{"user_id": userID})
		if err != nil || doc == nil {
			return err
		}
		snap.StreakDays = doc.Int("streak_days")
		snap.CurrentLevel = doc.Int("current_level")
		snap.TotalXP = doc.Int("total_xp")
		return nil
	})

	g.Go(func() error {
		doc, err := database.First(gctx, a.store, database.CollectionUserProfiles, database.Filters{"user_id": userID})
		if err != nil || doc == nil {
			return err
		}
		snap.OnboardingCompleted = doc.Bool("onboarding_completed")
		snap.ProfileCompleted = doc.Bool("profile_completed")
		snap.JobsCompleted = doc.Int("completed_jobs")
		snap.AverageRating = doc.Float("average_rating")
		return nil
	})

	g.Go(func() error {
		docs, err := a.store.ListDocuments(gctx, database.CollectionJobs, database.Filters{"client_id": userID})
		if err != nil {
			return err
		}
		snap.JobsCreated = int64(len(docs))
		return nil
	})

	g.Go(func() error {
		docs, err := a.store.ListDocuments(gctx, database.CollectionApplications, database.Filters{"freelancer_id": userID})
		if err != nil {
			return err
		}
		snap.ApplicationsSubmitted = int64(len(docs))
		snap.ApplicationsAccepted = countWhere(docs, "status", string(models.ApplicationAccepted))
		return nil
	})

	g.Go(func() error {
		docs, err := a.store.ListDocuments(gctx, database.CollectionOrders, database.Filters{"buyer_id": userID})
		if err != nil {
			return err
		}
		snap.OrdersPlaced = int64(len(docs))
		return nil
	})

	g.Go(func() error {
		docs, err := a.store.ListDocuments(gctx, database.CollectionInteractions, database.Filters{"user_id": userID})
		if err != nil {
			return err
		}
		snap.Interactions = int64(len(docs))
		snap.LikesGiven = countWhere(docs, "interaction_type", string(models.InteractionLike))
		snap.CommentsMade = countWhere(docs, "interaction_type", string(models.InteractionComment))
		snap.AIInteractions = countWhere(docs, "interaction_type", string(models.InteractionAIAssist))
		return nil
	})

	g.Go(func() error {
		docs, err := a.store.ListDocuments(gctx, database.CollectionRatingsReviews, database.Filters{"reviewer_id": userID})
		if err != nil {
			return err
		}
		snap.ReviewsWritten = int64(len(docs))
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.UserDataSnapshot{}, err
	}
	return snap, nil
}

func countWhere(docs []database.Document, field, value string) int64 {
	var n int64
	for _, d := range docs {
		if d.String(field) == value {
			n++
		}
	}
	return n
}
