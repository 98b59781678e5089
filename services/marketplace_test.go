package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"freelance-marketplace/database"
	"freelance-marketplace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpsertProfileUnlocksOnboarding(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	profile, unlocked, err := f.marketplace.UpsertProfile(ctx, "u1", ProfileInput{
		DisplayName:         strPtr("Ada"),
		Role:                strPtr("freelancer"),
		OnboardingCompleted: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, profile.OnboardingCompleted)
	assert.False(t, profile.ProfileCompleted)
	assert.Equal(t, []string{"welcome_aboard"}, unlockIDs(unlocked))

	profile, unlocked, err = f.marketplace.UpsertProfile(ctx, "u1", ProfileInput{
		Bio:                 strPtr("Go developer"),
		Skills:              []string{" go ", "", "postgres"},
		OnboardingCompleted: boolPtr(false),
	})
	require.NoError(t, err)
	assert.True(t, profile.OnboardingCompleted, "onboarding cannot be undone")
	assert.True(t, profile.ProfileCompleted)
	assert.Equal(t, "go,postgres", profile.Skills)
	assert.Equal(t, "Ada", profile.DisplayName)
	assert.Equal(t, []string{"profile_pro"}, unlockIDs(unlocked))

	prog, err := f.progression.GetProgress(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, prog)
	assert.Equal(t, 1, prog.StreakDays)
}

func TestUpsertProfileRejectsUnknownRole(t *testing.T) {
	f := newFixture(t, true)

	_, _, err := f.marketplace.UpsertProfile(context.Background(), "u1", ProfileInput{Role: strPtr("admin")})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestCreateJobSlugAndActiveClient(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	var all []string
	for i := 0; i < 5; i++ {
		job, unlocked, err := f.marketplace.CreateJob(ctx, "client-1", JobInput{Title: "Build a Go API!", Budget: 500})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(job.Slug, "build-a-go-api-"), job.Slug)
		assert.Equal(t, models.JobStatusOpen, job.Status)
		all = append(all, unlockIDs(unlocked)...)
	}
	assert.Equal(t, []string{"first_job_posted", "active_client"}, all)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _, err := f.marketplace.CreateJob(ctx, "c1", JobInput{Title: "  "})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, _, err = f.marketplace.CreateJob(ctx, "c1", JobInput{Title: "x", Budget: -1})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestApplicationLifecycle(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	job, _, err := f.marketplace.CreateJob(ctx, "client-1", JobInput{Title: "Logo design"})
	require.NoError(t, err)

	_, _, err = f.marketplace.SubmitApplication(ctx, "client-1", job.ID, "me")
	assert.Equal(t, http.StatusBadRequest, statusOf(err), "own job")

	_, _, err = f.marketplace.SubmitApplication(ctx, "free-1", "missing", "hi")
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	app, unlocked, err := f.marketplace.SubmitApplication(ctx, "free-1", job.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, []string{"first_application"}, unlockIDs(unlocked))

	_, _, err = f.marketplace.SubmitApplication(ctx, "free-1", job.ID, "again")
	assert.Equal(t, http.StatusConflict, statusOf(err))

	_, _, err = f.marketplace.AcceptApplication(ctx, "someone", app.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	accepted, _, err := f.marketplace.AcceptApplication(ctx, "client-1", app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.Status)

	jobDoc, err := database.First(ctx, f.store, database.CollectionJobs, database.Filters{"id": job.ID})
	require.NoError(t, err)
	assert.Equal(t, string(models.JobStatusInProgress), jobDoc.String("status"))

	freelancerUnlocks, err := f.achievements.ListUnlocked(ctx, "free-1")
	require.NoError(t, err)
	assert.Contains(t, unlockIDs(freelancerUnlocks), "hired")

	_, _, err = f.marketplace.AcceptApplication(ctx, "client-1", app.ID)
	assert.Equal(t, http.StatusConflict, statusOf(err))

	_, _, err = f.marketplace.SubmitApplication(ctx, "free-2", job.ID, "late")
	assert.Equal(t, http.StatusConflict, statusOf(err), "job no longer open")
}

func TestOrderLifecycleCreditsSeller(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _, err := f.marketplace.PlaceOrder(ctx, "buyer", OrderInput{SellerID: "buyer", Amount: 10})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, _, err = f.marketplace.PlaceOrder(ctx, "buyer", OrderInput{SellerID: "seller", Amount: 0})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	order, unlocked, err := f.marketplace.PlaceOrder(ctx, "buyer", OrderInput{SellerID: "seller", Amount: 40})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, []string{"first_purchase"}, unlockIDs(unlocked))

	_, _, err = f.marketplace.CompleteOrder(ctx, "seller", order.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	done, _, err := f.marketplace.CompleteOrder(ctx, "buyer", order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, done.Status)

	seller, err := database.First(ctx, f.store, database.CollectionUserProfiles, database.Filters{"user_id": "seller"})
	require.NoError(t, err)
	require.NotNil(t, seller)
	assert.Equal(t, int64(1), seller.Int("completed_jobs"))

	sellerUnlocks, err := f.achievements.ListUnlocked(ctx, "seller")
	require.NoError(t, err)
	assert.Equal(t, []string{"first_gig"}, unlockIDs(sellerUnlocks))

	_, _, err = f.marketplace.CompleteOrder(ctx, "buyer", order.ID)
	assert.Equal(t, http.StatusConflict, statusOf(err))
}

func TestConcurrentCompletionCreditsSellerOnce(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	order, _, err := f.marketplace.PlaceOrder(ctx, "buyer", OrderInput{SellerID: "seller", Amount: 40})
	require.NoError(t, err)

	const attempts = 6
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.marketplace.CompleteOrder(ctx, "buyer", order.ID)
			if err == nil {
				statuses[i] = http.StatusOK
				return
			}
			statuses[i] = statusOf(err)
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, st := range statuses {
		switch st {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflict)

	seller, err := database.First(ctx, f.store, database.CollectionUserProfiles, database.Filters{"user_id": "seller"})
	require.NoError(t, err)
	require.NotNil(t, seller)
	assert.Equal(t, int64(1), seller.Int("completed_jobs"))
}

func TestRecordInteraction(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _, err := f.marketplace.RecordInteraction(ctx, "u1", InteractionInput{Type: "poke"})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	rec, unlocked, err := f.marketplace.RecordInteraction(ctx, "u1", InteractionInput{TargetID: "job-1", Type: "like"})
	require.NoError(t, err)
	assert.Equal(t, models.InteractionLike, rec.InteractionType)
	assert.Equal(t, []string{"first_like"}, unlockIDs(unlocked))

	_, unlocked, err = f.marketplace.RecordInteraction(ctx, "u1", InteractionInput{Type: "ai_assist"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ai_explorer"}, unlockIDs(unlocked))
}

func TestSubmitReviewRecomputesAverage(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _, err := f.marketplace.SubmitReview(ctx, "a", ReviewInput{RevieweeID: "a", OverallRating: 5})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, _, err = f.marketplace.SubmitReview(ctx, "a", ReviewInput{RevieweeID: "target", OverallRating: 6})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	_, unlocked, err := f.marketplace.SubmitReview(ctx, "a", ReviewInput{RevieweeID: "target", OverallRating: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"first_review"}, unlockIDs(unlocked))

	_, _, err = f.marketplace.SubmitReview(ctx, "b", ReviewInput{RevieweeID: "target", OverallRating: 4})
	require.NoError(t, err)

	profile, err := database.First(ctx, f.store, database.CollectionUserProfiles, database.Filters{"user_id": "target"})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.InDelta(t, 4.5, profile.Float("average_rating"), 1e-9)
}

func TestSubmitReviewForOrder(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	order, _, err := f.marketplace.PlaceOrder(ctx, "buyer", OrderInput{SellerID: "seller", Amount: 15})
	require.NoError(t, err)

	_, _, err = f.marketplace.SubmitReview(ctx, "buyer", ReviewInput{RevieweeID: "seller", OrderID: order.ID, OverallRating: 5})
	assert.Equal(t, http.StatusConflict, statusOf(err), "order still pending")

	_, _, err = f.marketplace.SubmitReview(ctx, "stranger", ReviewInput{RevieweeID: "seller", OrderID: order.ID, OverallRating: 5})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, _, err = f.marketplace.CompleteOrder(ctx, "buyer", order.ID)
	require.NoError(t, err)

	review, _, err := f.marketplace.SubmitReview(ctx, "buyer", ReviewInput{RevieweeID: "seller", OrderID: order.ID, OverallRating: 5, Comment: " great "})
	require.NoError(t, err)
	assert.Equal(t, "great", review.Comment)
}

type stubTrigger struct {
	calls []string
	err   error
}

func (s *stubTrigger) TriggerAchievementCheck(_ context.Context, userID, action string) ([]models.UnlockedAchievement, error) {
	s.calls = append(s.calls, userID+":"+action)
	return []models.UnlockedAchievement{}, s.err
}

func TestActionsSurviveTriggerFailure(t *testing.T) {
	store := newTestStore(t)
	progression := NewProgressionService(store, NewLocalLocker(), true)
	trigger := &stubTrigger{err: &database.StoreError{Op: "list", Collection: "achievements", Err: errStoreDown}}
	svc := NewMarketplaceService(store, progression, trigger)

	job, unlocked, err := svc.CreateJob(context.Background(), "c1", JobInput{Title: "Translate docs"})

	require.NoError(t, err)
	assert.NotNil(t, job)
	assert.Empty(t, unlocked)
	assert.Equal(t, []string{"c1:job_created"}, trigger.calls)
}
