package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freelance-marketplace/apperrors"
	"freelance-marketplace/database"
	"freelance-marketplace/logger"
	"freelance-marketplace/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MarketplaceService is the write surface whose actions feed the achievement
// counters. Every successful action touches the actor's streak and fires the
// achievement trigger; neither can fail the action.
type MarketplaceService struct {
	store       database.DocumentStore
	progression *ProgressionService
	trigger     AchievementTrigger

	now   func() time.Time
	newID func() string
}

func NewMarketplaceService(store database.DocumentStore, progression *ProgressionService, trigger AchievementTrigger) *MarketplaceService {
	return &MarketplaceService{
		store:       store,
		progression: progression,
		trigger:     trigger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

type ProfileInput struct {
	DisplayName         *string  `json:"display_name"`
	Role                *string  `json:"role"`
	Bio                 *string  `json:"bio"`
	Skills              []string `json:"skills"`
	OnboardingCompleted *bool    `json:"onboarding_completed"`
}

type JobInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
}

type OrderInput struct {
	SellerID string  `json:"seller_id"`
	JobID    string  `json:"job_id"`
	Amount   float64 `json:"amount"`
}

type InteractionInput struct {
	TargetID string `json:"target_id"`
	Type     string `json:"interaction_type"`
}

type ReviewInput struct {
	RevieweeID    string  `json:"reviewee_id"`
	OrderID       string  `json:"order_id"`
	OverallRating float64 `json:"overall_rating"`
	Comment       string  `json:"comment"`
}

// UpsertProfile creates or patches the caller's profile. Only fields present
// in the input change. Onboarding, once completed, stays completed.
func (s *MarketplaceService) UpsertProfile(ctx context.Context, userID string, in ProfileInput) (*models.UserProfile, []models.UnlockedAchievement, error) {
	if in.Role != nil {
		switch models.ProfileRole(*in.Role) {
		case models.RoleClient, models.RoleFreelancer:
		default:
			return nil, nil, apperrors.BadRequest("role must be client or freelancer")
		}
	}

	existing, err := database.First(ctx, s.store, database.CollectionUserProfiles, database.Filters{"user_id": userID})
	if err != nil {
		return nil, nil, err
	}

	profile := models.UserProfile{UserID: userID}
	if existing != nil {
		profile = profileFromDocument(existing)
	}
	if in.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Role != nil {
		profile.Role = models.ProfileRole(*in.Role)
	}
	if in.Bio != nil {
		profile.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Skills != nil {
		profile.Skills = joinSkills(in.Skills)
	}
	if in.OnboardingCompleted != nil && *in.OnboardingCompleted {
		profile.OnboardingCompleted = true
	}
	profile.ProfileCompleted = profile.DisplayName != "" && profile.Bio != "" && profile.Skills != ""

	fields := map[string]interface{}{
		"display_name":         profile.DisplayName,
		"role":                 string(profile.Role),
		"bio":                  profile.Bio,
		"skills":               profile.Skills,
		"onboarding_completed": profile.OnboardingCompleted,
		"profile_completed":    profile.ProfileCompleted,
	}

	var doc database.Document
	if existing == nil {
		fields["user_id"] = userID
		fields["completed_jobs"] = 0
		fields["average_rating"] = 0.0
		doc, err = s.store.CreateDocument(ctx, database.CollectionUserProfiles, s.newID(), fields)
	} else {
		doc, err = s.store.UpdateDocument(ctx, database.CollectionUserProfiles, existing.ID(), fields)
	}
	if err != nil {
		return nil, nil, err
	}

	out := profileFromDocument(doc)
	return &out, s.afterAction(ctx, userID, "profile_updated"), nil
}

func joinSkills(skills []string) string {
	kept := make([]string, 0, len(skills))
	for _, sk := range skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			kept = append(kept, sk)
		}
	}
	return strings.Join(kept, ",")
}

// CreateJob posts a job for clientID. The slug is the slugified title plus a
// short id suffix so repeated titles stay distinct.
func (s *MarketplaceService) CreateJob(ctx context.Context, clientID string, in JobInput) (*models.Job, []models.UnlockedAchievement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, apperrors.BadRequest("title is required")
	}
	if in.Budget < 0 {
		return nil, nil, apperrors.BadRequest("budget cannot be negative")
	}

	id := s.newID()
	doc, err := s.store.CreateDocument(ctx, database.CollectionJobs, id, map[string]interface{}{
		"client_id":   clientID,
		"title":       title,
		"slug":        jobSlug(title, id),
		"description": in.Description,
		"budget":      in.Budget,
		"status":      string(models.JobStatusOpen),
	})
	if err != nil {
		return nil, nil, err
	}

	job := jobFromDocument(doc)
	return &job, s.afterAction(ctx, clientID, "job_created"), nil
}

func jobSlug(title, id string) string {
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	base := slug.Make(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// SubmitApplication applies freelancerID to an open job they do not own.
func (s *MarketplaceService) SubmitApplication(ctx context.Context, freelancerID, jobID, coverLetter string) (*models.Application, []models.UnlockedAchievement, error) {
	jobDoc, err := database.First(ctx, s.store, database.CollectionJobs, database.Filters{"id": jobID})
	if err != nil {
		return nil, nil, err
	}
	if jobDoc == nil {
		return nil, nil, apperrors.NotFound("job not found")
	}
	job := jobFromDocument(jobDoc)
	if job.ClientID == freelancerID {
		return nil, nil, apperrors.BadRequest("cannot apply to your own job")
	}
	if job.Status != models.JobStatusOpen {
		return nil, nil, apperrors.Conflict("job is not accepting applications")
	}

	dupes, err := s.store.ListDocuments(ctx, database.CollectionApplications, database.Filters{
		"job_id":        jobID,
		"freelancer_id": freelancerID,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(dupes) > 0 {
		return nil, nil, apperrors.Conflict("already applied to this job")
	}

	doc, err := s.store.CreateDocument(ctx, database.CollectionApplications, s.newID(), map[string]interface{}{
		"job_id":        jobID,
		"freelancer_id": freelancerID,
		"cover_letter":  strings.TrimSpace(coverLetter),
		"status":        string(models.ApplicationPending),
	})
	if err != nil {
		return nil, nil, err
	}

	app := applicationFromDocument(doc)
	return &app, s.afterAction(ctx, freelancerID, "application_submitted"), nil
}

// AcceptApplication is done by the job's client. The job moves to
// in_progress and the freelancer's achievements are rechecked too.
func (s *MarketplaceService) AcceptApplication(ctx context.Context, clientID, applicationID string) (*models.Application, []models.UnlockedAchievement, error) {
	appDoc, err := database.First(ctx, s.store, database.CollectionApplications, database.Filters{"id": applicationID})
	if err != nil {
		return nil, nil, err
	}
	if appDoc == nil {
		return nil, nil, apperrors.NotFound("application not found")
	}
	app := applicationFromDocument(appDoc)

	jobDoc, err := database.First(ctx, s.store, database.CollectionJobs, database.Filters{"id": app.JobID})
	if err != nil {
		return nil, nil, err
	}
	if jobDoc == nil {
		return nil, nil, apperrors.NotFound("job not found")
	}
	if jobDoc.String("client_id") != clientID {
		return nil, nil, apperrors.Forbidden("only the job owner can accept applications")
	}
	if app.Status != models.ApplicationPending {
		return nil, nil, apperrors.Conflict(fmt.Sprintf("application is already %s", app.Status))
	}

	var updated database.Document
	err = s.store.Transaction(ctx, func(tx database.DocumentStore) error {
		var err error
		updated, err = tx.UpdateDocument(ctx, database.CollectionApplications, app.ID, map[string]interface{}{
			"status": string(models.ApplicationAccepted),
		})
		if err != nil {
			return err
		}
		_, err = tx.UpdateDocument(ctx, database.CollectionJobs, app.JobID, map[string]interface{}{
			"status": string(models.JobStatusInProgress),
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, app.FreelancerID, "application_accepted")
	out := applicationFromDocument(updated)
	return &out, s.afterAction(ctx, clientID, "application_accepted"), nil
}

// PlaceOrder records a pending purchase by buyerID from SellerID.
func (s *MarketplaceService) PlaceOrder(ctx context.Context, buyerID string, in OrderInput) (*models.Order, []models.UnlockedAchievement, error) {
	if in.SellerID == "" {
		return nil, nil, apperrors.BadRequest("seller_id is required")
	}
	if in.SellerID == buyerID {
		return nil, nil, apperrors.BadRequest("cannot order from yourself")
	}
	if in.Amount <= 0 {
		return nil, nil, apperrors.BadRequest("amount must be positive")
	}
	if in.JobID != "" {
		job, err := database.First(ctx, s.store, database.CollectionJobs, database.Filters{"id": in.JobID})
		if err != nil {
			return nil, nil, err
		}
		if job == nil {
			return nil, nil, apperrors.NotFound("job not found")
		}
	}

	doc, err := s.store.CreateDocument(ctx, database.CollectionOrders, s.newID(), map[string]interface{}{
		"buyer_id":  buyerID,
		"seller_id": in.SellerID,
		"job_id":    in.JobID,
		"amount":    in.Amount,
		"status":    string(models.OrderPending),
	})
	if err != nil {
		return nil, nil, err
	}

	order := orderFromDocument(doc)
	return &order, s.afterAction(ctx, buyerID, "order_placed"), nil
}

// CompleteOrder is confirmed by the buyer and credits the seller with a
// completed job.
func (s *MarketplaceService) CompleteOrder(ctx context.Context, buyerID, orderID string) (*models.Order, []models.UnlockedAchievement, error) {
	order, err := s.completeOrder(ctx, buyerID, orderID)
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, order.SellerID, "order_completed")
	return order, s.afterAction(ctx, buyerID, "order_completed"), nil
}

// completeOrder holds the order's lock from the status check to the commit,
// so the seller is credited once per order.
func (s *MarketplaceService) completeOrder(ctx context.Context, buyerID, orderID string) (*models.Order, error) {
	unlock, err := s.progression.locker.Lock(ctx, "order:"+orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	defer unlock()

	orderDoc, err := database.First(ctx, s.store, database.CollectionOrders, database.Filters{"id": orderID})
	if err != nil {
		return nil, err
	}
	if orderDoc == nil {
		return nil, apperrors.NotFound("order not found")
	}
	order := orderFromDocument(orderDoc)
	if order.BuyerID != buyerID {
		return nil, apperrors.Forbidden("only the buyer can complete an order")
	}
	if order.Status != models.OrderPending {
		return nil, apperrors.Conflict("order is already completed")
	}

	var updated database.Document
	err = s.store.Transaction(ctx, func(tx database.DocumentStore) error {
		var err error
		updated, err = tx.UpdateDocument(ctx, database.CollectionOrders, order.ID, map[string]interface{}{
			"status": string(models.OrderCompleted),
		})
		if err != nil {
			return err
		}
		seller, err := s.ensureProfile(ctx, tx, order.SellerID)
		if err != nil {
			return err
		}
		_, err = tx.UpdateDocument(ctx, database.CollectionUserProfiles, seller.ID(), map[string]interface{}{
			"completed_jobs": seller.Int("completed_jobs") + 1,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	out := orderFromDocument(updated)
	return &out, nil
}

// RecordInteraction stores a like, comment, follow, share or AI assist.
func (s *MarketplaceService) RecordInteraction(ctx context.Context, userID string, in InteractionInput) (*models.Interaction, []models.UnlockedAchievement, error) {
	kind := models.InteractionType(in.Type)
	if !kind.Valid() {
		return nil, nil, apperrors.BadRequest(fmt.Sprintf("unknown interaction type %q", in.Type))
	}

	doc, err := s.store.CreateDocument(ctx, database.CollectionInteractions, s.newID(), map[string]interface{}{
		"user_id":          userID,
		"target_id":        in.TargetID,
		"interaction_type": string(kind),
	})
	if err != nil {
		return nil, nil, err
	}

	out := interactionFromDocument(doc)
	return &out, s.afterAction(ctx, userID, "interaction_"+string(kind)), nil
}

// SubmitReview rates revieweeID and recomputes their average rating from all
// reviews they have received. A review tied to an order must come from one
// of its parties once it is completed.
func (s *MarketplaceService) SubmitReview(ctx context.Context, reviewerID string, in ReviewInput) (*models.RatingReview, []models.UnlockedAchievement, error) {
	if in.RevieweeID == "" {
		return nil, nil, apperrors.BadRequest("reviewee_id is required")
	}
	if in.RevieweeID == reviewerID {
		return nil, nil, apperrors.BadRequest("cannot review yourself")
	}
	if in.OverallRating < 1 || in.OverallRating > 5 {
		return nil, nil, apperrors.BadRequest("overall_rating must be between 1 and 5")
	}
	if in.OrderID != "" {
		orderDoc, err := database.First(ctx, s.store, database.CollectionOrders, database.Filters{"id": in.OrderID})
		if err != nil {
			return nil, nil, err
		}
		if orderDoc == nil {
			return nil, nil, apperrors.NotFound("order not found")
		}
		order := orderFromDocument(orderDoc)
		if order.BuyerID != reviewerID && order.SellerID != reviewerID {
			return nil, nil, apperrors.Forbidden("only order parties can review it")
		}
		if order.Status != models.OrderCompleted {
			return nil, nil, apperrors.Conflict("order is not completed yet")
		}
	}

	var created database.Document
	err := s.store.Transaction(ctx, func(tx database.DocumentStore) error {
		var err error
		created, err = tx.CreateDocument(ctx, database.CollectionRatingsReviews, s.newID(), map[string]interface{}{
			"reviewer_id":    reviewerID,
			"reviewee_id":    in.RevieweeID,
			"order_id":       in.OrderID,
			"overall_rating": in.OverallRating,
			"comment":        strings.TrimSpace(in.Comment),
		})
		if err != nil {
			return err
		}

		received, err := tx.ListDocuments(ctx, database.CollectionRatingsReviews, database.Filters{"reviewee_id": in.RevieweeID})
		if err != nil {
			return err
		}
		var sum float64
		for _, r := range received {
			sum += r.Float("overall_rating")
		}
		avg := 0.0
		if len(received) > 0 {
			avg = sum / float64(len(received))
		}

		reviewee, err := s.ensureProfile(ctx, tx, in.RevieweeID)
		if err != nil {
			return err
		}
		_, err = tx.UpdateDocument(ctx, database.CollectionUserProfiles, reviewee.ID(), map[string]interface{}{
			"average_rating": avg,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, in.RevieweeID, "review_received")
	out := reviewFromDocument(created)
	return &out, s.afterAction(ctx, reviewerID, "review_submitted"), nil
}

// ensureProfile returns userID's profile, creating an empty one for users
// who never filled theirs in.
func (s *MarketplaceService) ensureProfile(ctx context.Context, store database.DocumentStore, userID string) (database.Document, error) {
	doc, err := database.First(ctx, store, database.CollectionUserProfiles, database.Filters{"user_id": userID})
	if err != nil || doc != nil {
		return doc, err
	}
	return store.CreateDocument(ctx, database.CollectionUserProfiles, s.newID(), map[string]interface{}{
		"user_id":              userID,
		"onboarding_completed": false,
		"profile_completed":    false,
		"completed_jobs":       0,
		"average_rating":       0.0,
	})
}

// afterAction updates the actor's streak and runs their achievement check.
// Failures are logged and swallowed.
func (s *MarketplaceService) afterAction(ctx context.Context, userID, action string) []models.UnlockedAchievement {
	if s.progression != nil {
		if _, err := s.progression.TouchActivity(ctx, userID); err != nil {
			logger.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("streak update failed")
		}
	}
	return s.notify(ctx, userID, action)
}

// notify runs the achievement check for a user affected by someone else's action.
func (s *MarketplaceService) notify(ctx context.Context, userID, action string) []models.UnlockedAchievement {
	if s.trigger == nil {
		return []models.UnlockedAchievement{}
	}
	unlocked, err := s.trigger.TriggerAchievementCheck(ctx, userID, action)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("achievement trigger failed, continuing")
	}
	return unlocked
}
