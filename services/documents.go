package services

import (
	"freelance-marketplace/database"
	"freelance-marketplace/models"
)

func progressFromDocument(doc database.Document) models.UserProgress {
	p := models.UserProgress{
		ID:                doc.ID(),
		UserID:            doc.String("user_id"),
		CurrentXP:         doc.Int("current_xp"),
		TotalXP:           doc.Int("total_xp"),
		CurrentLevel:      int(doc.Int("current_level")),
		NextLevelXP:       doc.Int("next_level_xp"),
		AchievementsCount: int(doc.Int("achievements_count")),
		StreakDays:        int(doc.Int("streak_days")),
	}
	if t := doc.Time("last_level_up_at"); !t.IsZero() {
		p.LastLevelUpAt = &t
	}
	if t := doc.Time("last_active_at"); !t.IsZero() {
		p.LastActiveAt = &t
	}
	p.CreatedAt = doc.Time("created_at")
	p.UpdatedAt = doc.Time("updated_at")
	return p
}

// progressXPFields are the columns an XP award rewrites.
func progressXPFields(p *models.UserProgress) map[string]interface{} {
	fields := map[string]interface{}{
		"current_xp":    p.CurrentXP,
		"total_xp":      p.TotalXP,
		"current_level": p.CurrentLevel,
		"next_level_xp": p.NextLevelXP,
	}
	if p.LastLevelUpAt != nil {
		fields["last_level_up_at"] = *p.LastLevelUpAt
	}
	return fields
}

func unlockedFromDocument(doc database.Document) models.UnlockedAchievement {
	u := models.UnlockedAchievement{
		ID:               doc.ID(),
		UserID:           doc.String("user_id"),
		AchievementID:    doc.String("achievement_id"),
		AchievementName:  doc.String("achievement_name"),
		Category:         models.AchievementCategory(doc.String("category")),
		Rarity:           models.Rarity(doc.String("rarity")),
		XPReward:         doc.Int("xp_reward"),
		ProgressCurrent:  int(doc.Int("progress_current")),
		ProgressRequired: int(doc.Int("progress_required")),
		UnlockedAt:       doc.Time("unlocked_at"),
	}
	u.CreatedAt = doc.Time("created_at")
	u.UpdatedAt = doc.Time("updated_at")
	return u
}

func unlockedFields(u *models.UnlockedAchievement) map[string]interface{} {
	return map[string]interface{}{
		"user_id":           u.UserID,
		"achievement_id":    u.AchievementID,
		"achievement_name":  u.AchievementName,
		"category":          string(u.Category),
		"rarity":            string(u.Rarity),
		"xp_reward":         u.XPReward,
		"progress_current":  u.ProgressCurrent,
		"progress_required": u.ProgressRequired,
		"unlocked_at":       u.UnlockedAt,
		"created_at":        u.UnlockedAt,
		"updated_at":        u.UnlockedAt,
	}
}

func profileFromDocument(doc database.Document) models.UserProfile {
	p := models.UserProfile{
		ID:                  doc.ID(),
		UserID:              doc.String("user_id"),
		DisplayName:         doc.String("display_name"),
		Role:                models.ProfileRole(doc.String("role")),
		Bio:                 doc.String("bio"),
		Skills:              doc.String("skills"),
		OnboardingCompleted: doc.Bool("onboarding_completed"),
		ProfileCompleted:    doc.Bool("profile_completed"),
		CompletedJobs:       doc.Int("completed_jobs"),
		AverageRating:       doc.Float("average_rating"),
	}
	p.CreatedAt = doc.Time("created_at")
	p.UpdatedAt = doc.Time("updated_at")
	return p
}

func jobFromDocument(doc database.Document) models.Job {
	j := models.Job{
		ID:          doc.ID(),
		ClientID:    doc.String("client_id"),
		Title:       doc.String("title"),
		Slug:        doc.String("slug"),
		Description: doc.String("description"),
		Budget:      doc.Float("budget"),
		Status:      models.JobStatus(doc.String("status")),
	}
	j.CreatedAt = doc.Time("created_at")
	j.UpdatedAt = doc.Time("updated_at")
	return j
}

func applicationFromDocument(doc database.Document) models.Application {
	a := models.Application{
		ID:           doc.ID(),
		JobID:        doc.String("job_id"),
		FreelancerID: doc.String("freelancer_id"),
		CoverLetter:  doc.String("cover_letter"),
		Status:       models.ApplicationStatus(doc.String("status")),
	}
	a.CreatedAt = doc.Time("created_at")
	a.UpdatedAt = doc.Time("updated_at")
	return a
}

func orderFromDocument(doc database.Document) models.Order {
	o := models.Order{
		ID:       doc.ID(),
		BuyerID:  doc.String("buyer_id"),
		SellerID: doc.String("seller_id"),
		JobID:    doc.String("job_id"),
		Amount:   doc.Float("amount"),
		Status:   models.OrderStatus(doc.String("status")),
	}
	o.CreatedAt = doc.Time("created_at")
	o.UpdatedAt = doc.Time("updated_at")
	return o
}

func interactionFromDocument(doc database.Document) models.Interaction {
	i := models.Interaction{
		ID:              doc.ID(),
		UserID:          doc.String("user_id"),
		TargetID:        doc.String("target_id"),
		InteractionType: models.InteractionType(doc.String("interaction_type")),
	}
	i.CreatedAt = doc.Time("created_at")
	i.UpdatedAt = doc.Time("updated_at")
	return i
}

func reviewFromDocument(doc database.Document) models.RatingReview {
	r := models.RatingReview{
		ID:            doc.ID(),
		ReviewerID:    doc.String("reviewer_id"),
		RevieweeID:    doc.String("reviewee_id"),
		OrderID:       doc.String("order_id"),
		OverallRating: doc.Float("overall_rating"),
		Comment:       doc.String("comment"),
	}
	r.CreatedAt = doc.Time("created_at")
	r.UpdatedAt = doc.Time("updated_at")
	return r
}
