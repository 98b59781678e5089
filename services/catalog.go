package services

import (
	"freelance-marketplace/models"
	"freelance-marketplace/rules"
)

// DefaultCatalog is the built-in achievement table. Conditions only ever
// compare monotonic counters, except the rating clauses; an unlock is kept
// even if the rating later drops.
var DefaultCatalog = []models.AchievementDefinition{
	// --- onboarding ---
	{
		ID:          "welcome_aboard",
		Name:        "Welcome Aboard",
		Description: "Finish onboarding",
		Icon:        "👋",
		Category:    models.CategoryOnboarding,
		XPReward:    50,
		Rarity:      models.RarityCommon,
		Condition:   rules.IsTrue(models.FieldOnboardingCompleted),
	},
	{
		ID:          "profile_pro",
		Name:        "Profile Pro",
		Description: "Complete your profile with a bio and skills",
		Icon:        "🪪",
		Category:    models.CategoryOnboarding,
		XPReward:    75,
		Rarity:      models.RarityCommon,
		Condition:   rules.IsTrue(models.FieldProfileCompleted),
	},

	// --- client ---
	{
		ID:          "first_job_posted",
		Name:        "First Job Posted",
		Description: "Post your first job",
		Icon:        "📝",
		Category:    models.CategoryClient,
		XPReward:    50,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldJobsCreated, 1),
	},
	{
		ID:          "active_client",
		Name:        "Active Client",
		Description: "Post 5 jobs",
		Icon:        "📋",
		Category:    models.CategoryClient,
		XPReward:    100,
		Rarity:      models.RarityUncommon,
		Condition:   rules.CountAtLeast(models.FieldJobsCreated, 5),
	},
	{
		ID:          "prolific_client",
		Name:        "Prolific Client",
		Description: "Post 25 jobs",
		Icon:        "🏢",
		Category:    models.CategoryClient,
		XPReward:    300,
		Rarity:      models.RarityRare,
		Condition:   rules.CountAtLeast(models.FieldJobsCreated, 25),
	},
	{
		ID:          "first_purchase",
		Name:        "First Purchase",
		Description: "Place your first order",
		Icon:        "🛒",
		Category:    models.CategoryClient,
		XPReward:    50,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldOrdersPlaced, 1),
	},
	{
		ID:          "big_spender",
		Name:        "Big Spender",
		Description: "Place 10 orders",
		Icon:        "💰",
		Category:    models.CategoryClient,
		XPReward:    250,
		Rarity:      models.RarityRare,
		Condition:   rules.CountAtLeast(models.FieldOrdersPlaced, 10),
	},

	// --- freelancer ---
	{
		ID:          "first_application",
		Name:        "First Pitch",
		Description: "Apply to your first job",
		Icon:        "📨",
		Category:    models.CategoryFreelancer,
		XPReward:    25,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldApplicationsSubmitted, 1),
	},
	{
		ID:          "job_hunter",
		Name:        "Job Hunter",
		Description: "Apply to 10 jobs",
		Icon:        "🔍",
		Category:    models.CategoryFreelancer,
		XPReward:    100,
		Rarity:      models.RarityUncommon,
		Condition:   rules.CountAtLeast(models.FieldApplicationsSubmitted, 10),
	},
	{
		ID:          "hired",
		Name:        "Hired!",
		Description: "Get an application accepted",
		Icon:        "🤝",
		Category:    models.CategoryFreelancer,
		XPReward:    100,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldApplicationsAccepted, 1),
	},
	{
		ID:          "first_gig",
		Name:        "First Gig",
		Description: "Complete your first job",
		Icon:        "✅",
		Category:    models.CategoryFreelancer,
		XPReward:    100,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldJobsCompleted, 1),
	},
	{
		ID:          "reliable_freelancer",
		Name:        "Reliable Freelancer",
		Description: "Complete 10 jobs with an average rating of 4.0 or more",
		Icon:        "⭐",
		Category:    models.CategoryFreelancer,
		XPReward:    300,
		Rarity:      models.RarityRare,
		Condition: rules.All(
			rules.CountAtLeast(models.FieldJobsCompleted, 10),
			rules.RatingAtLeast(models.FieldAverageRating, 4.0),
		),
		Tracker: rules.CountAtLeast(models.FieldJobsCompleted, 10),
	},
	{
		ID:          "top_rated",
		Name:        "Top Rated",
		Description: "Complete 25 jobs with an average rating of 4.8 or more",
		Icon:        "🌟",
		Category:    models.CategoryFreelancer,
		XPReward:    750,
		Rarity:      models.RarityEpic,
		Condition: rules.All(
			rules.CountAtLeast(models.FieldJobsCompleted, 25),
			rules.RatingAtLeast(models.FieldAverageRating, 4.8),
		),
		Tracker: rules.CountAtLeast(models.FieldJobsCompleted, 25),
	},

	// --- social ---
	{
		ID:          "first_like",
		Name:        "Appreciator",
		Description: "Like something for the first time",
		Icon:        "❤️",
		Category:    models.CategorySocial,
		XPReward:    10,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldLikesGiven, 1),
	},
	{
		ID:          "conversationalist",
		Name:        "Conversationalist",
		Description: "Leave 10 comments",
		Icon:        "💬",
		Category:    models.CategorySocial,
		XPReward:    75,
		Rarity:      models.RarityUncommon,
		Condition:   rules.CountAtLeast(models.FieldCommentsMade, 10),
	},
	{
		ID:          "community_member",
		Name:        "Community Member",
		Description: "Interact 25 times",
		Icon:        "🫂",
		Category:    models.CategorySocial,
		XPReward:    100,
		Rarity:      models.RarityUncommon,
		Condition:   rules.CountAtLeast(models.FieldInteractions, 25),
	},
	{
		ID:          "first_review",
		Name:        "Critic",
		Description: "Write your first review",
		Icon:        "🖊️",
		Category:    models.CategorySocial,
		XPReward:    25,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldReviewsWritten, 1),
	},
	{
		ID:          "trusted_reviewer",
		Name:        "Trusted Reviewer",
		Description: "Write 10 reviews",
		Icon:        "🧐",
		Category:    models.CategorySocial,
		XPReward:    150,
		Rarity:      models.RarityRare,
		Condition:   rules.CountAtLeast(models.FieldReviewsWritten, 10),
	},

	// --- ai ---
	{
		ID:          "ai_explorer",
		Name:        "AI Explorer",
		Description: "Use the AI assistant once",
		Icon:        "🤖",
		Category:    models.CategoryAI,
		XPReward:    25,
		Rarity:      models.RarityCommon,
		Condition:   rules.CountAtLeast(models.FieldAIInteractions, 1),
	},
	{
		ID:          "ai_power_user",
		Name:        "AI Power User",
		Description: "Use the AI assistant 50 times",
		Icon:        "🧠",
		Category:    models.CategoryAI,
		XPReward:    200,
		Rarity:      models.RarityRare,
		Condition:   rules.CountAtLeast(models.FieldAIInteractions, 50),
	},

	// --- level ---
	{
		ID:          "level_5",
		Name:        "Rising Star",
		Description: "Reach level 5",
		Icon:        "🥉",
		Category:    models.CategoryLevel,
		XPReward:    100,
		Rarity:      models.RarityUncommon,
		Condition:   rules.CountAtLeast(models.FieldCurrentLevel, 5),
	},
	{
		ID:          "level_10",
		Name:        "Seasoned Pro",
		Description: "Reach level 10",
		Icon:        "🥈",
		Category:    models.CategoryLevel,
		XPReward:    250,
		Rarity:      models.RarityRare,
		Condition:   rules.CountAtLeast(models.FieldCurrentLevel, 10),
	},
	{
		ID:          "level_25",
		Name:        "Marketplace Veteran",
		Description: "Reach level 25",
		Icon:        "🥇",
		Category:    models.CategoryLevel,
		XPReward:    1000,
		Rarity:      models.RarityLegendary,
		Condition:   rules.CountAtLeast(models.FieldCurrentLevel, 25),
	},

	// --- special ---
	{
		ID:          "week_streak",
		Name:        "On a Roll",
		Description: "Stay active 7 days in a row",
		Icon:        "🔥",
		Category:    models.CategorySpecial,
		XPReward:    100,
		Rarity:      models.RarityUncommon,
		Condition:   rules.CountAtLeast(models.FieldStreakDays, 7),
	},
	{
		ID:          "month_streak",
		Name:        "Unstoppable",
		Description: "Stay active 30 days in a row",
		Icon:        "☄️",
		Category:    models.CategorySpecial,
		XPReward:    500,
		Rarity:      models.RarityEpic,
		Condition:   rules.CountAtLeast(models.FieldStreakDays, 30),
	},
	{
		ID:          "marketplace_legend",
		Name:        "Marketplace Legend",
		Description: "Complete 100 jobs at 4.9+ and write 50 reviews",
		Icon:        "👑",
		Category:    models.CategorySpecial,
		XPReward:    2500,
		Rarity:      models.RarityLegendary,
		Condition: rules.All(
			rules.CountAtLeast(models.FieldJobsCompleted, 100),
			rules.RatingAtLeast(models.FieldAverageRating, 4.9),
			rules.CountAtLeast(models.FieldReviewsWritten, 50),
		),
		Tracker: rules.CountAtLeast(models.FieldJobsCompleted, 100),
	},
}

// trackerOf falls back to the condition when it can report progress itself.
func trackerOf(def models.AchievementDefinition) rules.Tracker {
	if def.Tracker != nil {
		return def.Tracker
	}
	return rules.TrackerFor(def.Condition)
}

// evaluateCatalog returns the definitions not in unlocked whose condition
// now holds. It never re-checks unlocked entries.
func evaluateCatalog(catalog []models.AchievementDefinition, facts rules.Facts, unlocked map[string]bool) []models.AchievementDefinition {
	var out []models.AchievementDefinition
	for _, def := range catalog {
		if unlocked[def.ID] {
			continue
		}
		if def.Condition != nil && def.Condition.Evaluate(facts) {
			out = append(out, def)
		}
	}
	return out
}
