package models

// Snapshot field names, as referenced by catalog conditions.
const (
	FieldOnboardingCompleted   = "onboardingCompleted"
	FieldProfileCompleted      = "profileCompleted"
	FieldJobsCreated           = "jobsCreated"
	FieldApplicationsSubmitted = "applicationsSubmitted"
	FieldApplicationsAccepted  = "applicationsAccepted"
	FieldJobsCompleted         = "jobsCompleted"
	FieldAverageRating         = "averageRating"
	FieldOrdersPlaced          = "ordersPlaced"
	FieldInteractions          = "interactions"
	FieldLikesGiven            = "likesGiven"
	FieldCommentsMade          = "commentsMade"
	FieldAIInteractions        = "aiInteractions"
	FieldReviewsWritten        = "reviewsWritten"
	FieldStreakDays            = "streakDays"
	FieldCurrentLevel          = "currentLevel"
	FieldTotalXP               = "totalXP"
)

// UserDataSnapshot merges a user's activity counters from every source
// collection. It is recomputed on each evaluation and never stored.
type UserDataSnapshot struct {
	OnboardingCompleted   bool    `json:"onboardingCompleted"`
	ProfileCompleted      bool    `json:"profileCompleted"`
	JobsCreated           int64   `json:"jobsCreated"`
	ApplicationsSubmitted int64   `json:"applicationsSubmitted"`
	ApplicationsAccepted  int64   `json:"applicationsAccepted"`
	JobsCompleted         int64   `json:"jobsCompleted"`
	AverageRating         float64 `json:"averageRating"`
	OrdersPlaced          int64   `json:"ordersPlaced"`
	Interactions          int64   `json:"interactions"`
	LikesGiven            int64   `json:"likesGiven"`
	CommentsMade          int64   `json:"commentsMade"`
	AIInteractions        int64   `json:"aiInteractions"`
	ReviewsWritten        int64   `json:"reviewsWritten"`
	StreakDays            int64   `json:"streakDays"`
	CurrentLevel          int64   `json:"currentLevel"`
	TotalXP               int64   `json:"totalXP"`
}

// Value implements rules.Facts. Booleans read as 0 or 1.
func (s UserDataSnapshot) Value(field string) (float64, bool) {
	switch field {
	case FieldOnboardingCompleted:
		return boolValue(s.OnboardingCompleted), true
	case FieldProfileCompleted:
		return boolValue(s.ProfileCompleted), true
	case FieldJobsCreated:
		return float64(s.JobsCreated), true
	case FieldApplicationsSubmitted:
		return float64(s.ApplicationsSubmitted), true
	case FieldApplicationsAccepted:
		return float64(s.ApplicationsAccepted), true
	case FieldJobsCompleted:
		return float64(s.JobsCompleted), true
	case FieldAverageRating:
		return s.AverageRating, true
	case FieldOrdersPlaced:
		return float64(s.OrdersPlaced), true
	case FieldInteractions:
		return float64(s.Interactions), true
	case FieldLikesGiven:
		return float64(s.LikesGiven), true
	case FieldCommentsMade:
		return float64(s.CommentsMade), true
	case FieldAIInteractions:
		return float64(s.AIInteractions), true
	case FieldReviewsWritten:
		return float64(s.ReviewsWritten), true
	case FieldStreakDays:
		return float64(s.StreakDays), true
	case FieldCurrentLevel:
		return float64(s.CurrentLevel), true
	case FieldTotalXP:
		return float64(s.TotalXP), true
	}
	return 0, false
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
