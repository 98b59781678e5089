package models

type ProfileRole string

const (
	RoleClient     ProfileRole = "client"
	RoleFreelancer ProfileRole = "freelancer"
)

// UserProfile holds the flags and pre-aggregated counters the achievement
// rules read (onboarding_completed, completed_jobs, average_rating).
type UserProfile struct {
	ID                  string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID              string      `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	DisplayName         string      `gorm:"column:display_name" json:"display_name"`
	Role                ProfileRole `gorm:"column:role;type:varchar(16)" json:"role"`
	Bio                 string      `gorm:"column:bio;type:text" json:"bio"`
	Skills              string      `gorm:"column:skills;type:text" json:"skills"` // comma separated
	OnboardingCompleted bool        `gorm:"column:onboarding_completed;default:false" json:"onboarding_completed"`
	ProfileCompleted    bool        `gorm:"column:profile_completed;default:false" json:"profile_completed"`
	CompletedJobs       int64       `gorm:"column:completed_jobs;default:0" json:"completed_jobs"`
	AverageRating       float64     `gorm:"column:average_rating;default:0" json:"average_rating"`

	Timestamps
}

func (UserProfile) TableName() string { return "user_profiles" }

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusClosed     JobStatus = "closed"
)

type Job struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ClientID    string    `gorm:"column:client_id;index;not null" json:"client_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Slug        string    `gorm:"column:slug;index" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Budget      float64   `gorm:"column:budget" json:"budget"`
	Status      JobStatus `gorm:"column:status;type:varchar(16);default:'open'" json:"status"`

	Timestamps
}

func (Job) TableName() string { return "jobs" }

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	ID           string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	JobID        string            `gorm:"column:job_id;index;not null" json:"job_id"`
	FreelancerID string            `gorm:"column:freelancer_id;index;not null" json:"freelancer_id"`
	CoverLetter  string            `gorm:"column:cover_letter;type:text" json:"cover_letter"`
	Status       ApplicationStatus `gorm:"column:status;type:varchar(16);default:'pending'" json:"status"`

	Timestamps
}

func (Application) TableName() string { return "applications" }

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// Order is the marketplace side of a purchase; payment itself is settled by
// the external processor.
type Order struct {
	ID       string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BuyerID  string      `gorm:"column:buyer_id;index;not null" json:"buyer_id"`
	SellerID string      `gorm:"column:seller_id;index;not null" json:"seller_id"`
	JobID    string      `gorm:"column:job_id;index" json:"job_id,omitempty"`
	Amount   float64     `gorm:"column:amount" json:"amount"`
	Status   OrderStatus `gorm:"column:status;type:varchar(16);default:'pending'" json:"status"`

	Timestamps
}

func (Order) TableName() string { return "orders" }

type InteractionType string

const (
	InteractionLike     InteractionType = "like"
	InteractionComment  InteractionType = "comment"
	InteractionFollow   InteractionType = "follow"
	InteractionShare    InteractionType = "share"
	InteractionAIAssist InteractionType = "ai_assist"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionLike, InteractionComment, InteractionFollow, InteractionShare, InteractionAIAssist:
		return true
	}
	return false
}

type Interaction struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID          string          `gorm:"column:user_id;index;not null" json:"user_id"`
	TargetID        string          `gorm:"column:target_id;index" json:"target_id"`
	InteractionType InteractionType `gorm:"column:interaction_type;type:varchar(16);index" json:"interaction_type"`

	Timestamps
}

func (Interaction) TableName() string { return "interactions" }

type RatingReview struct {
	ID            string  `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ReviewerID    string  `gorm:"column:reviewer_id;index;not null" json:"reviewer_id"`
	RevieweeID    string  `gorm:"column:reviewee_id;index;not null" json:"reviewee_id"`
	OrderID       string  `gorm:"column:order_id;index" json:"order_id,omitempty"`
	OverallRating float64 `gorm:"column:overall_rating" json:"overall_rating"`
	Comment       string  `gorm:"column:comment;type:text" json:"comment"`

	Timestamps
}

func (RatingReview) TableName() string { return "ratings_reviews" }

// All lists every collection model, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserProgress{},
		&UnlockedAchievement{},
		&UserProfile{},
		&Job{},
		&Application{},
		&Order{},
		&Interaction{},
		&RatingReview{},
	}
}
