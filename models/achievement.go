package models

import (
	"time"

	"freelance-marketplace/rules"
)

type AchievementCategory string

const (
	CategoryOnboarding AchievementCategory = "onboarding"
	CategoryClient     AchievementCategory = "client"
	CategoryFreelancer AchievementCategory = "freelancer"
	CategorySocial     AchievementCategory = "social"
	CategoryAI         AchievementCategory = "ai"
	CategoryLevel      AchievementCategory = "level"
	CategorySpecial    AchievementCategory = "special"
)

// Rarity is display-only.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AchievementDefinition is static catalog data; it is never persisted.
// Tracker is optional and feeds progress bars while the achievement is locked.
type AchievementDefinition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    AchievementCategory
	XPReward    int64
	Rarity      Rarity
	Condition   rules.Condition
	Tracker     rules.Tracker
}

// UnlockedAchievement is one unlock per (user, achievement); collection achievements.
// Reward, rarity and category are copied from the catalog at unlock time.
type UnlockedAchievement struct {
	ID               string              `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID           string              `gorm:"column:user_id;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID    string              `gorm:"column:achievement_id;not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	AchievementName  string              `gorm:"column:achievement_name" json:"achievement_name"`
	Category         AchievementCategory `gorm:"column:category;type:varchar(32)" json:"category"`
	Rarity           Rarity              `gorm:"column:rarity;type:varchar(16)" json:"rarity"`
	XPReward         int64               `gorm:"column:xp_reward" json:"xp_reward"`
	ProgressCurrent  int                 `gorm:"column:progress_current" json:"progress_current"`
	ProgressRequired int                 `gorm:"column:progress_required" json:"progress_required"`
	UnlockedAt       time.Time           `gorm:"column:unlocked_at;not null" json:"unlocked_at"`

	Timestamps
}

func (UnlockedAchievement) TableName() string { return "achievements" }

// Progress is {current, required} for a progress bar. Current is not clipped.
type Progress struct {
	Current  float64 `json:"current"`
	Required float64 `json:"required"`
}

// Percent is the display value, clipped to [0, 100].
func (p Progress) Percent() float64 {
	if p.Required <= 0 {
		return 0
	}
	pct := p.Current / p.Required * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// AchievementStatus is one row of the progress report.
type AchievementStatus struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	IconURL     string              `json:"icon_url,omitempty"`
	Category    AchievementCategory `json:"category"`
	XPReward    int64               `json:"xp_reward"`
	Rarity      Rarity              `json:"rarity"`
	IsUnlocked  bool                `json:"is_unlocked"`
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty"`
	Progress    Progress            `json:"progress"`
}
