package models

import (
	"time"
)

// UserProgress is the per-user level record (collection user_progress).
type UserProgress struct {
	ID                string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID            string     `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	CurrentXP         int64      `gorm:"column:current_xp;default:0" json:"current_xp"`
	TotalXP           int64      `gorm:"column:total_xp;default:0" json:"total_xp"`
	CurrentLevel      int        `gorm:"column:current_level;default:1" json:"current_level"`
	NextLevelXP       int64      `gorm:"column:next_level_xp" json:"next_level_xp"`
	AchievementsCount int        `gorm:"column:achievements_count;default:0" json:"achievements_count"`
	StreakDays        int        `gorm:"column:streak_days;default:0" json:"streak_days"`
	LastLevelUpAt     *time.Time `gorm:"column:last_level_up_at" json:"last_level_up_at,omitempty"`
	LastActiveAt      *time.Time `gorm:"column:last_active_at" json:"last_active_at,omitempty"`

	Timestamps
}

func (UserProgress) TableName() string { return "user_progress" }

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
