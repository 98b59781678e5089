package services

import (
	"math"
	"time"

	"freelance-marketplace/models"
)

// NextLevelXP is the XP needed to leave level: floor(100 + level^1.5 * 50).
func NextLevelXP(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(math.Floor(100 + math.Pow(float64(level), 1.5)*50))
}

// XPResult reports the level after an award.
type XPResult struct {
	NewLevel bool `json:"new_level"`
	Level    int  `json:"level"`
}

// applyXP adds amount to prog and levels up for as long as current_xp
// covers the threshold, so one large award may cross several levels.
func applyXP(prog *models.UserProgress, amount int64, now time.Time) XPResult {
	if prog.CurrentLevel < 1 {
		prog.CurrentLevel = 1
	}
	if prog.NextLevelXP <= 0 {
		prog.NextLevelXP = NextLevelXP(prog.CurrentLevel)
	}

	startLevel := prog.CurrentLevel
	prog.CurrentXP += amount
	prog.TotalXP += amount

	for prog.CurrentXP >= prog.NextLevelXP {
		prog.CurrentXP -= prog.NextLevelXP
		prog.CurrentLevel++
		prog.NextLevelXP = NextLevelXP(prog.CurrentLevel)
	}

	if prog.CurrentLevel > startLevel {
		t := now
		prog.LastLevelUpAt = &t
	}
	return XPResult{NewLevel: prog.CurrentLevel > startLevel, Level: prog.CurrentLevel}
}
