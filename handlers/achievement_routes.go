package handlers

import (
	"context"

	"freelance-marketplace/apperrors"
	"freelance-marketplace/logger"
	"freelance-marketplace/models"
	"freelance-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAchievementRoutes(secured, admin fiber.Router, deps Deps) {
	achievements := deps.Achievements
	progression := deps.Progression

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		prog, err := progression.EnsureProgressRecord(c.UserContext(), currentUser(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":                 prog.ID,
			"current_xp":         prog.CurrentXP,
			"total_xp":           prog.TotalXP,
			"level":              prog.CurrentLevel,
			"next_level_xp":      prog.NextLevelXP,
			"xp_to_next_level":   prog.NextLevelXP - prog.CurrentXP,
			"achievements_count": prog.AchievementsCount,
			"streak_days":        prog.StreakDays,
			"last_level_up_at":   prog.LastLevelUpAt,
			"last_active_at":     prog.LastActiveAt,
		})
	})

	secured.Get("/user/achievements", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		userID := currentUser(c)

		snapshot, err := achievements.GetUserDataForAchievements(ctx, userID)
		if err != nil {
			return err
		}
		statuses, err := achievements.GetAchievementProgress(ctx, userID, snapshot)
		if err != nil {
			return err
		}

		unlocked := 0
		for i := range statuses {
			if statuses[i].IsUnlocked {
				unlocked++
			}
			if deps.Icons != nil {
				statuses[i].IconURL = deps.Icons.URL(statuses[i].ID)
			}
		}
		return c.JSON(fiber.Map{
			"achievements":   statuses,
			"unlocked_count": unlocked,
			"total":          len(statuses),
			"stats":          snapshot,
		})
	})

	secured.Get("/user/achievements/unlocked", func(c *fiber.Ctx) error {
		list, err := achievements.ListUnlocked(c.UserContext(), currentUser(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"achievements": list})
	})

	// Manual re-check; fails open like every other trigger.
	secured.Post("/user/achievements/check", func(c *fiber.Ctx) error {
		unlocked := recheck(c.UserContext(), achievements, currentUser(c), "manual_check")
		return c.JSON(fiber.Map{"newly_unlocked": unlocked})
	})

	if deps.Stream != nil {
		secured.Get("/user/achievements/stream", deps.Stream.StreamUserAchievementsSSE)
	}

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
			Reason string `json:"reason"`
		}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.UserID == "" {
			return apperrors.BadRequest("user_id is required")
		}
		if req.XP <= 0 {
			return apperrors.BadRequest("xp must be positive")
		}
		if req.Reason == "" {
			req.Reason = "admin_grant"
		}

		ctx := c.UserContext()
		res, err := progression.AwardXP(ctx, req.UserID, req.XP, req.Reason)
		if err != nil {
			return err
		}
		logger.Info().Str("admin_id", currentUser(c)).Str("user_id", req.UserID).Int64("xp", req.XP).Msg("✅ XP granted")

		return c.JSON(fiber.Map{
			"new_level":      res.NewLevel,
			"level":          res.Level,
			"newly_unlocked": recheck(ctx, achievements, req.UserID, "admin_xp_grant"),
		})
	})

	admin.Post("/achievements/recheck/:userId", func(c *fiber.Ctx) error {
		unlocked, err := achievements.TriggerAchievementCheck(c.UserContext(), c.Params("userId"), "admin_recheck")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"newly_unlocked": unlocked})
	})

	admin.Post("/achievements/:id/icon", func(c *fiber.Ctx) error {
		if deps.Icons == nil {
			return apperrors.New(fiber.StatusServiceUnavailable, "icon storage is not configured")
		}
		id := c.Params("id")
		if _, ok := achievements.Definition(id); !ok {
			return apperrors.NotFound("unknown achievement " + id)
		}

		fh, err := c.FormFile("icon")
		if err != nil {
			return apperrors.BadRequest("icon file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return apperrors.BadRequest("failed to open icon")
		}
		defer f.Close()

		url, err := deps.Icons.Upload(c.UserContext(), id, f, fh.Header.Get("Content-Type"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id, "icon_url": url})
	})
}

// recheck never fails the request: the trigger already logged any error.
func recheck(ctx context.Context, trigger services.AchievementTrigger, userID, action string) []models.UnlockedAchievement {
	unlocked, _ := trigger.TriggerAchievementCheck(ctx, userID, action)
	return unlocked
}
