package handlers

import (
	"freelance-marketplace/middleware"
	"freelance-marketplace/services"
	"freelance-marketplace/storage"

	"github.com/gofiber/fiber/v2"
)

// Deps are the services behind the HTTP API. Icons may be nil when R2 is
// not configured.
type Deps struct {
	Achievements *services.AchievementService
	Progression  *services.ProgressionService
	Marketplace  *services.MarketplaceService
	Stream       *services.UnlockStream
	Icons        *storage.IconStore
}

// SetupRoutes mounts every route. Gateway auth is expected to be installed
// on app already.
func SetupRoutes(app *fiber.App, deps Deps) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/s/admin", middleware.RequireRole("admin"))

	SetupAchievementRoutes(secured, admin, deps)
	SetupMarketplaceRoutes(secured, deps.Marketplace)
}
