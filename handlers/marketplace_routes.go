package handlers

import (
	"freelance-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMarketplaceRoutes(secured fiber.Router, marketplace *services.MarketplaceService) {
	secured.Put("/user/profile", func(c *fiber.Ctx) error {
		var in services.ProfileInput
		if err := bind(c, &in); err != nil {
			return err
		}
		profile, unlocked, err := marketplace.UpsertProfile(c.UserContext(), currentUser(c), in)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"profile": profile, "newly_unlocked": unlocked})
	})

	secured.Post("/jobs", func(c *fiber.Ctx) error {
		var in services.JobInput
		if err := bind(c, &in); err != nil {
			return err
		}
		job, unlocked, err := marketplace.CreateJob(c.UserContext(), currentUser(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job": job, "newly_unlocked": unlocked})
	})

	secured.Post("/jobs/:id/applications", func(c *fiber.Ctx) error {
		var in struct {
			CoverLetter string `json:"cover_letter"`
		}
		if err := bind(c, &in); err != nil {
			return err
		}
		app, unlocked, err := marketplace.SubmitApplication(c.UserContext(), currentUser(c), c.Params("id"), in.CoverLetter)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"application": app, "newly_unlocked": unlocked})
	})

	secured.Post("/applications/:id/accept", func(c *fiber.Ctx) error {
		app, unlocked, err := marketplace.AcceptApplication(c.UserContext(), currentUser(c), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"application": app, "newly_unlocked": unlocked})
	})

	secured.Post("/orders", func(c *fiber.Ctx) error {
		var in services.OrderInput
		if err := bind(c, &in); err != nil {
			return err
		}
		order, unlocked, err := marketplace.PlaceOrder(c.UserContext(), currentUser(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order, "newly_unlocked": unlocked})
	})

	secured.Post("/orders/:id/complete", func(c *fiber.Ctx) error {
		order, unlocked, err := marketplace.CompleteOrder(c.UserContext(), currentUser(c), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"order": order, "newly_unlocked": unlocked})
	})

	secured.Post("/interactions", func(c *fiber.Ctx) error {
		var in services.InteractionInput
		if err := bind(c, &in); err != nil {
			return err
		}
		rec, unlocked, err := marketplace.RecordInteraction(c.UserContext(), currentUser(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"interaction": rec, "newly_unlocked": unlocked})
	})

	secured.Post("/reviews", func(c *fiber.Ctx) error {
		var in services.ReviewInput
		if err := bind(c, &in); err != nil {
			return err
		}
		review, unlocked, err := marketplace.SubmitReview(c.UserContext(), currentUser(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review, "newly_unlocked": unlocked})
	})
}
