package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowFeed handles GET /api/feed
func (s *Server) FollowFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	page, err := s.listing.BuildFollowFeed(ctx, userID, c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"page": page})
}

// Follow handles POST /api/profiles/:username/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	summary, err := s.follows.Follow(ctx, userID, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}

// Unfollow handles DELETE /api/profiles/:username/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	summary, err := s.follows.Unfollow(ctx, userID, c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}
