package server

import (
	"encoding/json"

	"yatube/internal/models"
	"yatube/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /api/posts.
// The default page is served through the page cache: the first build is
// stored as a snapshot under a fixed key and replayed until it expires or is
// invalidated explicitly. Creating a post does not touch the snapshot, so
// the home listing may lag behind the store for up to the TTL.
func (s *Server) Index(c *fiber.Ctx) error {
	ctx := c.UserContext()
	rawPage := c.Query("page")

	cacheable := rawPage == "" || rawPage == "1"
	if cacheable {
		if body, ok := s.pageCache.IndexSnapshot(ctx); ok {
			observability.IndexCacheLookups.WithLabelValues("hit").Inc()
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(body)
		}
		observability.IndexCacheLookups.WithLabelValues("miss").Inc()
	}

	page, err := s.listing.BuildIndex(ctx, rawPage)
	if err != nil {
		return respondError(c, err)
	}

	body, err := json.Marshal(fiber.Map{"page": page})
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	if cacheable {
		_ = s.pageCache.StoreIndexSnapshot(ctx, body)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GroupPosts handles GET /api/groups/:slug/posts
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page, err := s.listing.BuildGroup(ctx, c.Params("slug"), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(page)
}

// Profile handles GET /api/profiles/:username
func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	profile, err := s.listing.BuildProfile(ctx, c.Params("username"), viewerID(c), c.Query("page"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}

// PostDetail handles GET /api/posts/:id
func (s *Server) PostDetail(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	detail, err := s.listing.BuildPostDetail(ctx, uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(detail)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Text     string `json:"text"`
		GroupID  *uint  `json:"group_id,omitempty"`
		ImageURL string `json:"image_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc.Create(ctx, userID, req.Text, req.GroupID, req.ImageURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// EditPost handles PUT /api/posts/:id. Non-authors are not rejected; they
// receive the post's current state unchanged.
func (s *Server) EditPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Text     string `json:"text"`
		GroupID  *uint  `json:"group_id,omitempty"`
		ImageURL string `json:"image_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc.Edit(ctx, userID, uint(id), req.Text, req.GroupID, req.ImageURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}
