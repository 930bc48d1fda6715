package handlers

import (
	"celenk/internal/logging"
	"celenk/internal/middleware"
	"celenk/internal/models"
	"celenk/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BlogHandler handles HTTP requests for blog posts.
type BlogHandler struct {
	service *services.BlogService
	logger  *zap.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service *services.BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{service: service, logger: logging.OrNop(logger)}
}

// RegisterRoutes registers the blog routes. Writes go through requireAdmin.
func (h *BlogHandler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	blogRoutes := router.Group("/blog")
	blogRoutes.Get("/", h.HandleGetPosts)
	blogRoutes.Get("/id/:id", requireAdmin, h.HandleGetPostByID)
	blogRoutes.Get("/:slug", h.HandleGetPostBySlug)
	blogRoutes.Post("/:id/like", h.HandleLikePost)
	blogRoutes.Post("/", requireAdmin, h.HandleCreatePost)
	blogRoutes.Put("/:id", requireAdmin, h.HandleUpdatePost)
	blogRoutes.Delete("/:id", requireAdmin, h.HandleDeletePost)
}

// HandleGetPosts lists published posts; admins see every post and may filter by ?status=.
func (h *BlogHandler) HandleGetPosts(c *fiber.Ctx) error {
	status := models.BlogStatusPublished
	if _, ok := middleware.CurrentAdmin(c); ok {
		status = models.BlogStatus(c.Query("status"))
	}

	posts, err := h.service.ListPosts(c.UserContext(), status)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve posts", err)
	}
	return c.JSON(posts)
}

// HandleGetPostBySlug returns a published post and counts the view.
func (h *BlogHandler) HandleGetPostBySlug(c *fiber.Ctx) error {
	post, err := h.service.ViewPublishedPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve post", err)
	}
	return c.JSON(post)
}

// HandleGetPostByID returns any post for editing.
func (h *BlogHandler) HandleGetPostByID(c *fiber.Ctx) error {
	post, err := h.service.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve post", err)
	}
	return c.JSON(post)
}

// HandleLikePost increments the like counter.
func (h *BlogHandler) HandleLikePost(c *fiber.Ctx) error {
	likes, err := h.service.LikePost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not like post", err)
	}
	return c.JSON(fiber.Map{"likeCount": likes})
}

// HandleCreatePost stores a new post.
func (h *BlogHandler) HandleCreatePost(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := c.BodyParser(&post); err != nil {
		return badBody(c, err)
	}
	if err := h.service.CreatePost(c.UserContext(), &post); err != nil {
		return respondError(c, h.logger, "Could not create post", err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleUpdatePost overwrites a post.
func (h *BlogHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := c.BodyParser(&post); err != nil {
		return badBody(c, err)
	}
	post.ID = c.Params("id")

	updated, err := h.service.UpdatePost(c.UserContext(), &post)
	if err != nil {
		return respondError(c, h.logger, "Could not update post", err)
	}
	return c.JSON(updated)
}

// HandleDeletePost removes a post.
func (h *BlogHandler) HandleDeletePost(c *fiber.Ctx) error {
	if err := h.service.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete post", err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
