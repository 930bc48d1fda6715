package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"celenk/internal/logging"
	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/textutil"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

const excerptLength = 160

// BlogService manages blog posts and renders their markdown.
type BlogService struct {
	repo     repositories.BlogRepository
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	strip    *bluemonday.Policy
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo repositories.BlogRepository, logger *zap.Logger) *BlogService {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)

	return &BlogService{
		repo:     repo,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   policy,
		strip:    bluemonday.StrictPolicy(),
		validate: NewValidator(),
		now:      time.Now,
		logger:   logging.OrNop(logger),
	}
}

// ListPosts returns posts; an empty status means every post.
func (s *BlogService) ListPosts(ctx context.Context, status models.BlogStatus) ([]models.BlogPost, error) {
	return s.repo.GetAll(ctx, status)
}

// GetPost returns a post by ID.
func (s *BlogService) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// ViewPublishedPost returns a published post by slug and counts the view.
// Drafts are reported as not found.
func (s *BlogService) ViewPublishedPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.BlogStatusPublished {
		return nil, fmt.Errorf("post %s: %w", slug, repositories.ErrNotFound)
	}
	if err := s.repo.IncrementCounter(ctx, post.ID, "view_count"); err != nil {
		s.logger.Warn("view counter not updated", zap.String("post_id", post.ID), zap.Error(err))
	} else {
		post.ViewCount++
	}
	return post, nil
}

// LikePost increments the like counter of a published post.
func (s *BlogService) LikePost(ctx context.Context, id string) (int64, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if post.Status != models.BlogStatusPublished {
		return 0, fmt.Errorf("post %s: %w", id, repositories.ErrNotFound)
	}
	if err := s.repo.IncrementCounter(ctx, id, "like_count"); err != nil {
		return 0, err
	}
	return post.LikeCount + 1, nil
}

// CreatePost validates, renders and stores a new post.
func (s *BlogService) CreatePost(ctx context.Context, post *models.BlogPost) error {
	post.ID = uuid.New().String()
	post.ViewCount = 0
	post.LikeCount = 0
	post.PublishedAt = nil
	if err := s.prepare(ctx, post); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return err
	}
	s.logger.Info("blog post created", zap.String("post_id", post.ID), zap.String("slug", post.Slug))
	return nil
}

// UpdatePost overwrites the editable fields of a post. Counters and the
// first publication time are kept.
func (s *BlogService) UpdatePost(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	existing, err := s.repo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.ViewCount = existing.ViewCount
	post.LikeCount = existing.LikeCount
	post.PublishedAt = existing.PublishedAt
	post.CreatedAt = existing.CreatedAt
	if err := s.prepare(ctx, post); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, post.ID)
}

// DeletePost removes a post.
func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *BlogService) prepare(ctx context.Context, post *models.BlogPost) error {
	if post.Status == "" {
		post.Status = models.BlogStatusDraft
	}
	if err := validateStruct(s.validate, post); err != nil {
		return err
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	slug, err := s.uniqueSlug(ctx, post.Title, post.ID)
	if err != nil {
		return err
	}
	post.Slug = slug

	rendered, err := s.Render(post.Content)
	if err != nil {
		return fmt.Errorf("render post: %w", err)
	}
	post.ContentHTML = rendered
	if strings.TrimSpace(post.Excerpt) == "" {
		post.Excerpt = s.excerpt(rendered)
	}
	if post.Status == models.BlogStatusPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}
	return nil
}

// Render converts markdown to sanitised HTML.
func (s *BlogService) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return s.policy.Sanitize(buf.String()), nil
}

func (s *BlogService) excerpt(renderedHTML string) string {
	text := html.UnescapeString(s.strip.Sanitize(renderedHTML))
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "…"
}

// uniqueSlug derives a slug from title and appends -2, -3, ... until no
// other post uses it.
func (s *BlogService) uniqueSlug(ctx context.Context, title, exceptID string) (string, error) {
	base := textutil.Slugify(title)
	if base == "" {
		base = "yazi"
	}
	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate, exceptID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
