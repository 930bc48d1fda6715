package repositories

import (
	"context"
	"errors"
	"fmt"

	"celenk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog post data access.
type BlogRepository interface {
	GetAll(ctx context.Context, status models.BlogStatus) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id string) error
	// IncrementCounter bumps view_count or like_count by one.
	IncrementCounter(ctx context.Context, id, column string) error
}

// GORMBlogRepository is a GORM implementation of BlogRepository.
type GORMBlogRepository struct {
	db *gorm.DB
}

// NewGORMBlogRepository creates a new instance of GORMBlogRepository.
func NewGORMBlogRepository(db *gorm.DB) *GORMBlogRepository {
	return &GORMBlogRepository{db: db}
}

// GetAll lists posts newest first; an empty status lists every post.
func (r *GORMBlogRepository) GetAll(ctx context.Context, status models.BlogStatus) ([]models.BlogPost, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var posts []models.BlogPost
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get blog posts: %w", err)
	}
	return posts, nil
}

func (r *GORMBlogRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GORMBlogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *GORMBlogRepository) first(ctx context.Context, query, arg string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog post %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get blog post %s: %w", arg, err)
	}
	return &post, nil
}

// SlugExists reports whether another post already uses slug.
func (r *GORMBlogRepository) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check blog slug %s: %w", slug, err)
	}
	return count > 0, nil
}

func (r *GORMBlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}
	return nil
}

// Update overwrites the editable fields; counters are left untouched.
func (r *GORMBlogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	res := r.db.WithContext(ctx).Model(&models.BlogPost{ID: post.ID}).
		Select("title", "slug", "content", "content_html", "excerpt", "category", "tags", "status", "published_at").
		Updates(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update blog post %s: %w", post.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog post %s: %w", post.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMBlogRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete blog post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog post %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMBlogRepository) IncrementCounter(ctx context.Context, id, column string) error {
	if column != "view_count" && column != "like_count" {
		return fmt.Errorf("unknown blog counter %q", column)
	}
	res := r.db.WithContext(ctx).Model(&models.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment %s for blog post %s: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog post %s: %w", id, ErrNotFound)
	}
	return nil
}
