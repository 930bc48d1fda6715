package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"celenk/internal/models"
	"celenk/internal/repositories"
	"celenk/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogService(t *testing.T) *services.BlogService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repositories.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	return services.NewBlogService(repositories.NewGORMBlogRepository(db), nil)
}

func TestBlogService_CreateRendersAndSlugs(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()

	post := &models.BlogPost{
		Title:   "Çelenk Seçerken Dikkat Edilmesi Gerekenler",
		Content: "# Başlık\n\n**Önemli** bilgiler <script>alert(1)</script> ve [bağlantı](https://example.com).",
		Status:  models.BlogStatusPublished,
	}
	require.NoError(t, svc.CreatePost(ctx, post))

	assert.Equal(t, "celenk-secerken-dikkat-edilmesi-gerekenler", post.Slug)
	assert.Contains(t, post.ContentHTML, "<strong>Önemli</strong>")
	assert.NotContains(t, post.ContentHTML, "<script>")
	assert.Contains(t, post.ContentHTML, `rel="nofollow"`)
	assert.NotNil(t, post.PublishedAt)
	assert.True(t, strings.HasPrefix(post.Excerpt, "Başlık Önemli bilgiler"))

	second := &models.BlogPost{Title: "Çelenk seçerken dikkat edilmesi gerekenler", Content: "tekrar"}
	require.NoError(t, svc.CreatePost(ctx, second))
	assert.Equal(t, "celenk-secerken-dikkat-edilmesi-gerekenler-2", second.Slug)
	assert.Equal(t, models.BlogStatusDraft, second.Status)
	assert.Nil(t, second.PublishedAt)
}

func TestBlogService_ExcerptIsTruncated(t *testing.T) {
	svc := newBlogService(t)
	post := &models.BlogPost{Title: "Uzun yazı", Content: strings.Repeat("çiçek ", 100)}
	require.NoError(t, svc.CreatePost(context.Background(), post))
	assert.LessOrEqual(t, len([]rune(post.Excerpt)), 161)
	assert.True(t, strings.HasSuffix(post.Excerpt, "…"))
}

func TestBlogService_ViewsLikesAndDrafts(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()

	draft := &models.BlogPost{Title: "Taslak yazı", Content: "gizli"}
	require.NoError(t, svc.CreatePost(ctx, draft))
	_, err := svc.ViewPublishedPost(ctx, draft.Slug)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = svc.LikePost(ctx, draft.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	draft.Status = models.BlogStatusPublished
	published, err := svc.UpdatePost(ctx, draft)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, "taslak-yazi", published.Slug)

	viewed, err := svc.ViewPublishedPost(ctx, published.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, viewed.ViewCount)

	likes, err := svc.LikePost(ctx, published.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, likes)

	firstPublished := *published.PublishedAt
	published.Content = "güncellendi"
	again, err := svc.UpdatePost(ctx, published)
	require.NoError(t, err)
	assert.True(t, firstPublished.Equal(*again.PublishedAt))
	assert.EqualValues(t, 1, again.ViewCount)
	assert.EqualValues(t, 1, again.LikeCount)

	all, err := svc.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
