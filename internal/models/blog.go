package models

import "time"

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// BlogPost is a markdown article; ContentHTML is derived on save.
type BlogPost struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string     `json:"title" gorm:"type:varchar(250);not null" validate:"required,min=3,max=250"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;type:varchar(270)"`
	Content     string     `json:"content" gorm:"type:text" validate:"required"`
	ContentHTML string     `json:"contentHtml" gorm:"type:text"`
	Excerpt     string     `json:"excerpt" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Category    string     `json:"category" gorm:"type:varchar(100);index"`
	Tags        []string   `json:"tags" gorm:"type:text;serializer:json"`
	Status      BlogStatus `json:"status" gorm:"type:varchar(20);index" validate:"omitempty,oneof=draft published"`
	ViewCount   int64      `json:"viewCount"`
	LikeCount   int64      `json:"likeCount"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
