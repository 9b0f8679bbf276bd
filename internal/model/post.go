package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post represents a blog post. PublishedAt is non-nil exactly when
// Status == PostStatusPublished; the service layer maintains that invariant
// on every status-affecting write.
type Post struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:191;not null"`
	Excerpt     *string    `json:"excerpt" gorm:"size:500"`
	Content     string     `json:"content" gorm:"type:longtext;not null"`
	Status      PostStatus `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
	AuthorID    uuid.UUID  `json:"author_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostSummary is the projection returned from admin write operations.
type PostSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      PostStatus `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Summary returns the write-operation projection of the post.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Status:      p.Status,
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
