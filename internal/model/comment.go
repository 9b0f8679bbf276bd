package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a reader comment on a published post. Comments are
// immutable after creation; moderation only toggles IsVisible.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Content   string     `json:"content" gorm:"size:1000;not null"`
	PostID    uuid.UUID  `json:"post_id" gorm:"type:char(36);not null;index"`
	AuthorID  uuid.UUID  `json:"author_id" gorm:"type:char(36);not null;index"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" gorm:"type:char(36);index"`
	IsVisible bool       `json:"is_visible" gorm:"not null;default:true"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`

	// Relations
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentAuthor is the author projection embedded in comment responses.
// It deliberately carries display fields only.
type CommentAuthor struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// CommentView is the projection returned to API clients.
type CommentView struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Author    CommentAuthor `json:"author"`
}

// View returns the client-facing projection of the comment.
func (c *Comment) View() CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author: CommentAuthor{
			Name:  c.Author.Name,
			Email: c.Author.Email,
		},
	}
}
