package model

import (
	"time"

	"github.com/google/uuid"
)

// BlogStatus is the publication state of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// Blog is a long-form article shown on the landing page.
type Blog struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	ReadTime    int        `json:"read_time"` // minutes
	PublishedAt time.Time  `json:"published_at"`
	Status      BlogStatus `json:"status"`
}

// CreateBlogRequest is the admin payload for creating a blog post.
type CreateBlogRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Subtitle string `json:"subtitle" binding:"max=300"`
	Slug     string `json:"slug" binding:"required,min=1,max=200"`
	Content  string `json:"content" binding:"required"`
	Author   string `json:"author" binding:"max=100"`
	Category string `json:"category" binding:"max=100"`
	ReadTime int    `json:"read_time" binding:"required,min=1,max=600"`
	Status   string `json:"status" binding:"omitempty,oneof=draft published"`
}

// UpdateBlogRequest mirrors CreateBlogRequest for full replacement updates.
type UpdateBlogRequest = CreateBlogRequest
