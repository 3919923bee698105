package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/techquest/techquest-backend/internal/model"
)

// BlogStore is the persistence surface for blog posts. Implemented by
// repository.BlogRepository.
type BlogStore interface {
	ListPublished(ctx context.Context) ([]model.Blog, error)
	GetBySlug(ctx context.Context, slug string) (model.Blog, error)
	Create(ctx context.Context, b *model.Blog) error
	Update(ctx context.Context, b *model.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogService handles the landing-page articles.
type BlogService struct {
	store BlogStore
}

// NewBlogService creates a new BlogService.
func NewBlogService(store BlogStore) *BlogService {
	return &BlogService{store: store}
}

// ListPublished returns published posts, newest first.
func (s *BlogService) ListPublished(ctx context.Context) ([]model.Blog, error) {
	blogs, err := s.store.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []model.Blog{}
	}
	return blogs, nil
}

// GetBySlug fetches a single published post.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (model.Blog, error) {
	return s.store.GetBySlug(ctx, slug)
}

// Create stores a new post. Drafts are the default; a published post
// without an explicit timestamp is stamped now.
func (s *BlogService) Create(ctx context.Context, req *model.CreateBlogRequest) (model.Blog, error) {
	b := blogFromRequest(req)
	if err := s.store.Create(ctx, &b); err != nil {
		return model.Blog{}, err
	}
	return b, nil
}

// Update replaces all editable fields of a post.
func (s *BlogService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBlogRequest) (model.Blog, error) {
	b := blogFromRequest(req)
	b.ID = id
	if err := s.store.Update(ctx, &b); err != nil {
		return model.Blog{}, err
	}
	return b, nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func blogFromRequest(req *model.CreateBlogRequest) model.Blog {
	status := model.BlogStatus(req.Status)
	if status == "" {
		status = model.BlogStatusDraft
	}
	return model.Blog{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Slug:        req.Slug,
		Content:     req.Content,
		Author:      req.Author,
		Category:    req.Category,
		ReadTime:    req.ReadTime,
		PublishedAt: time.Now().UTC(),
		Status:      status,
	}
}
