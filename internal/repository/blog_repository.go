package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/techquest/techquest-backend/internal/model"
)

// ErrBlogNotFound is returned when a blog id or slug does not resolve.
var ErrBlogNotFound = errors.New("blog not found")

// BlogRepository handles blog post data access.
type BlogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository creates a new BlogRepository.
func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

const blogColumns = `id, title, COALESCE(subtitle, ''), slug, content, author, category, read_time, published_at, status`

func scanBlog(row pgx.Row) (model.Blog, error) {
	var b model.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.Slug, &b.Content,
		&b.Author, &b.Category, &b.ReadTime, &b.PublishedAt, &b.Status)
	return b, err
}

// ListPublished returns published posts, newest first.
func (r *BlogRepository) ListPublished(ctx context.Context) ([]model.Blog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+blogColumns+` FROM blogs
		 WHERE status = 'published'
		 ORDER BY published_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []model.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBySlug fetches a single published post by slug.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (model.Blog, error) {
	b, err := scanBlog(r.pool.QueryRow(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE slug = $1 AND status = 'published'`, slug,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Blog{}, ErrBlogNotFound
	}
	return b, err
}

// Create inserts a new post.
func (r *BlogRepository) Create(ctx context.Context, b *model.Blog) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO blogs (title, subtitle, slug, content, author, category, read_time, published_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		b.Title, b.Subtitle, b.Slug, b.Content, b.Author, b.Category,
		b.ReadTime, b.PublishedAt, b.Status,
	).Scan(&b.ID)
}

// Update replaces all editable fields of a post.
func (r *BlogRepository) Update(ctx context.Context, b *model.Blog) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blogs SET
		   title = $2, subtitle = $3, slug = $4, content = $5, author = $6,
		   category = $7, read_time = $8, status = $9, updated_at = NOW()
		 WHERE id = $1`,
		b.ID, b.Title, b.Subtitle, b.Slug, b.Content, b.Author,
		b.Category, b.ReadTime, b.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// Delete removes a post.
func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}
