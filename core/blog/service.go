package blog

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

var ErrNotFound = errors.New("post not found")

type (
	Repository interface {
		CreatePost(ctx context.Context, p Post) (Post, error)
		GetPostByID(ctx context.Context, id string) (Post, error)
		QueryPosts(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Post, error)
		UpdatePost(ctx context.Context, p Post) (Post, error)
		DeletePostsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, np NewPost, author string) (Post, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Post, error)
		GetByID(ctx context.Context, id string) (Post, error)
		Update(ctx context.Context, id string, up UpdatePost) (Post, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, np NewPost, author string) (Post, error) {
	now := time.Now().UTC()
	p := Post{
		Title:     np.Title,
		Content:   np.Content,
		Category:  np.Category,
		Image:     np.Image,
		Excerpt:   np.Excerpt,
		Tags:      np.Tags,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreatePost(ctx, p)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Post, error) {
	return svc.repo.QueryPosts(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id string) (Post, error) {
	return svc.repo.GetPostByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, up UpdatePost) (Post, error) {
	p, err := svc.repo.GetPostByID(ctx, id)
	if err != nil {
		return Post{}, err
	}

	if up.Title != "" {
		p.Title = up.Title
	}
	if up.Content != nil {
		p.Content = *up.Content
	}
	if up.Category != nil {
		p.Category = core.CleanString(*up.Category, true /* lower */)
	}
	if up.Image != nil {
		p.Image = *up.Image
	}
	if up.Excerpt != nil {
		p.Excerpt = *up.Excerpt
	}
	if up.Tags != nil {
		p.Tags = up.Tags
	}
	p.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdatePost(ctx, p)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeletePostsByID(ctx, ids...)
}
