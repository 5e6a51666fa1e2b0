package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/blog"
)

type blogRepository struct {
	db *blogTable
}

var _ blog.Repository = (*blogRepository)(nil) // interface compliance check

func NewBlogRepository(db *DB) blog.Repository {
	return &blogRepository{db: db.blog}
}

func (repo *blogRepository) CreatePost(ctx context.Context, p blog.Post) (blog.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p.ID = uuid.New().String()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *blogRepository) GetPostByID(ctx context.Context, id string) (blog.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.table[id]; ok {
		return *p, nil
	}
	return blog.Post{}, blog.ErrNotFound
}

func (repo *blogRepository) QueryPosts(ctx context.Context, filter *blog.QueryFilter, ordering []core.DBOrdering) ([]blog.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	posts := make([]blog.Post, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		posts = append(posts, *p)
	}

	if filter != nil {
		if filter.Search != "" {
			var filtered []blog.Post
			for _, p := range posts {
				if strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) ||
					strings.Contains(strings.ToLower(p.Content), strings.ToLower(filter.Search)) ||
					strings.Contains(strings.ToLower(p.Excerpt), strings.ToLower(filter.Search)) {
					filtered = append(filtered, p)
				}
			}
			posts = filtered
		}
		if posts != nil && filter.Category != "" {
			var filtered []blog.Post
			for _, p := range posts {
				if p.Category == filter.Category {
					filtered = append(filtered, p)
				}
			}
			posts = filtered
		}
		if posts != nil && filter.Tag != "" {
			var filtered []blog.Post
			for _, p := range posts {
				for _, tag := range p.Tags {
					if tag == filter.Tag {
						filtered = append(filtered, p)
						break
					}
				}
			}
			posts = filtered
		}
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *blogRepository) UpdatePost(ctx context.Context, p blog.Post) (blog.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[p.ID]; !ok {
		return blog.Post{}, blog.ErrNotFound
	}
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *blogRepository) DeletePostsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
