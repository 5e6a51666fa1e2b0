package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/blog"
)

type blogRepository struct {
	db *sqlx.DB
}

var _ blog.Repository = (*blogRepository)(nil) // interface compliance check

func NewBlogRepository(db *sqlx.DB) *blogRepository {
	return &blogRepository{db: db}
}

type postRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Content   null.String    `db:"content"`
	Category  null.String    `db:"category"`
	Image     null.String    `db:"image"`
	Excerpt   null.String    `db:"excerpt"`
	Tags      pq.StringArray `db:"tags"`
	Author    null.String    `db:"author"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (repo blogRepository) toRow(p blog.Post) postRow {
	return postRow{
		ID:        p.ID,
		Title:     p.Title,
		Content:   null.NewString(p.Content, p.Content != ""),
		Category:  null.NewString(p.Category, p.Category != ""),
		Image:     null.NewString(p.Image, p.Image != ""),
		Excerpt:   null.NewString(p.Excerpt, p.Excerpt != ""),
		Tags:      p.Tags,
		Author:    null.NewString(p.Author, p.Author != ""),
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func (repo blogRepository) fromRow(row postRow) blog.Post {
	return blog.Post{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content.String,
		Category:  row.Category.String,
		Image:     row.Image.String,
		Excerpt:   row.Excerpt.String,
		Tags:      row.Tags,
		Author:    row.Author.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (repo blogRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return blog.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo blogRepository) CreatePost(ctx context.Context, p blog.Post) (blog.Post, error) {
	p.ID = uuid.New().String()
	row := repo.toRow(p)
	q := `INSERT INTO blog_post (id, title, content, category, image, excerpt, tags, author, created_at, updated_at)
	      VALUES (:id, :title, :content, :category, :image, :excerpt, :tags, :author, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return blog.Post{}, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo blogRepository) GetPostByID(ctx context.Context, id string) (blog.Post, error) {
	var row postRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM blog_post WHERE id = $1`, id); err != nil {
		return blog.Post{}, repo.trapNoRowsErr(err, "finding post by ID")
	}
	return repo.fromRow(row), nil
}

func (repo blogRepository) QueryPosts(ctx context.Context, filter *blog.QueryFilter, ordering []core.DBOrdering) ([]blog.Post, error) {
	q := `SELECT * FROM blog_post`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, `(title ILIKE ? OR content ILIKE ? OR excerpt ILIKE ?)`)
			args = append(args, val, val, val)
		}
		if filter.Category != "" {
			conds = append(conds, `category = ?`)
			args = append(args, filter.Category)
		}
		if filter.Tag != "" {
			conds = append(conds, `? = ANY(tags)`)
			args = append(args, filter.Tag)
		}
	}
	for i, cond := range conds {
		if i == 0 {
			q += ` WHERE ` + cond
		} else {
			q += ` AND ` + cond
		}
	}
	q += orderingClause(ordering, "created_at DESC")

	var rows []postRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	posts := make([]blog.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, repo.fromRow(row))
	}
	return posts, nil
}

func (repo blogRepository) UpdatePost(ctx context.Context, p blog.Post) (blog.Post, error) {
	row := repo.toRow(p)
	q := `UPDATE blog_post SET title = :title, content = :content, category = :category, image = :image,
	                           excerpt = :excerpt, tags = :tags, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return blog.Post{}, errors.Wrap(err, "updating post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return blog.Post{}, blog.ErrNotFound
	}
	return p, nil
}

func (repo blogRepository) DeletePostsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM blog_post WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "expanding query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting posts")
	}
	return nil
}
