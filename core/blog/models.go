package blog

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/elimu/core"
)

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Image     string    `json:"image"`
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags"`
	Author    string    `json:"author"` // author's email
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewPost contains information needed to create a new Post.
type NewPost struct {
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category"`
	Image    string   `json:"image" validate:"omitempty,url"`
	Excerpt  string   `json:"excerpt"`
	Tags     []string `json:"tags"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Category = core.CleanString(np.Category, true /* lower */)
	return validate.Struct(np)
}

// UpdatePost defines what information may be provided to modify an existing Post.
type UpdatePost struct {
	Title    string   `json:"title"`
	Content  *string  `json:"content"`
	Category *string  `json:"category"`
	Image    *string  `json:"image"`
	Excerpt  *string  `json:"excerpt"`
	Tags     []string `json:"tags"`
}

func (up *UpdatePost) Validate(validate *validator.Validate) error {
	up.Title = core.CleanString(up.Title)
	return validate.Struct(up)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.Tag == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	qf.Tag = core.CleanString(qf.Tag, true /* lower */)
}
