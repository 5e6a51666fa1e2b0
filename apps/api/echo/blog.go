package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/blog"
)

type blogApi struct {
	svc      blog.Service
	validate *validator.Validate
}

func registerBlogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc blog.Service, validate *validator.Validate) {
	api := blogApi{
		svc:      svc,
		validate: validate,
	}

	bg := g.Group("/blog")

	// public read
	bg.GET("", api.query)
	bg.GET("/:id", api.retrieve)

	// faculty endpoints
	fg := bg.Group("", jwt, facultyMiddleware())
	fg.POST("", api.create)
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *blogApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data blog.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	post, err := api.svc.Create(ctx.Request().Context(), data, claims.Email)
	if err != nil {
		return errors.Wrap(err, "creating post")
	}
	return ctx.JSON(http.StatusCreated, post)
}

func (api *blogApi) query(ctx echo.Context) error {
	filter := new(blog.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []blog.Post{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	posts, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []blog.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *blogApi) retrieve(ctx echo.Context) error {
	post, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding post by ID")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *blogApi) update(ctx echo.Context) error {
	var data blog.UpdatePost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePost")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	post, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating post")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *blogApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}
