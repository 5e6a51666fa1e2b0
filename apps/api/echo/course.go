package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enroll"
	"github.com/trezcool/elimu/core/user"
)

type courseApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerCourseAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc course.Service,
	usrSvc user.Service,
	enrollSvc enroll.Service,
	logger core.Logger,
	validate *validator.Validate,
) {
	api := courseApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/courses")

	// public catalog
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.GET("/:id/rating", api.ratingSummary)

	// course content sits behind the access gate
	cg.GET("/:id/content", api.content, gateJWT(), courseAccessMiddleware(usrSvc, enrollSvc, logger))

	// authed endpoints
	ag := cg.Group("", jwt)
	ag.POST("/:id/rating", api.rate)

	// faculty endpoints
	fg := cg.Group("", jwt, facultyMiddleware())
	fg.POST("", api.create)
	fg.PUT("/:id", api.update)
	fg.PATCH("/:id/content", api.updateContent)
	fg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	courses, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}

// content serves the protected course material; the gate has already granted
// access when this runs.
func (api *courseApi) content(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs.Content())
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

// updateContent applies a single item-level edit (add/insert/update/remove/
// move) to one of the course's ordered content collections.
func (api *courseApi) updateContent(ctx echo.Context) error {
	var op course.ContentOp
	if err := ctx.Bind(&op); err != nil {
		return errors.Wrap(err, "binding to ContentOp")
	}
	if err := op.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.UpdateContent(ctx.Request().Context(), ctx.Param("id"), op)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating course content")
	}
	return ctx.JSON(http.StatusOK, crs.Content())
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) rate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data RateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RateRequest")
	}

	rating, err := api.svc.Rate(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.Stars)
	if err != nil {
		switch errors.Cause(err) {
		case course.ErrNotFound:
			return errHttpNotFound
		case course.ErrAlreadyRated:
			return echo.NewHTTPError(http.StatusConflict, course.ErrAlreadyRated.Error())
		}
		return errors.Wrap(err, "rating course")
	}
	return ctx.JSON(http.StatusCreated, rating)
}

func (api *courseApi) ratingSummary(ctx echo.Context) error {
	summary, err := api.svc.RatingSummary(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting rating summary")
	}
	return ctx.JSON(http.StatusOK, summary)
}

type RateRequest struct {
	Stars int `json:"stars"`
}
