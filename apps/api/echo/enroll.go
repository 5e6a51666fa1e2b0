package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/enroll"
)

type enrollmentApi struct {
	svc enroll.Service
}

func registerEnrollmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc enroll.Service) {
	api := enrollmentApi{svc: svc}

	eg := g.Group("/enrollments", jwt)
	eg.GET("", api.list)
	eg.POST("", api.enroll)
	eg.PUT("/:courseId/progress", api.setProgress)
}

// Handlers

// list returns the authenticated user's own enrollments.
func (api *enrollmentApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	enrs, err := api.svc.List(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing enrollments")
	}
	if enrs == nil {
		enrs = []enroll.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}

	enr, err := api.svc.Enroll(ctx.Request().Context(), claims.Subject, data.CourseID)
	if err != nil {
		if errors.Cause(err) == enroll.ErrAlreadyEnrolled {
			return echo.NewHTTPError(http.StatusConflict, enroll.ErrAlreadyEnrolled.Error())
		}
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) setProgress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data ProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressRequest")
	}

	enr, err := api.svc.SetProgress(ctx.Request().Context(), claims.Subject, ctx.Param("courseId"), data.Progress)
	if err != nil {
		if errors.Cause(err) == enroll.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting progress")
	}
	return ctx.JSON(http.StatusOK, enr)
}

type (
	EnrollRequest struct {
		CourseID string `json:"course_id"`
	}

	ProgressRequest struct {
		Progress int `json:"progress"`
	}
)
