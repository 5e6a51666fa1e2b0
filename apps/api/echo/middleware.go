package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/access"
	"github.com/trezcool/elimu/core/enroll"
	"github.com/trezcool/elimu/core/user"
)

// Gate denials carry a notice and a client redirect target.
var (
	errGateUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
		"notice":   "please log in to access this course",
		"redirect": "/login",
	})
	errGateNotEnrolled = echo.NewHTTPError(http.StatusForbidden, echo.Map{
		"notice":   "you do not have access to this course",
		"redirect": "/courses",
	})
	errGateUnavailable = echo.NewHTTPError(http.StatusServiceUnavailable, echo.Map{
		"notice":   "we could not verify your access, please try again",
		"redirect": "/",
	})
)

// facultyMiddleware requires an authenticated principal with the faculty role.
// The role claim is the only thing checked; emails are never compared.
func facultyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsFaculty {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// gateJWT authenticates like the regular JWT middleware but shapes auth
// failures as a gate denial so anonymous requests get the login redirect.
func gateJWT() echo.MiddlewareFunc {
	jwtConf := appJWTConfig
	jwtConf.ErrorHandler = func(error) error { return errGateUnauthenticated }
	return middleware.JWTWithConfig(jwtConf)
}

// courseAccessMiddleware guards course-content routes. It resolves the
// principal, reads their active course-id set once and lets the policy
// decide. A failing user or enrollment store fails closed; access is never
// granted on error.
func courseAccessMiddleware(usrSvc user.Service, enrollSvc enroll.Service, logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errGateUnauthenticated
			}

			usr, err := getContextUser(ctx, usrSvc, claims)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errGateUnauthenticated
				}
				logger.Error(fmt.Sprintf("course access: resolving principal: %v", err), err)
				return errGateUnavailable
			}

			enrolled, err := enrollSvc.ListCourseIDs(ctx.Request().Context(), usr.ID)
			if err != nil {
				logger.Error(fmt.Sprintf("course access: reading enrollments: %v", err), err, usr)
				return errGateUnavailable
			}

			switch access.Evaluate(&usr, enrolled, ctx.Param("id")) {
			case access.Granted:
				return next(ctx)
			case access.DeniedNoPrincipal:
				return errGateUnauthenticated
			default:
				return errGateNotEnrolled
			}
		}
	}
}
