package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	paymentsvc "github.com/trezcool/elimu/services/payment"
)

type paymentApi struct {
	svc      paymentsvc.Service
	validate *validator.Validate
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc paymentsvc.Service, validate *validator.Validate) {
	api := paymentApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/payments", jwt)
	pg.POST("/phonepe", api.phonepe)
}

// phonepe forwards a pre-signed payment request to the gateway and mirrors
// its response. Gateway failures map to stable statuses so the client can
// retry sensibly.
func (api *paymentApi) phonepe(ctx echo.Context) error {
	var data paymentsvc.ForwardRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ForwardRequest")
	}
	data.Verify = ctx.Request().Header.Get("X-VERIFY")
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	body, err := api.svc.Forward(ctx.Request().Context(), data)
	if err != nil {
		switch origErr := errors.Cause(err).(type) {
		case *paymentsvc.GatewayError:
			return echo.NewHTTPError(origErr.StatusCode, echo.Map{
				"success": false,
				"message": origErr.Message,
				"details": origErr.Details,
			})
		default:
			switch origErr {
			case paymentsvc.ErrGatewayTimeout:
				return echo.NewHTTPError(http.StatusGatewayTimeout, "Payment gateway timeout. Please try again.")
			case paymentsvc.ErrGatewayUnreachable:
				return echo.NewHTTPError(http.StatusServiceUnavailable, "No response from payment gateway. Please try again.")
			}
			return errors.Wrap(err, "forwarding payment request")
		}
	}
	return ctx.JSONBlob(http.StatusOK, body)
}
