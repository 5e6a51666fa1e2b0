// Package paymentsvc forwards pre-signed payment requests to the PhonePe API.
//
// Clients sign their own payloads; this service only attaches the merchant
// header and normalizes gateway failures into stable error shapes.
package paymentsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

var (
	ErrGatewayTimeout     = errors.New("payment gateway timeout")
	ErrGatewayUnreachable = errors.New("no response from payment gateway")
	ErrEmptyResponse      = errors.New("empty response from payment gateway")
)

// GatewayError is a non-2xx response from the gateway. The original status
// and body are kept so callers can mirror them.
type GatewayError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error (status %d): %s", e.StatusCode, e.Message)
}

type ForwardRequest struct {
	URL     string `json:"url" validate:"required,url"`
	Request string `json:"request" validate:"required"` // pre-signed, base64 payload
	Verify  string `json:"-"`                           // X-VERIFY header from the caller
}

type Service interface {
	// Forward posts the pre-signed request to the gateway and returns the
	// raw response body.
	Forward(ctx context.Context, req ForwardRequest) (json.RawMessage, error)
}

type phonePeService struct {
	client     *resty.Client
	merchantID string
	logger     core.Logger
}

var _ Service = (*phonePeService)(nil)

func NewPhonePeService(logger core.Logger, conf *core.Config) *phonePeService {
	client := resty.New().
		SetTimeout(conf.Payment.Timeout).
		SetHeader("Content-Type", "application/json")
	return &phonePeService{
		client:     client,
		merchantID: conf.Payment.MerchantID,
		logger:     logger,
	}
}

func (svc phonePeService) Forward(ctx context.Context, req ForwardRequest) (json.RawMessage, error) {
	res, err := svc.client.R().
		SetContext(ctx).
		SetHeader("X-VERIFY", req.Verify).
		SetHeader("X-MERCHANT-ID", svc.merchantID).
		SetBody(map[string]string{"request": req.Request}).
		Post(req.URL)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, ErrGatewayTimeout
		}
		svc.logger.Warn(fmt.Sprintf("payment gateway unreachable: %v", err))
		return nil, ErrGatewayUnreachable
	}

	body := res.Body()
	if res.IsError() {
		gwErr := &GatewayError{
			StatusCode: res.StatusCode(),
			Message:    "Payment gateway error",
			Details:    body,
		}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
			gwErr.Message = payload.Message
		}
		return nil, gwErr
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}
	return body, nil
}
