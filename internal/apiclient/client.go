package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

const DefaultTimeout = 20 * time.Second

// Client talks to the public booking API of one owner.
type Client struct {
	baseURL string
	slug    string
	http    *http.Client
}

func New(baseURL, slug string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		slug:    slug,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// ======================================================
// Endpoints
// ======================================================

func (c *Client) CheckCoverage(ctx context.Context, zip string) (*dto.CoverageResponse, error) {
	var out dto.CoverageResponse
	err := c.do(ctx, http.MethodPost, "/coverage", dto.CoverageRequest{ZipCode: zip}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListServices(ctx context.Context) ([]dto.ServiceItem, error) {
	var out []dto.ServiceItem
	if err := c.do(ctx, http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOptions(ctx context.Context, serviceID uint) ([]models.ServiceOption, error) {
	var out []models.ServiceOption
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/services/%d/options", serviceID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PreviewDiscount(
	ctx context.Context,
	code string,
	subtotal decimal.Decimal,
) (*dto.DiscountPreviewResponse, error) {

	var out dto.DiscountPreviewResponse
	req := dto.DiscountPreviewRequest{Code: code, Subtotal: subtotal}
	if err := c.do(ctx, http.MethodPost, "/discounts/preview", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitBooking(
	ctx context.Context,
	req dto.BookingSubmitRequest,
) (*dto.BookingSubmitResponse, error) {

	var out dto.BookingSubmitResponse
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ======================================================
// Transport
// ======================================================

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint := c.baseURL + "/api/public/" + url.PathEscape(c.slug) + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Class: ClassNetwork, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Class: ClassNetwork, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body httperr.HTTPError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	e := &Error{
		Status:  resp.StatusCode,
		Code:    body.Code,
		Message: body.Message,
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		e.Class = ClassValidation
	case resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusNotFound:
		e.Class = ClassRejection
	case body.Retryable, resp.StatusCode >= 500:
		e.Class = ClassRetryable
	default:
		e.Class = ClassRejection
	}

	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
