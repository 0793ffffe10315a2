// Package parser is the HTTP client for the external statement parser service.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/avast/retry-go"
)

const (
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
	maxErrorBody    = 4 << 10
)

// StatusError is a non-2xx answer from the parser service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("parser service returned %d: %s", e.StatusCode, e.Body)
}

// Client calls the parser service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

var _ portssvc.StatementParser = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetry sets the attempt count and the base delay between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.delay = delay
	}
}

// NewClient creates a client for the parser service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		attempts:   defaultAttempts,
		delay:      defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryable reports whether a failed call may succeed on another attempt.
func retryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) do(ctx context.Context, build func() (*http.Request, error), out any) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	return retry.Do(
		func() error {
			req, err := build()
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
				return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode parser response: %w", err))
			}
			return nil
		},
		retry.RetryIf(func(err error) bool {
			if !retryable(err) {
				return false
			}
			logger.Warn("Parser call failed, will retry", slog.String("error", err.Error()))
			return true
		}),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

// ParseStatement uploads file to POST /parse and returns the decoded result.
// A 4xx answer is reported as apperrors.ErrValidation.
func (c *Client) ParseStatement(ctx context.Context, file portssvc.StatementFile) (*domain.ParseResult, error) {
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("%w: statement file is empty", apperrors.ErrValidation)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	query := url.Values{}
	bank := file.Bank
	if bank == "" {
		bank = "auto"
	}
	query.Set("bank", bank)
	if file.Password != "" {
		query.Set("password", file.Password)
	}
	endpoint := c.baseURL + "/parse?" + query.Encode()
	payload := body.Bytes()
	contentType := mw.FormDataContentType()

	var wire wireParseResult
	err = c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}, &wire)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, statusErr.Body)
		}
		return nil, fmt.Errorf("failed to parse statement %s: %w", file.Filename, err)
	}

	result := toDomainParseResult(wire)
	return &result, nil
}

// ListBanks returns the parsers the service supports.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var wire wireBanks
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/banks", nil)
	}, &wire)
	if err != nil {
		return nil, fmt.Errorf("failed to list parser banks: %w", err)
	}
	return wire.Banks, nil
}
