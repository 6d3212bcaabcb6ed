package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/chessboard/pkg/chessdto"
)

// Client talks to a running chess-board server.
type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type ClientOption func(*Client)

func WithClientTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) ClientOption {
	return func(c *Client) { c.retryMax = max }
}

// WithDialer replaces the TCP dialer, e.g. with an in-memory listener.
func WithDialer(dial func(addr string) (net.Conn, error)) ClientOption {
	return func(c *Client) { c.http.Dial = dial }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Start(ctx context.Context, req chessdto.StartSessionRequest) (*chessdto.SessionState, error) {
	var out chessdto.SessionState
	if err := c.doJSON(ctx, fasthttp.MethodPost, sessionsPrefix, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Status(ctx context.Context, id string) (*chessdto.SessionState, error) {
	var out chessdto.SessionState
	if err := c.doJSON(ctx, fasthttp.MethodGet, sessionsPrefix+"/"+id, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Tap(ctx context.Context, id, square string) (*chessdto.SessionState, error) {
	return c.action(ctx, id, "tap", chessdto.TapRequest{Square: square})
}

func (c *Client) Flip(ctx context.Context, id string) (*chessdto.SessionState, error) {
	return c.action(ctx, id, "flip", nil)
}

func (c *Client) Undo(ctx context.Context, id string) (*chessdto.SessionState, error) {
	return c.action(ctx, id, "undo", nil)
}

func (c *Client) Reset(ctx context.Context, id string) (*chessdto.SessionState, error) {
	return c.action(ctx, id, "reset", nil)
}

func (c *Client) Random(ctx context.Context, id string) (*chessdto.SessionState, error) {
	return c.action(ctx, id, "random", nil)
}

func (c *Client) SetPromotion(ctx context.Context, id, piece string) (*chessdto.SessionState, error) {
	return c.action(ctx, id, "promotion", chessdto.PromotionRequest{Piece: piece})
}

func (c *Client) End(ctx context.Context, id string) error {
	return c.doJSON(ctx, fasthttp.MethodDelete, sessionsPrefix+"/"+id, nil, nil, false)
}

// BoardPNG fetches the rendered board image.
func (c *Client) BoardPNG(ctx context.Context, id string) ([]byte, error) {
	return c.getRaw(ctx, sessionsPrefix+"/"+id+"/board.png")
}

// Text fetches the server-rendered plain-text view of a session.
func (c *Client) Text(ctx context.Context, id string) (string, error) {
	body, err := c.getRaw(ctx, sessionsPrefix+"/"+id+"/text")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(c.baseURL + path)
	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, decodeAPIError(status, resp.Body())
	}
	return append([]byte(nil), resp.Body()...), nil
}

func (c *Client) action(ctx context.Context, id, action string, in any) (*chessdto.SessionState, error) {
	var out chessdto.SessionState
	if err := c.doJSON(ctx, fasthttp.MethodPost, sessionsPrefix+"/"+id+"/"+action, in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int
	chessdto.DomainError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chess api error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &apiErr.DomainError); err != nil {
		apiErr.Message = truncate(string(body), 512)
	}
	return apiErr
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 0 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if attempt == attempts {
				return lastErr
			}
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := decodeAPIError(status, resp.Body())
			if attempt == attempts || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
