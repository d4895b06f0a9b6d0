package client

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

// ErrRequestFailed is wrapped by every remote-call failure.
var ErrRequestFailed = errors.New("request failed")

// DefaultBaseURL is where the optimizer service listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxBody bounds how much of a response is read into memory.
const maxBody = 64 << 20

// RequestError describes a failed remote call in user-facing terms.
type RequestError struct {
	Op     string // "optimize" or "chart"
	Status int    // HTTP status, 0 for transport or decode failures
	Reason string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: service returned %d: %s", e.Op, e.Status, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Unwrap exposes the cause to errors.Is/As.
func (e *RequestError) Unwrap() error { return e.Err }

// Is matches ErrRequestFailed.
func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// Service is the remote optimizer as seen by the rest of the application.
type Service interface {
	SubmitOptimization(ctx context.Context, req backtest.OptimizationRequest) (*backtest.OptimizationResult, error)
	FetchPriceSeries(ctx context.Context, ticker string) ([]backtest.PricePoint, error)
}

// Client talks to the optimizer service over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	log     zerolog.Logger
}

var _ Service = (*Client)(nil)

// New creates a Client. An empty baseURL selects DefaultBaseURL; a zero
// timeout leaves requests bounded only by their context.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 15 * time.Second}).DialContext,
				MaxIdleConns:        16,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
		log: log.With().Str("component", "client").Logger(),
	}
}

// Submit builds a request from raw inputs and submits it.
func (c *Client) Submit(ctx context.Context, instruments []string, drop, hold, tp grid.Range, capital float64) (*backtest.OptimizationResult, error) {
	req, err := BuildRequest(instruments, drop, hold, tp, capital)
	if err != nil {
		return nil, err
	}
	return c.SubmitOptimization(ctx, req)
}

// SubmitOptimization posts req to /optimize and decodes the best result.
func (c *Client) SubmitOptimization(ctx context.Context, req backtest.OptimizationRequest) (*backtest.OptimizationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &RequestError{Op: "optimize", Reason: "encoding request", Err: err}
	}
	c.log.Info().
		Strs("tickers", req.Tickers).
		Int("combinations", req.Combinations()).
		Float64("capital", req.InitialCapital).
		Msg("submitting optimization")

	data, err := c.do(ctx, "optimize", http.MethodPost, "/optimize", body)
	if err != nil {
		return nil, err
	}
	res, err := backtest.DecodeOptimizationResult(data)
	if err != nil {
		return nil, &RequestError{Op: "optimize", Reason: "malformed response: " + err.Error(), Err: err}
	}
	c.log.Info().
		Int("trades", len(res.Trades)).
		Float64("roi_pct", res.ROIPct).
		Msg("optimization finished")
	return res, nil
}

// FetchPriceSeries loads the daily price series for ticker from /chart.
func (c *Client) FetchPriceSeries(ctx context.Context, ticker string) ([]backtest.PricePoint, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, &RequestError{Op: "chart", Reason: "empty ticker"}
	}
	data, err := c.do(ctx, "chart", http.MethodGet, "/chart/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}
	points, err := backtest.DecodePriceSeries(data)
	if err != nil {
		return nil, &RequestError{Op: "chart", Reason: "malformed response: " + err.Error(), Err: err}
	}
	c.log.Debug().Str("ticker", ticker).Int("points", len(points)).Msg("price series loaded")
	return points, nil
}

// Ping checks that the service answers HTTP at all. Any status counts as
// reachable; only transport errors fail.
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/docs", nil)
	if err != nil {
		return 0, &RequestError{Op: "ping", Reason: "building request", Err: err}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, &RequestError{Op: "ping", Reason: transportReason(err), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, &RequestError{Op: op, Reason: "building request", Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("request_id", reqID).Str("path", path).Msg("request failed")
		return nil, &RequestError{Op: op, Reason: transportReason(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("http")
	if err != nil {
		return nil, &RequestError{Op: op, Status: resp.StatusCode, Reason: "reading response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Op: op, Status: resp.StatusCode, Reason: errorDetail(data, resp.Status)}
	}
	return data, nil
}

// errorDetail pulls the "detail" message out of an error body, falling back
// to the status text.
func errorDetail(body []byte, status string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
			return s
		}
		// Validation errors carry a list of objects.
		return "invalid request: " + compact(payload.Detail, 200)
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
		return text
	}
	return status
}

func transportReason(err error) string {
	var ne net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return "request timed out"
	default:
		return "service unreachable (is the backend running?)"
	}
}

func compact(raw json.RawMessage, max int) string {
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return "unparseable detail"
	}
	s := b.String()
	if len(s) > max {
		s = s[:max-3] + "..."
	}
	return s
}
