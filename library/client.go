package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the remote library API. Protected calls read the bearer
// token from the TokenStore; a 401 clears it and sends the user to login.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	nav     Navigator
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the diagnostic logger. Request lines go out at Debug,
// transport failures at Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRequestTimeout bounds every request. Zero means no timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient builds a client for the API at baseURL. nav may be nil.
func NewClient(baseURL string, tokens TokenStore, nav Navigator, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tokens:  tokens,
		nav:     nav,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.nav == nil {
		c.nav = NewRouter(RouteLogin)
	}
	if c.logger == nil {
		c.logger = discardLogger()
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Tokens returns the token store the client reads from.
func (c *Client) Tokens() TokenStore { return c.tokens }

// Navigator returns where the client sends navigation requests.
func (c *Client) Navigator() Navigator { return c.nav }

// ------------------ Protected calls ------------------

// FetchProtected GETs endpoint with the stored token and decodes the JSON body
// into out.
//
// Without a token it navigates to login and returns ErrUnauthenticated
// without touching the network. A 401 clears the token, navigates to login
// and returns ErrUnauthorized. Other non-2xx statuses yield a
// *RequestFailedError and transport failures a *NetworkError. If ctx is
// cancelled the context error is returned as-is.
func (c *Client) FetchProtected(ctx context.Context, endpoint string, out any) error {
	return c.doProtected(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) doProtected(ctx context.Context, method, endpoint string, body, out any) error {
	token, ok := c.tokens.Get()
	if !ok {
		c.logger.Debug("no token, redirecting to login", "endpoint", endpoint)
		c.nav.Navigate(RouteLogin)
		return ErrUnauthenticated
	}

	resp, err := c.send(ctx, method, endpoint, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("token rejected, logging out", "endpoint", endpoint)
		c.tokens.Clear()
		c.nav.Navigate(RouteLogin)
		return ErrUnauthorized
	}
	return c.decode(ctx, resp, out)
}

// writeProtected performs an authenticated write and returns the optional
// server message from the response body.
func (c *Client) writeProtected(ctx context.Context, method, endpoint string, body any) (string, error) {
	var raw jsoniter.RawMessage
	if err := c.doProtected(ctx, method, endpoint, body, &raw); err != nil {
		return "", err
	}
	var msg apiMessage
	// Bodies that are not a message object (a bare record, an empty body)
	// simply carry no message.
	_ = json.Unmarshal(raw, &msg)
	return msg.text(), nil
}

// ------------------ Auth ------------------

// Login exchanges credentials for an access token. It does not store the
// token; that is up to the caller.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, "/auth/login", "", creds)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out loginResponse
	if err := c.decode(ctx, resp, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrNoToken
	}
	return out.AccessToken, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	resp, err := c.send(ctx, http.MethodPost, "/auth/register", "", creds)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(ctx, resp, nil)
}

// ------------------ Dashboard resources ------------------

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.FetchProtected(ctx, "/api/library/stats", &s)
	return s, err
}

func (c *Client) Books(ctx context.Context) ([]Book, error) {
	var books []Book
	err := c.FetchProtected(ctx, "/api/books", &books)
	return books, err
}

func (c *Client) Students(ctx context.Context) ([]Student, error) {
	var students []Student
	err := c.FetchProtected(ctx, "/api/students", &students)
	return students, err
}

func (c *Client) BorrowRecords(ctx context.Context) ([]BorrowRecord, error) {
	var records []BorrowRecord
	err := c.FetchProtected(ctx, "/api/borrow-records", &records)
	return records, err
}

// ------------------ Positions ------------------

func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	var positions []Position
	err := c.FetchProtected(ctx, "/positions", &positions)
	return positions, err
}

func (c *Client) CreatePosition(ctx context.Context, in PositionInput) (string, error) {
	return c.writeProtected(ctx, http.MethodPost, "/positions", in)
}

func (c *Client) UpdatePosition(ctx context.Context, id int64, in PositionInput) (string, error) {
	return c.writeProtected(ctx, http.MethodPut, fmt.Sprintf("/positions/%d", id), in)
}

func (c *Client) DeletePosition(ctx context.Context, id int64) (string, error) {
	return c.writeProtected(ctx, http.MethodDelete, fmt.Sprintf("/positions/%d", id), nil)
}

// ------------------ Transport ------------------

func (c *Client) url(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) send(ctx context.Context, method, endpoint, token string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint), rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn("api request failed", "method", method, "endpoint", endpoint, "request_id", reqID, "err", err)
		return nil, &NetworkError{Err: err}
	}
	c.logger.Debug("api request", "method", method, "endpoint", endpoint, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))
	return resp, nil
}

func (c *Client) decode(ctx context.Context, resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg apiMessage
		_ = json.Unmarshal(data, &msg)
		return &RequestFailedError{StatusCode: resp.StatusCode, Message: msg.text()}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
