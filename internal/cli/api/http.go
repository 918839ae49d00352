package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"Portal/internal/cli/notify"
)

// DefaultTimeout is the fixed transport-level timeout of every request.
const DefaultTimeout = 15 * time.Second

// FallbackMessage is shown when a failure carries no usable "message" field.
const FallbackMessage = "request failed"

// ErrUnexpectedStatus wraps every non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// TokenSource provides the bearer token for outgoing requests.
type TokenSource interface {
	Token() string
}

// Request describes one API call. Path is relative to the client base URL
// unless it is an absolute http(s) URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// RequestError is the single failure kind of the client: transport errors,
// non-2xx statuses and undecodable payloads all end up here.
type RequestError struct {
	StatusCode int    // 0 when no response was received
	Message    string // message shown to the user
	Body       []byte
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Client is the configured API client shared by all calls.
type Client struct {
	baseURL  string
	http     *http.Client
	notifier notify.Notifier
	logger   *zap.SugaredLogger
	base     http.RoundTripper
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport replaces the underlying transport that the bearer
// transport delegates to.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.base = rt
		}
	}
}

// New creates a Client for baseURL. tokens is consulted on every request;
// notifier receives the message of every failed request. Both may be nil.
func New(baseURL string, tokens TokenSource, notifier notify.Notifier, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		notifier: notifier,
		logger:   zap.NewNop().Sugar(),
		base:     http.DefaultTransport,
	}
	for _, o := range opts {
		o(c)
	}
	if c.notifier == nil {
		c.notifier = notify.Discard
	}
	c.http = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: &bearerTransport{base: c.base, tokens: tokens},
	}
	return c
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string { return c.baseURL }

// bearerTransport добавляет Authorization: Bearer <token>, если токен есть.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens == nil {
		return t.base.RoundTrip(req)
	}
	token := t.tokens.Token()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTripper не должен менять исходный запрос
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(r)
}

// Do performs the request and decodes the JSON payload into T.
// An empty payload yields the zero T.
func Do[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var out T
	status, body, err := c.send(ctx, r)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, c.fail(status, FallbackMessage, body, fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

// Send performs the request and returns the raw payload.
func (c *Client) Send(ctx context.Context, r Request) ([]byte, error) {
	_, body, err := c.send(ctx, r)
	return body, err
}

func (c *Client) send(ctx context.Context, r Request) (int, []byte, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return 0, nil, c.fail(0, FallbackMessage, nil, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debugw("request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return 0, nil, c.fail(0, FallbackMessage, nil, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.logger.Debugw("request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	if err != nil {
		return resp.StatusCode, nil, c.fail(resp.StatusCode, FallbackMessage, nil, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		return resp.StatusCode, body, c.fail(resp.StatusCode, messageFrom(body), body, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	u, err := c.resolve(r.Path)
	if err != nil {
		return nil, err
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var rdr io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return url.Parse(path)
	}
	return url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
}

func (c *Client) fail(status int, msg string, body []byte, err error) *RequestError {
	c.notifier.Notify(msg)
	return &RequestError{StatusCode: status, Message: msg, Body: body, Err: err}
}

// messageFrom достаёт поле "message" из тела ошибки, иначе FallbackMessage.
func messageFrom(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return FallbackMessage
	}
	return payload.Message
}
