package fcm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultEndpoint = "https://fcm.googleapis.com"

// maxResponseBody caps how much of an error response is read for diagnostics.
const maxResponseBody = 1 << 20

// Client sends messages to the FCM HTTP v1 API.
//
// A Client is safe for concurrent use; concurrent sends proceed in parallel
// and serialize only inside the TokenSource during token acquisition. The
// client never retries; retry and backoff policy belongs to the caller.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithEndpoint overrides the FCM endpoint base URL used by Send. Useful for
// pointing the client at a mock server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// NewClient creates a client that authenticates with tokens from the given
// source.
func NewClient(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   defaultEndpoint,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "FCMClient")
	return c
}

// Send delivers msg to the device token registered under the given Firebase
// project. The destination URL is derived from the project ID.
func (c *Client) Send(ctx context.Context, projectID string, msg *Message) error {
	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", c.endpoint, projectID)
	return c.SendToURL(ctx, url, msg)
}

// SendToURL behaves exactly like Send but posts to an explicit URL. Normally
// Send is what you want; this exists for testing against alternate endpoints.
//
// Every failure is reported as exactly one of *TokenError, ErrInvalidPayload,
// *SerializationError, *NetworkError or *ServerError. A 2xx response is
// success; its body is not inspected.
func (c *Client) SendToURL(ctx context.Context, url string, msg *Message) error {
	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return &TokenError{Err: err}
	}

	body, err := BuildPayload(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &NetworkError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("FCM message sent", "token", msg.Token)
		return nil
	}

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NetworkError{Op: "read response", Err: err}
	}
	c.logger.Error("FCM rejected message", "status", resp.StatusCode, "body", string(text))
	return &ServerError{StatusCode: resp.StatusCode, Body: string(text)}
}
