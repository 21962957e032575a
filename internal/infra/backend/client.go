package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"bizbay/internal/app/dto"
)

// ErrUnavailable is returned when the backend cannot be reached at all, either
// because the transport failed or because the circuit breaker is open.
var ErrUnavailable = errors.New("backend: unavailable")

// Config defines REST client settings.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	BreakerMaxFails uint32
	BreakerCooldown time.Duration
}

// Client wraps the marketplace backend REST API. Every call forwards the
// caller's bearer token; the client holds no credentials of its own.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// Response carries the backend's status and raw body so proxy routes can relay
// both unchanged.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if r == nil || len(r.Body) == 0 {
		return errors.New("backend: empty response body")
	}
	return json.Unmarshal(r.Body, out)
}

// Message extracts the backend's error message field, falling back when the
// body carries none.
func (r *Response) Message(fallback string) string {
	if r == nil || len(r.Body) == 0 {
		return fallback
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}

// New builds a client for the configured base URL.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend: base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxFails := cfg.BreakerMaxFails
	if maxFails == 0 {
		maxFails = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
	}
	if logger != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			logger.Warn("backend breaker state changed", "name", name, "from", from.String(), "to", to.String())
		}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}, nil
}

// Do performs one round trip. Any status from the backend is a successful call
// from the breaker's point of view; only transport failures trip it.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, token string, body any) (*Response, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.roundTrip(ctx, method, path, query, token, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return nil, err
	}
	return result.(*Response), nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, token string, body any) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("backend request failed", "method", method, "path", path, "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// Conversations lists the token owner's conversations.
func (c *Client) Conversations(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, "/conversations", nil, token, nil)
}

// Conversation loads one conversation by id.
func (c *Client) Conversation(ctx context.Context, token, id string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, "/conversations/"+url.PathEscape(id), nil, token, nil)
}

// CreateConversation finds or creates the conversation for a participant pair.
// Idempotency lives in the backend: the same sellerId without a serviceId must
// come back as the same conversation.
func (c *Client) CreateConversation(ctx context.Context, token string, req dto.CreateConversationRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/conversations", nil, token, req)
}

// UnreadCount fetches the viewer-relative aggregate unread counter.
func (c *Client) UnreadCount(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, "/conversations/unread-count", nil, token, nil)
}

// Messages fetches one cursor page. The cursor is forwarded untouched.
func (c *Client) Messages(ctx context.Context, token, conversationID, cursor string, limit int) (*Response, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.Do(ctx, http.MethodGet, "/conversations/"+url.PathEscape(conversationID)+"/messages", query, token, nil)
}

// SendMessage posts already-trimmed content to a conversation.
func (c *Client) SendMessage(ctx context.Context, token, conversationID, content string) (*Response, error) {
	req := dto.SendMessageRequest{Content: content}
	return c.Do(ctx, http.MethodPost, "/conversations/"+url.PathEscape(conversationID)+"/messages", nil, token, req)
}

// Me revalidates a token against the backend's who-am-I endpoint.
func (c *Client) Me(ctx context.Context, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, "/auth/me", nil, token, nil)
}

// CreateService relays the sell-wizard payload without reshaping it.
func (c *Client) CreateService(ctx context.Context, token string, data json.RawMessage) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/services", nil, token, data)
}

// VerifyService relays an admin review decision.
func (c *Client) VerifyService(ctx context.Context, token, serviceID string, req dto.VerifyServiceRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/admin/services/"+url.PathEscape(serviceID)+"/verify", nil, token, req)
}
