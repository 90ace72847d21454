package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fadedpez/neobank/internal/logging"
	"github.com/fadedpez/neobank/internal/types"
	"github.com/fadedpez/neobank/pkg/metrics"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 8 << 20

// Credentials supplies the bearer credential for authenticated calls and
// is told when the backend rejects it
type Credentials interface {
	Credential() (string, error)
	Expire(ctx context.Context, credential string)
}

// Client translates domain operations into backend requests. Every
// method issues at most one request and returns either a typed value or
// a *types.ClientError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	validate   *validator.Validate
	logger     *logging.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger overrides the logger
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the backend at baseURL
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		creds:      creds,
		validate:   newValidator(),
		logger:     logging.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one backend request
type call struct {
	op       string // metrics label
	method   string
	path     string
	query    url.Values
	body     interface{}
	auth     bool
	token    string // explicit credential; rejections do not touch the session
	fallback string // message used when the server gives none
}

type errorPayload struct {
	Error   string `json:"error"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// do sends c and decodes a successful JSON response into out
func (c *Client) do(ctx context.Context, req call, out interface{}) error {
	data, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return types.WrapError(types.ErrRemoteFailure, req.fallback, fmt.Errorf("decoding %s response: %w", req.op, err))
	}
	return nil
}

func (c *Client) send(ctx context.Context, req call) (data []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestsTotal.WithLabelValues(req.op, outcomeOf(err)).Inc()
		metrics.GatewayRequestDuration.WithLabelValues(req.op).Observe(time.Since(start).Seconds())
	}()

	if req.body != nil {
		if err := c.validate.StructCtx(ctx, req.body); err != nil {
			return nil, validationError(err)
		}
	}

	token := req.token
	sessionToken := false
	if req.auth && token == "" {
		token, err = c.creds.Credential()
		if err != nil {
			return nil, err
		}
		sessionToken = true
	}

	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, types.WrapError(types.ErrInternalError, req.fallback, err)
		}
		body = bytes.NewReader(encoded)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, types.WrapError(types.ErrInternalError, req.fallback, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("[GATEWAY] %s %s failed: %v", req.method, req.path, err)
		return nil, types.WrapError(types.ErrRemoteFailure, req.fallback, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, types.WrapError(types.ErrRemoteFailure, req.fallback, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	if req.auth && rejectsCredential(resp.StatusCode) {
		c.logger.Info("[GATEWAY] %s rejected credential with %d", req.op, resp.StatusCode)
		if sessionToken {
			c.creds.Expire(ctx, token)
		}
		return nil, types.NewSessionExpired(resp.StatusCode)
	}

	message := remoteMessage(data, req.fallback)
	c.logger.Debug("[GATEWAY] %s returned %d: %s", req.op, resp.StatusCode, message)
	return nil, types.NewRemoteFailure(resp.StatusCode, message)
}

// rejectsCredential reports whether status is one the backend's JWT layer
// uses for missing, expired, or malformed tokens
func rejectsCredential(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity
}

func remoteMessage(data []byte, fallback string) string {
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	switch {
	case payload.Error != "":
		return payload.Error
	case payload.Msg != "":
		return payload.Msg
	case payload.Message != "":
		return payload.Message
	}
	return fallback
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case types.Is(err, types.ErrSessionExpired), types.Is(err, types.ErrNotAuthenticated):
		return metrics.OutcomeSessionExpired
	case types.Is(err, types.ErrValidation):
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeRemoteFailure
	}
}
