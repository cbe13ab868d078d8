package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/deliverydesk/deliverydesk/internal/cli/auth"
)

const (
	// ClientTypeHeader identifies the caller as the administrative client
	ClientTypeHeader = "X-Client-Type"
	ClientType       = "admin"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

var emptyObject = json.RawMessage(`{}`)

// Client is the single choke-point for every call the console makes to the admin API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        auth.TokenStore
	logger       zerolog.Logger
	clientID     string
	clientSecret string

	mu      sync.RWMutex
	token   string
	adminID string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used to report failed calls
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClientCredentials sets the OAuth client id/secret sent on login
func WithClientCredentials(clientID, clientSecret string) Option {
	return func(c *Client) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

// New creates a new API client. The stored credential, if any, is loaded immediately.
func New(baseURL string, store auth.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No explicit timeout: a hung request stays pending until the transport gives up.
		httpClient: &http.Client{},
		store:      store,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if token, ok := store.Read(); ok {
		c.token = token
		c.adminID, _ = store.AdminID()
	}

	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	method      string
	body        io.Reader
	contentType string
	headers     map[string]string
	query       url.Values
	noAuth      bool
	err         error
}

// RequestOption overrides part of an outbound request
type RequestOption func(*requestOptions)

// WithMethod sets the HTTP method (GET by default)
func WithMethod(method string) RequestOption {
	return func(o *requestOptions) {
		o.method = method
	}
}

// WithJSONBody marshals v as the request body
func WithJSONBody(v any) RequestOption {
	return func(o *requestOptions) {
		data, err := json.Marshal(v)
		if err != nil {
			o.err = fmt.Errorf("failed to marshal request: %w", err)
			return
		}
		o.body = bytes.NewReader(data)
		o.contentType = contentTypeJSON
	}
}

// WithFormBody sends form-encoded values instead of JSON
func WithFormBody(form url.Values) RequestOption {
	return func(o *requestOptions) {
		o.body = strings.NewReader(form.Encode())
		o.contentType = contentTypeForm
	}
}

// WithHeader adds or overrides a request header
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithoutAuthorization omits the bearer header even when a token is held
func WithoutAuthorization() RequestOption {
	return func(o *requestOptions) {
		o.noAuth = true
	}
}

// WithQuery sets query parameters
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		o.query = query
	}
}

// Request sends a request to path (relative to the base URL) and returns the parsed JSON body.
// An empty body yields an empty object. Non-2xx responses fail with *APIError.
func (c *Client) Request(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	ro := requestOptions{
		method:      http.MethodGet,
		contentType: contentTypeJSON,
	}
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.err != nil {
		return nil, ro.err
	}

	endpoint := c.baseURL + path
	if len(ro.query) > 0 {
		endpoint += "?" + ro.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, ro.method, endpoint, ro.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", ro.contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(ClientTypeHeader, ClientType)
	if token := c.Token(); token != "" && !ro.noAuth {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	for key, value := range ro.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", ro.method).Str("path", path).Msg("API request failed")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("method", ro.method).Str("path", path).Msg("Failed to read API response")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		if !success {
			return nil, c.apiError(ro.method, path, resp.StatusCode, nil)
		}
		return emptyObject, nil
	}

	if !json.Valid(body) {
		if !success {
			return nil, c.apiError(ro.method, path, resp.StatusCode, body)
		}
		c.logger.Error().
			Str("method", ro.method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("API returned a body that is not JSON")
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, ErrInvalidJSON)
	}

	if !success {
		return nil, c.apiError(ro.method, path, resp.StatusCode, body)
	}

	return json.RawMessage(body), nil
}

// apiError logs a non-2xx response and returns it as *APIError
func (c *Client) apiError(method, path string, status int, body []byte) *APIError {
	apiErr := newAPIError(status, body)
	c.logger.Warn().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Str("api_message", apiErr.Message).
		Msg("API returned an error")
	return apiErr
}

// do calls Request and decodes the result into out
func (c *Client) do(ctx context.Context, path string, out any, opts ...RequestOption) error {
	data, err := c.Request(ctx, path, opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Failed to decode API response")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Token returns the access token currently held in memory
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AdminID returns the admin identifier paired with the held token
func (c *Client) AdminID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adminID
}

// IsAuthenticated reports whether a token is held. It does not re-validate with the backend.
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

func (c *Client) setCredential(token, adminID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.adminID = adminID
}
