// Package supplier talks to the supplier's trade website: a form login that
// yields a PHP session cookie, and a JSON cart endpoint driven by that session.
package supplier

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/integration"
)

// maxResponseSize caps how much of a supplier response is read (1MB)
const maxResponseSize = 1 << 20

// Client implements integration.SupplierCart over HTTP
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default instrumented client. Redirects are
// still never followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		copied.CheckRedirect = noRedirect
		c.httpClient = &copied
	}
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a supplier client. Per-call deadlines come from the
// caller's context.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		config: cfg,
		httpClient: &http.Client{
			Transport:     otelhttp.NewTransport(http.DefaultTransport),
			CheckRedirect: noRedirect,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// The login page answers with a redirect that carries the session cookie.
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// Login posts the account form and returns the PHP session it hands out
func (c *Client) Login(ctx context.Context, creds integration.SupplierCredentials) (*integration.SupplierSession, error) {
	form := url.Values{}
	form.Set("email", creds.Email)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("supplier: failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: login HTTP %d", integration.ErrSupplierUnavailable, resp.StatusCode)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie && ck.Value != "" {
			c.logger.Debug("supplier login succeeded", zap.Int("status", resp.StatusCode))
			return &integration.SupplierSession{
				Cookie:    ck.Name + "=" + ck.Value,
				CreatedAt: time.Now(),
			}, nil
		}
	}
	c.logger.Warn("supplier login returned no session cookie", zap.Int("status", resp.StatusCode))
	return nil, integration.ErrSupplierAuthFailed
}

// SetCartQuantity sets a product's quantity in the session's cart
func (c *Client) SetCartQuantity(
	ctx context.Context,
	session *integration.SupplierSession,
	supplierProductID string,
	quantity int,
) (*integration.CartMutationResult, error) {
	if session == nil || session.Cookie == "" {
		return nil, integration.ErrSupplierAuthFailed
	}
	body, err := json.Marshal(cartRequest{Func: cartUpdateFunc, ID: supplierProductID, Qty: quantity})
	if err != nil {
		return nil, fmt.Errorf("supplier: failed to encode cart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+cartPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("supplier: failed to create cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", session.Cookie)
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: cart HTTP %d", integration.ErrSupplierUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: cart HTTP %d", integration.ErrSupplierRequestFailed, resp.StatusCode)
	}

	var parsed cartResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrSupplierInvalidResponse, err)
	}

	result := &integration.CartMutationResult{OK: parsed.OK, Message: parsed.Msg}
	if parsed.Data != nil && parsed.Data.CartItem != nil {
		line := &integration.CartLine{UnitPrice: parsed.Data.CartItem.Price}
		if q := parsed.Data.CartItem.Quantity; q != nil {
			line.Quantity = int(q.IntPart())
		}
		result.Line = line
	}
	return result, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

// transportError classifies a failed round trip; deadline expiry becomes ErrRemoteTimeout
func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", integration.ErrRemoteTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", integration.ErrRemoteTimeout, err)
	}
	return fmt.Errorf("%w: %v", integration.ErrSupplierUnavailable, err)
}

// Ensure Client implements integration.SupplierCart
var _ integration.SupplierCart = (*Client)(nil)
