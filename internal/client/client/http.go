package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/buildinfo"
	"github.com/dmitrijs2005/jobhub/internal/client/models"
	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/google/uuid"
)

// Backend routes relative to the base URL.
const (
	PathRegister  = "/register"
	PathLogin     = "/login"
	PathOTPSend   = "/otp/send"
	PathOTPVerify = "/otp/verify"
	PathLogout    = "/logout"
	PathHealth    = "/health"
)

// HTTPClient talks to the jobhub REST API.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTokenSource sets where the bearer token of the current session comes
// from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for the API rooted at baseURL. A zero
// timeout disables the per-request deadline.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: empty server url", common.ErrValidation)
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: server url must start with http:// or https://", common.ErrValidation)
	}

	c := &HTTPClient{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
		logger:  logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpSendRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// authResponse is the success body shared by login and OTP verification.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (r *authResponse) session() *models.Session {
	if r.Token == "" || r.User == nil {
		return nil
	}
	return &models.Session{User: *r.User, Token: r.Token}
}

// Register, Login, SendOTP and VerifyOTP act for an account that is not
// signed in yet, so they never carry the current session's token.
func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, PathRegister, "", req, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, "", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	s := resp.session()
	if s == nil {
		return nil, common.NewBackendError(http.StatusBadGateway, "login response is missing token or user")
	}
	return s, nil
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, PathOTPSend, "", otpSendRequest{Email: email}, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) (*models.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, PathOTPVerify, "", otpVerifyRequest{Email: email, Code: code}, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// Logout notifies the backend that token is no longer in use. The token is
// passed explicitly because the local session is usually gone by the time
// the notification is sent.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, PathLogout, token, struct{}{}, nil)
}

// Ping probes backend liveness on behalf of the signed-in session, if any.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, PathHealth, c.bearer(ctx), nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) bearer(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens(ctx)
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatus(resp)
		c.logger.Debug(ctx, "request rejected", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return common.NewBackendError(http.StatusBadGateway, fmt.Sprintf("malformed %s response: %v", path, err))
	}
	return nil
}
