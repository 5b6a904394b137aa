package backendclient

// Package backendclient is the HTTP client for the external authorization
// backend. The authinfo call is the core's single wire dependency: the
// backend receives the caller's original headers and is the sole source of
// truth for the resolved role set.

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seclens/dashgate/config"
	domainauth "github.com/seclens/dashgate/internal/domain/auth"
	apperrors "github.com/seclens/dashgate/internal/errors"
	"github.com/seclens/dashgate/internal/observability/metrics"
)

// Client calls the authorization backend. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	baseURL      *url.URL
	authInfoPath string
	timeout      time.Duration
	allowHeaders []string
	httpClient   *http.Client
}

// Options groups optional Client dependencies.
type Options struct {
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// New validates the backend configuration and constructs a Client.
func New(cfg config.BackendConfig, opts Options) (*Client, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apperrors.StartupConfigf("invalid backend URL %q", cfg.URL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipTLSVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in for development setups
		}
		httpClient = &http.Client{Transport: transport}
	}

	return &Client{
		baseURL:      base,
		authInfoPath: cfg.AuthInfoPath,
		timeout:      cfg.Timeout,
		allowHeaders: append([]string(nil), cfg.HeaderAllowList...),
		httpClient:   httpClient,
	}, nil
}

// authInfoResponse mirrors the backend's authinfo body.
type authInfoResponse struct {
	UserName     string   `json:"user_name"`
	BackendRoles []string `json:"backend_roles"`
	IsAnonymous  bool     `json:"is_anonymous_auth"`
}

// errorResponse is the backend's error body shape; Reason is best-effort.
type errorResponse struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// AuthInfo resolves the caller's identity by forwarding the allow-listed
// request headers to the backend. It is idempotent and may be called more
// than once per request.
func (c *Client) AuthInfo(ctx context.Context, headers http.Header) (domainauth.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath(c.authInfoPath).String(), nil)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build authinfo request")
	}
	c.copyAllowedHeaders(req, headers)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackendAuthInfo(time.Since(start), "error")
		if errors.Is(err, context.DeadlineExceeded) {
			return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "authinfo call timed out")
		}
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeBackendUnavailable, "authinfo call failed")
	}
	defer resp.Body.Close()
	metrics.ObserveBackendAuthInfo(time.Since(start), strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeBackendUnavailable, "read authinfo response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var parsed authInfoResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeBackendUnavailable, "decode authinfo response")
		}
		return domainauth.Identity{
			Username:     parsed.UserName,
			BackendRoles: parsed.BackendRoles,
			IsAnonymous:  parsed.IsAnonymous,
		}, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domainauth.Identity{}, apperrors.BackendAuth(resp.StatusCode, backendMessage(body, "not authenticated"))

	default:
		return domainauth.Identity{}, apperrors.BackendUnavailable(
			fmt.Sprintf("backend returned status %d: %s", resp.StatusCode, backendMessage(body, "unexpected response")))
	}
}

// copyAllowedHeaders forwards only allow-listed caller headers, so the
// backend sees credentials and tenant selection but nothing else.
func (c *Client) copyAllowedHeaders(req *http.Request, headers http.Header) {
	for _, name := range c.allowHeaders {
		for _, v := range headers.Values(name) {
			req.Header.Add(name, v)
		}
	}
}

func backendMessage(body []byte, fallback string) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Reason != "" {
			return parsed.Reason
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 256 {
		return s
	}
	return fallback
}
