package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coi-exe/qrforge/internal/types"
)

// Rendering service endpoints, relative to the base URL
const (
	GeneratePath = "/api/generate"
	DownloadPath = "/api/download"
)

const userAgent = "qrforge"

// Client talks to the rendering service. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	headers map[string]string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHeaders adds headers to every request
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		headers: make(map[string]string),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromProfile builds a client from a backend profile, applying its
// headers, TLS settings and timeout
func NewClientFromProfile(p *types.Profile) (*Client, error) {
	var timeout time.Duration
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return nil, fmt.Errorf("profile %q: invalid timeout %q: %w", p.Name, p.Timeout, err)
		}
		timeout = d
	}

	hc, err := buildHTTPClient(p.TLS, timeout)
	if err != nil {
		return nil, fmt.Errorf("profile %q: failed to configure HTTP client: %w", p.Name, err)
	}

	return NewClient(p.BaseURL, WithHeaders(p.Headers), WithHTTPClient(hc))
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Generate asks the service to render req. A result with success=false is
// returned together with a *ServiceError carrying the service message.
func (c *Client) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	resp, err := c.post(ctx, GeneratePath, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrServiceUnreachable, err)
	}

	var result types.GenerationResult
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Debug("undecodable generate response", "status", resp.StatusCode, "error", err)
		return nil, unexpectedResponse(resp.StatusCode)
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("rendering service reported a failure (HTTP %d)", resp.StatusCode)
		}
		return &result, &ServiceError{Status: resp.StatusCode, Message: msg}
	}
	if result.Image == "" {
		return nil, unexpectedResponse(resp.StatusCode)
	}

	return &result, nil
}

// Download asks the service for the PNG rendering of req
func (c *Client) Download(ctx context.Context, req types.GenerationRequest) ([]byte, error) {
	resp, err := c.post(ctx, DownloadPath, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading download: %w", ErrServiceUnreachable, err)
	}

	if !IsSuccessStatus(resp.StatusCode) {
		derr := &DownloadError{Status: resp.StatusCode}
		var failure types.GenerationResult
		if json.Unmarshal(body, &failure) == nil {
			derr.Message = failure.Error
		}
		return nil, derr
	}

	return body, nil
}

// FetchImage returns the bytes behind an image reference as shown in a
// generation result. data: URIs are decoded locally; other references are
// fetched, relative ones against the base URL.
func (c *Client) FetchImage(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty image reference", ErrImageFetch)
	}
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURI(ref)
	}

	target, err := c.baseURL.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	c.applyHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if !IsSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: HTTP %d", ErrImageFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, path string, req types.GenerationRequest) (*http.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(path).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.applyHeaders(httpReq)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		slog.Warn("rendering service unreachable", "path", path, "reason", CategorizeError(err))
		return nil, fmt.Errorf("%w: %w", ErrServiceUnreachable, err)
	}

	slog.Debug("rendering service call",
		"path", path,
		"mode", req.Mode,
		"status", resp.StatusCode,
		"duration", FormatDuration(time.Since(start).Milliseconds()))
	return resp, nil
}

func (c *Client) applyHeaders(r *http.Request) {
	r.Header.Set("User-Agent", userAgent)
	for k, v := range c.headers {
		r.Header.Set(k, v)
	}
}

// decodeDataURI decodes a base64 data: URI such as data:image/png;base64,...
func decodeDataURI(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", ErrImageFetch)
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data URI is not base64 encoded", ErrImageFetch)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}
	return data, nil
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration.
// A zero timeout leaves requests bounded only by the context.
func buildHTTPClient(tlsConfig *types.TLSConfig, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		// Client certificate for mTLS
		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}
