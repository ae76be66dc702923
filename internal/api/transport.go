// Package api provides low-level HTTP transport for SCM API calls.
package api

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

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Transport handles HTTP communication with the SCM API. The HTTP client
// is expected to carry authentication (see internal/auth).
type Transport struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	UserAgent  string
	Logger     hclog.Logger
}

// NewTransport creates a Transport with the given configuration.
func NewTransport(baseURL string, httpClient *http.Client, logger hclog.Logger) (*Transport, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
		httpClient.Timeout = defaultHTTPTimeout
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Transport{
		BaseURL:    u,
		HTTPClient: httpClient,
		UserAgent:  "go-scm/1.0",
		Logger:     logger,
	}, nil
}

// HTTPError is returned for every response with a status code >= 400.
// Body holds the raw response body, which may be empty.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("scm: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Request represents an API request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Get issues a GET request and returns the decoded JSON body.
func (t *Transport) Get(ctx context.Context, path string, params url.Values) (any, error) {
	return t.DoJSON(ctx, &Request{Method: http.MethodGet, Path: path, Query: params})
}

// Post issues a POST request with a JSON body.
func (t *Transport) Post(ctx context.Context, path string, params url.Values, body any) (any, error) {
	return t.DoJSON(ctx, &Request{Method: http.MethodPost, Path: path, Query: params, Body: body})
}

// Put issues a PUT request with a JSON body.
func (t *Transport) Put(ctx context.Context, path string, params url.Values, body any) (any, error) {
	return t.DoJSON(ctx, &Request{Method: http.MethodPut, Path: path, Query: params, Body: body})
}

// Delete issues a DELETE request. A response without body yields nil.
func (t *Transport) Delete(ctx context.Context, path string, params url.Values) (any, error) {
	return t.DoJSON(ctx, &Request{Method: http.MethodDelete, Path: path, Query: params})
}

// Do executes an API request and returns the raw response.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		t.Logger.Debug("request failed", "method", req.Method, "path", req.Path, "error", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	// Limit response body size to prevent memory exhaustion
	limitedReader := io.LimitReader(httpResp.Body, defaultMaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if int64(len(body)) > defaultMaxBodySize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", defaultMaxBodySize)
	}

	t.Logger.Debug("request completed",
		"method", req.Method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"duration", time.Since(start),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// DoJSON executes a request and decodes the JSON response body into a
// generic value (map[string]any, []any, ...). Responses with status >= 400
// are returned as *HTTPError.
func (t *Transport) DoJSON(ctx context.Context, req *Request) (any, error) {
	resp, err := t.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Headers:    resp.Headers,
		}
	}

	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return result, nil
}

func (t *Transport) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := t.BaseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.UserAgent)

	return httpReq, nil
}
