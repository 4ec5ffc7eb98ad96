// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the request client used to talk to a content
// repository: base URL binding, default headers, authentication and the
// central translation of failures into APIError values.
package httputil

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

// DefaultTimeout is the fixed per-request timeout for repository calls.
const DefaultTimeout = 30 * time.Second

// Options tunes a Client. The zero value is ready to use.
type Options struct {
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration

	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper

	// Logger receives one error entry per failed exchange.
	Logger logrus.FieldLogger
}

// Client issues requests against a single repository base URL. It is
// immutable after NewClient returns.
type Client struct {
	base   string
	header http.Header
	http   *http.Client
	log    logrus.FieldLogger
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient returns a client bound to baseURL. baseURL must be an absolute
// http or https URL. auth may be nil.
func NewClient(baseURL string, auth *types.AuthConfig, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be an absolute http(s) URL", baseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	if name, value, ok := AuthHeader(auth); ok {
		header.Set(name, value)
	}

	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		header: header,
		http:   &http.Client{Timeout: timeout, Transport: opts.Transport},
		log:    log,
	}, nil
}

// AuthHeader returns the single header that auth selects. ok is false when
// auth is nil, has no key, or names an unknown type.
func AuthHeader(auth *types.AuthConfig) (name, value string, ok bool) {
	if auth == nil || auth.APIKey == "" {
		return "", "", false
	}
	switch auth.Type {
	case types.AuthBearer:
		return "Authorization", "Bearer " + auth.APIKey, true
	case types.AuthAPIKey:
		return "X-API-Key", auth.APIKey, true
	case types.AuthBasic:
		return "Authorization", "Basic " + base64.StdEncoding.EncodeToString([]byte(auth.APIKey)), true
	}
	return "", "", false
}

// BaseURL returns the normalized base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// Header returns a copy of the headers sent with every request.
func (c *Client) Header() http.Header { return c.header.Clone() }

// Get issues a GET for path (already escaped, starting with "/").
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Do performs one exchange. Every failure is logged and returned as an
// *APIError.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any) (*Response, error) {
	resp, err := c.do(ctx, method, path, params, body)
	if err != nil {
		entry := c.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"kind":   string(err.Kind),
		})
		if err.StatusCode != 0 {
			entry = entry.WithField("status", err.StatusCode)
		}
		entry.WithError(err.Err).Error("repository API error")
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*Response, *APIError) {
	reqURL := c.base + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, RequestError(fmt.Errorf("encoding request body: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, RequestError(fmt.Errorf("creating request: %w", err))
	}
	req.Header = c.header.Clone()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, NetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NetworkError(fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, StatusError(resp.StatusCode, data)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// DecodeJSON decodes the body into v, keeping numbers as json.Number when v
// holds interface values.
func (r *Response) DecodeJSON(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return RequestError(fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// Data returns the body the way a browser client would expose it: decoded
// JSON when the body parses, the raw string otherwise, nil when empty.
func (r *Response) Data() any {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	var v any
	if err := r.DecodeJSON(&v); err != nil {
		return string(r.Body)
	}
	return v
}
