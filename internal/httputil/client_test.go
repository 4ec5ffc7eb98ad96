// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

func quietLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}

func TestAuthHeader(t *testing.T) {
	tests := []struct {
		name      string
		auth      *types.AuthConfig
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{"nil config", nil, "", "", false},
		{"empty key", &types.AuthConfig{Type: types.AuthBearer}, "", "", false},
		{"bearer", &types.AuthConfig{Type: types.AuthBearer, APIKey: "X"}, "Authorization", "Bearer X", true},
		{"api key", &types.AuthConfig{Type: types.AuthAPIKey, APIKey: "k-123"}, "X-API-Key", "k-123", true},
		{"basic", &types.AuthConfig{Type: types.AuthBasic, APIKey: "user:pass"}, "Authorization", "Basic dXNlcjpwYXNz", true},
		{"unknown type", &types.AuthConfig{Type: "oauth", APIKey: "X"}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, ok := AuthHeader(tt.auth)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "repo.example.org", "ftp://repo.example.org", "http://", "://bad"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NewClient(raw, nil, Options{})
			assert.Error(t, err)
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("https://repo.example.org/api/", nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://repo.example.org/api", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "application/json", c.Header().Get("Content-Type"))
	assert.Empty(t, c.Header().Get("Authorization"))
	assert.Empty(t, c.Header().Get("X-API-Key"))
}

func TestClientSendsHeadersAndQuery(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer ts.Close()

	logger, _ := quietLogger()
	c, err := NewClient(ts.URL+"/api", &types.AuthConfig{Type: types.AuthAPIKey, APIKey: "secret"}, Options{Logger: logger})
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "/search", url.Values{"q": {"baseline"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))

	require.NotNil(t, got)
	assert.Equal(t, "/api/search", got.URL.Path)
	assert.Equal(t, "baseline", got.URL.Query().Get("q"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "secret", got.Header.Get("X-API-Key"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestClientPostEncodesJSON(t *testing.T) {
	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	logger, _ := quietLogger()
	c, err := NewClient(ts.URL, nil, Options{Logger: logger})
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "/download", map[string]any{"items": []string{"A"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":["A"]}`, body)
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		status   int
		body     string
		wantKind ErrorKind
		wantMsg  string
	}{
		{http.StatusUnauthorized, "", KindAuthentication, "Authentication failed. Please check your credentials."},
		{http.StatusForbidden, "", KindAccessDenied, "Access denied. Insufficient permissions."},
		{http.StatusNotFound, "", KindNotFound, "Repository endpoint not found."},
		{http.StatusInternalServerError, "", KindServer, "Repository server error. Please try again later."},
		{http.StatusBadGateway, `{"message":"upstream"}`, KindServer, "Repository server error. Please try again later."},
		{http.StatusBadRequest, `{"message":"query too short"}`, KindRepository, "Repository error: query too short"},
		{http.StatusConflict, "not json", KindRepository, "Repository error: Conflict"},
		{http.StatusTooManyRequests, `{"message":""}`, KindRepository, "Repository error: Too Many Requests"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			logger, hook := quietLogger()
			c, err := NewClient(ts.URL, nil, Options{Logger: logger})
			require.NoError(t, err)

			_, err = c.Get(context.Background(), "/health", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, err.Error())

			require.Len(t, hook.Entries, 1)
			assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
			assert.Equal(t, tt.status, hook.LastEntry().Data["status"])
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := ts.URL
	ts.Close()

	logger, _ := quietLogger()
	c, err := NewClient(base, nil, Options{Logger: logger})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/health", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Zero(t, apiErr.StatusCode)
	assert.Equal(t, "Network error. Please check your connection and repository URL.", err.Error())
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer ts.Close()

	logger, _ := quietLogger()
	c, err := NewClient(ts.URL, nil, Options{Logger: logger, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/slow", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNetwork, apiErr.Kind)
}

func TestClientCancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer ts.Close()

	logger, _ := quietLogger()
	c, err := NewClient(ts.URL, nil, Options{Logger: logger})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Get(ctx, "/", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientRequestError(t *testing.T) {
	logger, _ := quietLogger()
	c, err := NewClient("http://repo.example.org", nil, Options{Logger: logger})
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "/download", map[string]any{"bad": make(chan int)})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindRequest, apiErr.Kind)
	assert.Contains(t, err.Error(), "Request error: encoding request body")
}

func TestResponseData(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{"empty", "", nil},
		{"whitespace", "  \n", nil},
		{"json object", `{"status":"ok"}`, map[string]any{"status": "ok"}},
		{"plain text", "OK", "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{Body: []byte(tt.body)}
			assert.Equal(t, tt.want, r.Data())
		})
	}
}

func TestDecodeJSONError(t *testing.T) {
	r := &Response{Body: []byte("<html>")}
	var v any
	err := r.DecodeJSON(&v)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindRequest, apiErr.Kind)
}
