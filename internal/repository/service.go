// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repository is the data-access layer for a clinical-study content
// repository. A Service holds one configured request client and exposes
// connectivity checks, search, detail fetch and bulk download. Depending on
// its FallbackMode, failed requests either surface as *httputil.APIError
// values or are answered from the fixtures package.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/usdm-repo/internal/fixtures"
	"github.com/pdiddy/usdm-repo/internal/httputil"
	"github.com/pdiddy/usdm-repo/pkg/types"
)

// ErrNotConfigured is returned by every operation invoked before Configure.
var ErrNotConfigured = errors.New("repository not configured")

// Options tunes a Service. The zero value gives a propagating service that
// logs through the logrus standard logger.
type Options struct {
	// Fallback selects what happens when a search, detail or download
	// request fails. Empty means types.FallbackPropagate.
	Fallback types.FallbackMode

	Logger logrus.FieldLogger

	// Timeout overrides httputil.DefaultTimeout. Tests only.
	Timeout time.Duration

	// Transport overrides the HTTP transport. Tests only.
	Transport http.RoundTripper

	// Now is the clock used for download timestamps.
	Now func() time.Time
}

// Service is the repository client. Construct it once with New and pass it
// to whatever needs repository access.
type Service struct {
	mode      types.FallbackMode
	log       logrus.FieldLogger
	timeout   time.Duration
	transport http.RoundTripper
	now       func() time.Time
	fixtures  *fixtures.Store

	mu   sync.RWMutex
	conn *httputil.Client
}

// New returns an unconfigured Service. In mock mode it also loads the
// fixture data set; call Close to release it.
func New(opts Options) (*Service, error) {
	mode := opts.Fallback
	if mode == "" {
		mode = types.FallbackPropagate
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown fallback mode %q: use %q or %q",
			opts.Fallback, types.FallbackMock, types.FallbackPropagate)
	}

	s := &Service{
		mode:      mode,
		log:       opts.Logger,
		timeout:   opts.Timeout,
		transport: opts.Transport,
		now:       opts.Now,
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}

	if mode == types.FallbackMock {
		store, err := fixtures.Open()
		if err != nil {
			return nil, fmt.Errorf("loading mock data: %w", err)
		}
		s.fixtures = store
	}
	return s, nil
}

// Close releases the fixture store, if any.
func (s *Service) Close() error {
	if s.fixtures == nil {
		return nil
	}
	return s.fixtures.Close()
}

// FallbackMode reports the mode the service was built with.
func (s *Service) FallbackMode() types.FallbackMode { return s.mode }

// Configure binds the service to baseURL with optional credentials. Each
// call replaces the previous base URL, credentials and client entirely. On
// error the previous configuration is kept.
func (s *Service) Configure(baseURL string, auth *types.AuthConfig) error {
	var creds *types.AuthConfig
	if auth != nil {
		a := *auth
		creds = &a
	}

	conn, err := httputil.NewClient(baseURL, creds, httputil.Options{
		Timeout:   s.timeout,
		Transport: s.transport,
		Logger:    s.log,
	})
	if err != nil {
		return fmt.Errorf("configuring repository: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"base_url": conn.BaseURL(),
		"auth":     authLabel(creds),
	}).Debug("repository configured")
	return nil
}

// BaseURL returns the configured base URL, or "" before Configure.
func (s *Service) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return ""
	}
	return s.conn.BaseURL()
}

func (s *Service) client() (*httputil.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return nil, ErrNotConfigured
	}
	return s.conn, nil
}

// TestConnection probes GET /health and, if that fails, GET /. The error
// from the second probe is returned when both fail.
func (s *Service) TestConnection(ctx context.Context) (types.ConnectionResult, error) {
	c, err := s.client()
	if err != nil {
		return types.ConnectionResult{}, err
	}

	resp, err := c.Get(ctx, "/health", nil)
	if err != nil {
		s.log.WithError(err).Debug("health endpoint failed, probing repository root")
		resp, err = c.Get(ctx, "/", nil)
		if err != nil {
			return types.ConnectionResult{}, err
		}
	}
	return types.ConnectionResult{Success: true, Data: resp.Data()}, nil
}

// useFallback reports whether a failed operation should be answered with
// mock data, logging the failure when it is.
func (s *Service) useFallback(op string, err error) bool {
	if s.mode != types.FallbackMock {
		return false
	}
	s.log.WithFields(logrus.Fields{
		"operation": op,
		"error":     err.Error(),
	}).Warn("repository request failed, returning mock data")
	return true
}

func authLabel(auth *types.AuthConfig) string {
	if _, _, ok := httputil.AuthHeader(auth); !ok {
		return "none"
	}
	return string(auth.Type)
}
