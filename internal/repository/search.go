// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/pdiddy/usdm-repo/internal/httputil"
	"github.com/pdiddy/usdm-repo/pkg/types"
)

// searchParams is the query string of GET /search. q is always sent; type
// and the filters are dropped when empty.
type searchParams struct {
	Query string `url:"q"`
	Type  string `url:"type,omitempty"`
	types.FilterSet
}

func buildSearchParams(cfg types.SearchConfig) (url.Values, error) {
	p := searchParams{
		Query:     cfg.Query,
		FilterSet: cfg.Filters,
	}
	if cfg.Type != types.SearchAll {
		p.Type = cfg.Type
	}
	v, err := query.Values(p)
	if err != nil {
		return nil, fmt.Errorf("encoding search parameters: %w", err)
	}
	return v, nil
}

// Search queries GET /search and normalizes the hits. In mock mode a failed
// request is answered from the fixture set filtered by cfg.
func (s *Service) Search(ctx context.Context, cfg types.SearchConfig) ([]types.ResultItem, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}

	items, err := s.search(ctx, c, cfg)
	if err != nil {
		if s.useFallback("search", err) {
			return s.fixtures.Search(ctx, cfg)
		}
		return nil, err
	}
	return items, nil
}

func (s *Service) search(ctx context.Context, c *httputil.Client, cfg types.SearchConfig) ([]types.ResultItem, error) {
	params, err := buildSearchParams(cfg)
	if err != nil {
		return nil, httputil.RequestError(err)
	}

	resp, err := c.Get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}
	return formatSearchResults(resp.Data()), nil
}
