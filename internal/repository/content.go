// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

// FormatJSON is the default download format and the only one whose
// response is decoded.
const FormatJSON = "json"

// GetContent fetches GET /{contentType}/{id}, or GET /content/{id} when
// contentType is empty. In mock mode a failure yields a synthesized record.
func (s *Service) GetContent(ctx context.Context, contentID, contentType string) (*types.DetailedContent, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}

	path := "/content/" + url.PathEscape(contentID)
	if contentType != "" {
		path = "/" + url.PathEscape(contentType) + "/" + url.PathEscape(contentID)
	}

	resp, err := c.Get(ctx, path, nil)
	if err == nil {
		d := formatDetail(resp.Data(), contentID, contentType)
		return &d, nil
	}

	if s.useFallback("get_content", err) {
		d := s.fixtures.Detail(contentID, contentType)
		return &d, nil
	}
	return nil, err
}

type downloadRequest struct {
	Items   []string       `json:"items"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

// DownloadContent posts the item ids to /download. format defaults to
// "json". The response body is always kept in Download.Payload; for JSON
// downloads a bundle object or content array is also decoded into
// Download.Bundle. In mock mode a failure yields a generated bundle.
func (s *Service) DownloadContent(ctx context.Context, itemIDs []string, format string, options map[string]any) (*types.Download, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}

	if format == "" {
		format = FormatJSON
	}
	if options == nil {
		options = map[string]any{}
	}
	if itemIDs == nil {
		itemIDs = []string{}
	}

	resp, err := c.Post(ctx, "/download", downloadRequest{
		Items:   itemIDs,
		Format:  format,
		Options: options,
	})
	if err == nil {
		dl := &types.Download{Format: format, Payload: resp.Body}
		if format == FormatJSON {
			dl.Bundle = formatBundle(resp.Data(), format)
		}
		return dl, nil
	}

	if s.useFallback("download", err) {
		return s.mockDownload(itemIDs, format, options), nil
	}
	return nil, err
}

func (s *Service) mockDownload(itemIDs []string, format string, options map[string]any) *types.Download {
	content := make([]types.DetailedContent, len(itemIDs))
	for i, id := range itemIDs {
		content[i] = s.fixtures.Detail(id, "")
	}

	now := s.now().UTC()
	bundle := &types.DownloadBundle{Format: format, Content: content}
	if format == FormatJSON {
		bundle.Metadata = &types.DownloadMetadata{
			DownloadDate: now.Format("2006-01-02T15:04:05.000Z07:00"),
			ItemCount:    len(content),
			Options:      options,
		}
	} else {
		bundle.Filename = fmt.Sprintf("usdm_export_%d.%s", now.UnixMilli(), format)
	}
	return &types.Download{Format: format, Bundle: bundle}
}
