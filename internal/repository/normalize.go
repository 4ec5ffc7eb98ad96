// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"encoding/json"
	"strconv"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

// fieldRule maps one field of T to the source keys that may carry it.
// Keys are tried in order; the first non-empty value wins.
type fieldRule[T any] struct {
	keys     []string
	fallback string
	assign   func(*T, string)
}

var resultItemRules = []fieldRule[types.ResultItem]{
	{keys: []string{"id", "_id", "identifier"}, assign: func(r *types.ResultItem, v string) { r.ID = v }},
	{keys: []string{"title", "name", "label"}, assign: func(r *types.ResultItem, v string) { r.Title = v }},
	{keys: []string{"description", "summary"}, assign: func(r *types.ResultItem, v string) { r.Description = v }},
	{keys: []string{"type", "category"}, fallback: "Unknown", assign: func(r *types.ResultItem, v string) { r.Type = v }},
	{keys: []string{"phase", "study_phase"}, assign: func(r *types.ResultItem, v string) { r.Phase = v }},
	{keys: []string{"therapeutic_area", "indication"}, assign: func(r *types.ResultItem, v string) { r.TherapeuticArea = v }},
	{keys: []string{"study_type", "design_type"}, assign: func(r *types.ResultItem, v string) { r.StudyType = v }},
	{keys: []string{"created_date", "created_at"}, assign: func(r *types.ResultItem, v string) { r.CreatedDate = v }},
	{keys: []string{"modified_date", "updated_at"}, assign: func(r *types.ResultItem, v string) { r.ModifiedDate = v }},
}

// formatSearchResults accepts a bare array, {"results": [...]} or
// {"data": [...]}. Anything else yields an empty list.
func formatSearchResults(data any) []types.ResultItem {
	switch v := data.(type) {
	case []any:
		return normalizeAll(v)
	case map[string]any:
		for _, key := range []string{"results", "data"} {
			if list, ok := v[key].([]any); ok {
				return normalizeAll(list)
			}
		}
	}
	return []types.ResultItem{}
}

func normalizeAll(list []any) []types.ResultItem {
	items := make([]types.ResultItem, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, normalizeResultItem(obj))
	}
	return items
}

var detailRules = []fieldRule[types.DetailedContent]{
	{keys: []string{"id", "_id", "identifier"}, assign: func(d *types.DetailedContent, v string) { d.ID = v }},
	{keys: []string{"title", "name", "label"}, assign: func(d *types.DetailedContent, v string) { d.Title = v }},
	{keys: []string{"description", "summary"}, assign: func(d *types.DetailedContent, v string) { d.Description = v }},
	{keys: []string{"type", "category"}, assign: func(d *types.DetailedContent, v string) { d.Type = v }},
}

var relationshipRules = []fieldRule[types.Relationship]{
	{keys: []string{"type", "relationship"}, assign: func(r *types.Relationship, v string) { r.Type = v }},
	{keys: []string{"target", "target_id", "targetId"}, assign: func(r *types.Relationship, v string) { r.Target = v }},
	{keys: []string{"description"}, assign: func(r *types.Relationship, v string) { r.Description = v }},
}

func applyRules[T any](raw map[string]any, rules []fieldRule[T]) T {
	var out T
	for _, rule := range rules {
		v, ok := coalesce(raw, rule.keys)
		if !ok {
			v = rule.fallback
		}
		rule.assign(&out, v)
	}
	return out
}

func normalizeResultItem(raw map[string]any) types.ResultItem {
	return applyRules(raw, resultItemRules)
}

// formatDetail builds a detail record from a decoded response body. Objects
// are coalesced field by field; anything else is kept in Raw under the
// requested id and type.
func formatDetail(data any, contentID, contentType string) types.DetailedContent {
	obj, ok := data.(map[string]any)
	if !ok {
		return types.DetailedContent{ID: contentID, Type: contentType, Raw: data}
	}
	return normalizeDetail(obj)
}

func normalizeDetail(raw map[string]any) types.DetailedContent {
	d := applyRules(raw, detailRules)
	d.Metadata, _ = raw["metadata"].(map[string]any)
	d.Properties, _ = raw["properties"].(map[string]any)
	if list, ok := raw["relationships"].([]any); ok {
		for _, el := range list {
			if obj, ok := el.(map[string]any); ok {
				d.Relationships = append(d.Relationships, applyRules(obj, relationshipRules))
			}
		}
	}
	return d
}

// formatBundle builds a download bundle from a decoded JSON response. A bare
// array is taken as the content list. It returns nil for any other shape.
func formatBundle(data any, format string) *types.DownloadBundle {
	switch v := data.(type) {
	case []any:
		return &types.DownloadBundle{Format: format, Content: normalizeDetails(v)}
	case map[string]any:
		b := &types.DownloadBundle{Format: format}
		if f, ok := present(v["format"]); ok {
			b.Format = f
		}
		if list, ok := v["content"].([]any); ok {
			b.Content = normalizeDetails(list)
		}
		if name, ok := present(v["filename"]); ok {
			b.Filename = name
		}
		if meta, ok := v["metadata"].(map[string]any); ok {
			b.Metadata = normalizeDownloadMetadata(meta)
		}
		return b
	}
	return nil
}

func normalizeDetails(list []any) []types.DetailedContent {
	out := make([]types.DetailedContent, 0, len(list))
	for _, el := range list {
		if obj, ok := el.(map[string]any); ok {
			out = append(out, normalizeDetail(obj))
		}
	}
	return out
}

func normalizeDownloadMetadata(raw map[string]any) *types.DownloadMetadata {
	m := &types.DownloadMetadata{}
	m.DownloadDate, _ = present(raw["downloadDate"])
	if n, ok := raw["itemCount"].(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			m.ItemCount = int(i)
		}
	}
	m.Options, _ = raw["options"].(map[string]any)
	return m
}

func coalesce(raw map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := present(raw[k]); ok {
			return s, true
		}
	}
	return "", false
}

// present renders v as a string and reports whether it counts as set.
// Missing, null, "", false and zero do not.
func present(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case bool:
		if !x {
			return "", false
		}
		return "true", true
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return "", false
		}
		return x.String(), true
	case float64:
		if x == 0 {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
