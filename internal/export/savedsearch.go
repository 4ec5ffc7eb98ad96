// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes repository results to disk: saved searches as YAML
// and download bundles in the format they were requested in.
package export

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

// SavedSearch is the on-disk form of a search and its results, so a result
// set can be reviewed later without querying the repository again.
type SavedSearch struct {
	Repository string             `yaml:"repository"`
	Search     types.SearchConfig `yaml:"search"`
	Results    []types.ResultItem `yaml:"results"`
	Summary    SavedSearchSummary `yaml:"summary"`
}

// SavedSearchSummary stores result statistics and when they were taken.
type SavedSearchSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteSearchFile saves cfg and its results to a YAML file at path.
func WriteSearchFile(path, repository string, cfg types.SearchConfig, results []types.ResultItem, now time.Time) error {
	ss := SavedSearch{
		Repository: repository,
		Search:     cfg,
		Results:    results,
		Summary: SavedSearchSummary{
			Total:     len(results),
			Timestamp: now.UTC(),
		},
	}

	data, err := yaml.Marshal(&ss)
	if err != nil {
		return fmt.Errorf("marshaling saved search: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSearchFile loads a saved search from path.
func ReadSearchFile(path string) (*SavedSearch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading saved search: %w", err)
	}
	var ss SavedSearch
	if err := yaml.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("parsing saved search: %w", err)
	}
	return &ss, nil
}
