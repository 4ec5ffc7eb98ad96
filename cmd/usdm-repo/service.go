// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/pdiddy/usdm-repo/internal/repository"
	"github.com/pdiddy/usdm-repo/internal/secrets"
	"github.com/pdiddy/usdm-repo/pkg/types"
)

// openService builds and configures the repository service from the
// resolved configuration. The caller closes it.
func openService() (*repository.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	rc := cfg.Repository
	if rc.BaseURL == "" {
		return nil, fmt.Errorf("no repository configured: set --base-url or repository.base_url")
	}

	key, err := secrets.Resolve(rc.Auth.APIKey, rc.SecretsDir, secrets.RepositoryAPIKey, log)
	if err != nil {
		return nil, err
	}

	svc, err := repository.New(repository.Options{
		Fallback: rc.Fallback,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	var auth *types.AuthConfig
	if key != "" {
		auth = &types.AuthConfig{Type: rc.Auth.Type, APIKey: key}
	}
	if err := svc.Configure(rc.BaseURL, auth); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}
