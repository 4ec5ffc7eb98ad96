// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads repository credentials from a directory of key
// files. Each regular file is one secret: the file name is the key and the
// trimmed contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// RepositoryAPIKey is the file holding the repository API key.
const RepositoryAPIKey = "repository-api-key"

// Load returns every non-empty secret in dir. A missing directory yields an
// empty map. Unreadable files are logged and skipped.
func Load(dir string, log logrus.FieldLogger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("secret", name).Warn("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Resolve returns explicit when it is set, otherwise the named secret from
// dir, otherwise "".
func Resolve(explicit, dir, name string, log logrus.FieldLogger) (string, error) {
	if explicit != "" || dir == "" {
		return explicit, nil
	}
	s, err := Load(dir, log)
	if err != nil {
		return "", err
	}
	return s[name], nil
}
