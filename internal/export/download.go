// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

// csvHeader lists the columns written for CSV bundles.
var csvHeader = []string{"id", "type", "title", "description"}

// Filename returns the file name for dl: the bundle's suggested name when
// it has one, otherwise usdm_export_<unix-millis>.<format>. Directory parts
// of either are dropped so the file always lands in the target directory.
func Filename(dl *types.Download, now time.Time) string {
	if dl.Bundle != nil {
		if name := baseName(dl.Bundle.Filename); name != "" {
			return name
		}
	}
	stem := fmt.Sprintf("usdm_export_%d", now.UnixMilli())
	if ext := baseName(dl.Format); ext != "" {
		return stem + "." + ext
	}
	return stem
}

// baseName returns the last path element of s, or "" when nothing usable
// remains.
func baseName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch b := filepath.Base(s); b {
	case ".", "..", string(filepath.Separator):
		return ""
	default:
		return b
	}
}

// WriteDownload writes dl into dir and returns the file path. A live payload
// is written byte for byte; a bundle is rendered in its format (json, yaml,
// csv), falling back to JSON for formats without a renderer.
func WriteDownload(dir string, dl *types.Download, now time.Time) (string, error) {
	data, err := Render(dl)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, Filename(dl, now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Render returns the bytes WriteDownload would store.
func Render(dl *types.Download) ([]byte, error) {
	if dl.Payload != nil {
		return dl.Payload, nil
	}
	if dl.Bundle == nil {
		return nil, fmt.Errorf("download has neither payload nor bundle")
	}

	switch strings.ToLower(dl.Format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(dl.Bundle)
		if err != nil {
			return nil, fmt.Errorf("marshaling bundle as YAML: %w", err)
		}
		return data, nil
	case "csv":
		return renderCSV(dl.Bundle.Content)
	default:
		data, err := json.MarshalIndent(dl.Bundle, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling bundle as JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func renderCSV(content []types.DetailedContent) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range content {
		if err := w.Write([]string{c.ID, c.Type, c.Title, c.Description}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing CSV: %w", err)
	}
	return buf.Bytes(), nil
}
