// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/usdm-repo/internal/export"
	"github.com/pdiddy/usdm-repo/internal/repository"
)

var downloadCmd = &cobra.Command{
	Use:   "download <id>...",
	Short: "Download several content items as one export file",
	Long: `Download asks the repository to bundle the given items in the requested
format and writes the result into --out. JSON exports are written as a
structured bundle; other formats are stored exactly as the repository sent
them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outDir, _ := cmd.Flags().GetString("out")
	rawOpts, _ := cmd.Flags().GetStringArray("option")

	options, err := parseOptions(rawOpts)
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	dl, err := svc.DownloadContent(cmd.Context(), args, format, options)
	if err != nil {
		return err
	}

	path, err := export.WriteDownload(outDir, dl, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d item(s) to %s\n", len(args), path)
	return nil
}

// parseOptions turns key=value pairs into download options. true/false and
// numbers keep their type; everything else is a string.
func parseOptions(pairs []string) (map[string]any, error) {
	opts := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q: use key=value", p)
		}
		switch value {
		case "true":
			opts[key] = true
		case "false":
			opts[key] = false
		default:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
				opts[key] = value
				continue
			}
			opts[key] = n
		}
	}
	return opts, nil
}

func init() {
	downloadCmd.Flags().String("format", repository.FormatJSON, "export format, e.g. json, csv, yaml")
	downloadCmd.Flags().StringArray("option", nil, "download option as key=value (repeatable)")
	downloadCmd.Flags().String("out", ".", "directory to write the export into")

	rootCmd.AddCommand(downloadCmd)
}
