// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/usdm-repo/internal/export"
	"github.com/pdiddy/usdm-repo/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search repository content",
	Long: `Search queries the repository for content matching a free-text query,
optionally narrowed to one content type and by phase, therapeutic area,
study type, or date range. Results from differently shaped repository
responses are normalized to one item layout.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	var (
		results []types.ResultItem
		err     error
	)
	if path, _ := cmd.Flags().GetString("load"); path != "" {
		results, err = loadSavedSearch(path)
	} else {
		results, err = searchRepository(cmd, args)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	formatResultTable(results, out)
	return nil
}

func searchRepository(cmd *cobra.Command, args []string) ([]types.ResultItem, error) {
	cfg := searchConfigFromFlags(cmd, args)

	svc, err := openService()
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	results, err := svc.Search(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := export.WriteSearchFile(path, svc.BaseURL(), cfg, results, time.Now()); err != nil {
			return nil, err
		}
		log.WithField("path", path).Info("search saved")
	}
	return results, nil
}

// loadSavedSearch returns the results stored by an earlier --save.
func loadSavedSearch(path string) ([]types.ResultItem, error) {
	ss, err := export.ReadSearchFile(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"path":       path,
		"repository": ss.Repository,
		"query":      ss.Search.Query,
		"saved_at":   ss.Summary.Timestamp,
	}).Info("showing saved search")
	return ss.Results, nil
}

func searchConfigFromFlags(cmd *cobra.Command, args []string) types.SearchConfig {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	contentType, _ := cmd.Flags().GetString("type")
	phase, _ := cmd.Flags().GetString("phase")
	area, _ := cmd.Flags().GetString("therapeutic-area")
	studyType, _ := cmd.Flags().GetString("study-type")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	return types.SearchConfig{
		Query: query,
		Type:  contentType,
		Filters: types.FilterSet{
			Phase:           phase,
			TherapeuticArea: area,
			StudyType:       studyType,
			DateFrom:        from,
			DateTo:          to,
		},
	}
}

// formatResultTable writes results as a human-readable table to w.
func formatResultTable(results []types.ResultItem, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-12s  %-20s  %-5s  %-40s  %s\n", "ID", "Type", "Phase", "Title", "Therapeutic Area")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range results {
		fmt.Fprintf(w, "%-12s  %-20s  %-5s  %-40s  %s\n",
			truncate(r.ID, 12), truncate(r.Type, 20), r.Phase, truncate(r.Title, 40), r.TherapeuticArea)
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	searchCmd.Flags().String("query", "", "free-text query (default: positional arguments)")
	searchCmd.Flags().String("type", types.SearchAll, `content type, e.g. activities or encounters ("all" for every type)`)
	searchCmd.Flags().String("phase", "", "filter by study phase")
	searchCmd.Flags().String("therapeutic-area", "", "filter by therapeutic area")
	searchCmd.Flags().String("study-type", "", "filter by study type")
	searchCmd.Flags().String("from", "", "modified on or after this date (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "modified on or before this date (YYYY-MM-DD)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "also save the search and its results to this YAML file")
	searchCmd.Flags().String("load", "", "show the results of a search saved with --save instead of querying")

	rootCmd.AddCommand(searchCmd)
}
