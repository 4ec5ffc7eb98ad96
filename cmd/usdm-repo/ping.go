// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the repository is reachable",
	Long: `Ping probes the repository's /health endpoint, falling back to the API
root. It prints whatever the repository answered. Connectivity failures are
always reported, regardless of --fallback.`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.TestConnection(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to %s\n", svc.BaseURL())
	if res.Data == nil {
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Data)
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
