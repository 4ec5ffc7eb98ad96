// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show the full record for one content item",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	contentType, _ := cmd.Flags().GetString("type")

	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	detail, err := svc.GetContent(cmd.Context(), args[0], contentType)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(detail)
}

func init() {
	getCmd.Flags().String("type", "", "content type path segment (default: /content/<id>)")

	rootCmd.AddCommand(getCmd)
}
