// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the usdm-repo CLI, a command-line
// front end to the clinical-study content repository client.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/usdm-repo/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log is replaced in PersistentPreRunE once the config is known.
var log = logrus.New()

// rootCmd is the base command for the usdm-repo CLI.
var rootCmd = &cobra.Command{
	Use:   "usdm-repo",
	Short: "Query a clinical-study content repository",
	Long: `usdm-repo searches, inspects and downloads study-definition content
(activities, biomedical concepts, arms, epochs, encounters) from a remote
repository API.

Point it at a repository with --base-url or the repository.base_url config
key. With --fallback mock, failed searches, lookups and downloads are
answered from a built-in demonstration data set instead of failing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := newLogger(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		log = l
		if used := viper.ConfigFileUsed(); used != "" {
			log.WithField("file", used).Debug("using config file")
		}
		return nil
	},
}

// flagKeys maps persistent flags onto viper keys.
var flagKeys = map[string]string{
	"base-url":    "repository.base_url",
	"auth-type":   "repository.auth.type",
	"api-key":     "repository.auth.api_key",
	"fallback":    "repository.fallback",
	"secrets-dir": "repository.secrets_dir",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./usdm-repo.yaml or ~/.config/usdm-repo/config.yaml)")
	pf.String("base-url", "", "repository API base URL")
	pf.String("auth-type", string(types.AuthBearer), "authentication header: bearer, api-key, or basic")
	pf.String("api-key", "", "repository credential (default: read from <secrets-dir>/repository-api-key)")
	pf.String("fallback", string(types.FallbackPropagate), "on request failure: propagate the error or answer with mock data")
	pf.String("secrets-dir", ".secrets/", "directory of credential files")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	for flag, key := range flagKeys {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("usdm-repo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "usdm-repo"))
		}
	}

	viper.SetEnvPrefix("USDM_REPO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// loadConfig resolves flags, environment and config file into a CLIConfig.
func loadConfig() (types.CLIConfig, error) {
	var cfg types.CLIConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
