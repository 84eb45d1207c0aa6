// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-digest CLI: fetch arXiv
// candidates, build a ranked digest against the researcher and preference
// profiles, and fold feedback back into the preferences.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/internal/config"
	"github.com/pdiddy/arxiv-digest/internal/observability"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Populated by the root command before any subcommand runs.
var (
	appCfg  types.Config
	logger  zerolog.Logger
	metrics *observability.Metrics
	paths   config.Paths
)

// rootCmd is the base command for the arxiv-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-digest",
	Short: "Personalized arXiv paper digests",
	Long: `arxiv-digest ranks new arXiv papers against a researcher profile (own
papers, collaboration network, topic fingerprint) and a preference profile
(declared interests and signals learned from feedback), and presents them
as a tiered digest: top picks, solid matches and boundary expanders.

Feedback on a digest (liked and disliked reference numbers, topics to
avoid, authors to follow) updates the preference profile for the next run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		appCfg = cfg
		logger = observability.NewLogger(cfg.Logging, os.Stderr)
		metrics = observability.NewMetrics()

		dir, _ := cmd.Flags().GetString("storage-dir")
		if dir == "" {
			dir = cfg.Storage.Dir
		}
		p, err := config.ResolvePaths(dir, os.Getenv)
		if err != nil {
			return err
		}
		paths = p
		logger.Debug().Str("storage", paths.Root).Msg("storage resolved")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return writeMetrics()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-digest.yaml or ~/.config/arxiv-digest/arxiv-digest.yaml)")
	rootCmd.PersistentFlags().String("storage-dir", "", "storage root for profiles, digests and the database")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.Name)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", config.Name))
		}
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// writeMetrics exports the run metrics when a textfile is configured.
func writeMetrics() error {
	if metrics == nil || appCfg.Metrics.Textfile == "" {
		return nil
	}
	metrics.MarkRun(time.Now())
	return metrics.WriteTextfile(appCfg.Metrics.Textfile)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
