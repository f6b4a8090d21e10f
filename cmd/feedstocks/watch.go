package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/feedstock"
	"github.com/condatools/feedstocks/internal/watch"
	"github.com/spf13/cobra"
)

var watchNoCache bool

var watchCmd = &cobra.Command{
	Use:   "watch [pattern...]",
	Short: "Check upstream sources for new releases",
	Long: `Resolve the latest upstream release of every configured package and
compare it against the pinned version. Sources default to the package's
PyPI JSON endpoint and can be overridden per package in a watch.toml next
to the configuration file. Answers are cached for an hour.

Examples:
  feedstocks watch               Check every configured package
  feedstocks watch 'py*'         Only packages starting with py
  feedstocks watch --no-cache    Ask upstream even when the cache is fresh`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoCache, "no-cache", false, "Bypass cached answers")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	overrides, err := watch.LoadOverrides(filepath.Join(filepath.Dir(configPath), "watch.toml"))
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		logger.Error("resolving config directory: %v", err)
		os.Exit(1)
	}

	client := watch.NewClient()
	if token := resolveToken("", cfg); token != "" {
		client.SetGitHubToken(token)
	}

	watcher, err := watch.NewWatcher(configDir, overrides,
		watch.WithClient(client), watch.WithNoCache(watchNoCache))
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	entries := feedstock.FilterEntries(cfg.Entries(), args)
	statuses := watcher.Watch(entries)
	fmt.Print(watch.FormatWatchReport(statuses))
}
