package main

import (
	"fmt"
	"os"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/feedstock"
	"github.com/spf13/cobra"
)

var listTable bool

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List configured feedstocks against their published versions",
	Long: `Compare every configured feedstock's pinned version with the version
published on conda-forge. Patterns filter the configured packages; '*' and
'?' wildcards are supported.

Examples:
  feedstocks list                List every configured feedstock
  feedstocks list 'py*'          Only packages starting with py
  feedstocks list --table        Render as an aligned table`,
	Run: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listTable, "table", false, "Render as an aligned table")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	entries := feedstock.FilterEntries(cfg.Entries(), args)
	report := feedstock.List(feedstock.NewMetaSource(), entries)

	if listTable {
		fmt.Print(feedstock.FormatTable(report))
		return
	}
	fmt.Print(feedstock.FormatReport(report))
}
