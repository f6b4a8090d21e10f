package main

import (
	"os"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/common/run"
	"github.com/condatools/feedstocks/internal/feedstock"
	"github.com/spf13/cobra"
)

var (
	buildChannels []string
	buildNoTest   bool
)

var buildCmd = &cobra.Command{
	Use:   "build <dir>",
	Short: "Build generated recipes in dependency order",
	Long: `Scan <dir> for recipes, order them so dependencies build before the
recipes that require them, and run conda build for each, collecting
artifacts in <dir>/build. A failed build aborts the remaining recipes.

Examples:
  feedstocks build ./recipes
  feedstocks build ./recipes -c local -c conda-forge --no-test`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

func init() {
	buildCmd.Flags().StringArrayVarP(&buildChannels, "channel", "c", nil, "Extra conda channel (repeatable)")
	buildCmd.Flags().BoolVar(&buildNoTest, "no-test", false, "Skip conda build tests")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	built, err := feedstock.Build(&run.ExecRunner{}, cfg.CondaBin(), args[0], buildChannels, buildNoTest)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if len(built) == 0 {
		logger.Info("No recipes to build")
		return
	}
	output.PrintSuccess("Built %d recipe(s)", len(built))
}
