package main

import (
	"fmt"
	"os"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/forge"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/feedstock"
	"github.com/spf13/cobra"
)

var (
	updateToken  string
	updateBranch string
	updatePrefix string
)

var updateCmd = &cobra.Command{
	Use:   "update <name>...",
	Short: "Regenerate and push recipe updates for published feedstocks",
	Long: `For each named package: ensure a fork of conda-forge/<name>-feedstock
exists under your account, clone or refresh the working copy under data/,
branch, regenerate the recipe with grayskull, rerender with conda smithy,
commit, and force-push the branch to the fork. Re-running for the same
version finds the previous run's branch and pushes nothing new.

Examples:
  feedstocks update toolz                   Update one feedstock
  feedstocks update toolz cytoolz           Each package runs independently
  feedstocks update toolz --branch fix-ci   Branch name override`,
	Args: cobra.MinimumNArgs(1),
	Run:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateToken, "token", "", "GitHub token (default: GITHUB_TOKEN, then github_token from config)")
	updateCmd.Flags().StringVar(&updateBranch, "branch", "", "Branch name override")
	updateCmd.Flags().StringVar(&updatePrefix, "prefix", "", "Prefix applied to generated recipe names")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	token := resolveToken(updateToken, cfg)
	if token == "" {
		logger.Error("a GitHub token is required: pass --token, set GITHUB_TOKEN, or set github_token in %s", configPath)
		os.Exit(1)
	}

	p := feedstock.NewPipeline(cfg, forge.NewGitHub(token), updatePrefix)
	p.Branch = updateBranch

	results := p.Update(args)
	fmt.Print(feedstock.FormatResults(results))
	if n := feedstock.Failures(results); n > 0 {
		output.PrintWarning("%d of %d packages failed", n, len(results))
	}
}
