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
	createToken  string
	createBranch string
	createPrefix string
)

var createCmd = &cobra.Command{
	Use:   "create [name...]",
	Short: "Stage brand-new recipes in conda-forge/staged-recipes",
	Long: `Submit recipes for packages that have no feedstock yet. With no names,
every configured package whose feedstock is unpublished is staged. Each
package gets its own add-<name> branch in your staged-recipes fork;
already-published packages are rejected with a pointer to 'update'.

Examples:
  feedstocks create              Stage every unpublished configured package
  feedstocks create mypkg        Stage one package
  feedstocks create mypkg --branch add-mypkg-py313`,
	Run: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createToken, "token", "", "GitHub token (default: GITHUB_TOKEN, then github_token from config)")
	createCmd.Flags().StringVar(&createBranch, "branch", "", "Branch name override (single package only)")
	createCmd.Flags().StringVar(&createPrefix, "prefix", "", "Prefix applied to generated recipe names")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	token := resolveToken(createToken, cfg)
	if token == "" {
		logger.Error("a GitHub token is required: pass --token, set GITHUB_TOKEN, or set github_token in %s", configPath)
		os.Exit(1)
	}

	// Every staged recipe branches in the same fork, so a shared branch
	// name would pile unrelated recipes onto one branch.
	if createBranch != "" && len(args) != 1 {
		logger.Error("--branch needs exactly one package name")
		os.Exit(1)
	}

	p := feedstock.NewPipeline(cfg, forge.NewGitHub(token), createPrefix)
	p.Branch = createBranch

	names := args
	if len(names) == 0 {
		entries, err := feedstock.Unpublished(p.Meta, cfg.Entries())
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			logger.Info("Every configured feedstock is already published")
			return
		}
		for _, e := range entries {
			names = append(names, e.Name)
		}
	}

	results := p.Create(names)
	fmt.Print(feedstock.FormatResults(results))
	if n := feedstock.Failures(results); n > 0 {
		output.PrintWarning("%d of %d packages failed", n, len(results))
	}
}
