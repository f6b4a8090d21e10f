package main

import (
	"fmt"
	"os"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/common/run"
	"github.com/condatools/feedstocks/internal/feedstock"
	"github.com/condatools/feedstocks/internal/recipe"
	"github.com/spf13/cobra"
)

var generatePrefix string

var generateCmd = &cobra.Command{
	Use:   "generate <dir> [name...]",
	Short: "Generate recipes locally without touching Git or GitHub",
	Long: `Write grayskull recipes for the named packages into <dir>, one
subdirectory per package. With no names, every configured package whose
feedstock is unpublished is generated.

Examples:
  feedstocks generate ./recipes                 Generate every unpublished package
  feedstocks generate ./recipes toolz           Generate one package
  feedstocks generate ./recipes --prefix corp-  Prefix recipe names`,
	Args: cobra.MinimumNArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generatePrefix, "prefix", "", "Prefix applied to generated recipe names")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	dir := args[0]
	names := args[1:]
	if len(names) == 0 {
		entries, err := feedstock.Unpublished(feedstock.NewMetaSource(), cfg.Entries())
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

	gen := recipe.New(cfg.Grayskull(), generatePrefix, cfg.Names(), &run.ExecRunner{})
	results := feedstock.Generate(cfg, gen, dir, names)
	fmt.Print(feedstock.FormatResults(results))
	if n := feedstock.Failures(results); n > 0 {
		output.PrintWarning("%d of %d packages failed", n, len(results))
	}
}
