package main

import (
	"fmt"
	"os"

	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter feedstocks.yml",
	Long: `Write a commented starter configuration to the --config path (default
feedstocks.yml in the working directory). Refuses to overwrite an existing
file.`,
	Run: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(configPath); err == nil {
		output.PrintError("refusing to overwrite %s", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(config.DefaultTemplate), 0o644); err != nil {
		output.PrintError("writing %s: %v", configPath, err)
		os.Exit(1)
	}

	output.PrintSuccess("Wrote %s", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Set github_user and pin packages in the feedstocks list")
	fmt.Println("  2. feedstocks list           - compare pins against conda-forge")
	fmt.Println("  3. feedstocks update <name>  - push a recipe update to your fork")
	fmt.Println("  4. feedstocks watch          - check upstreams for new releases")
}
