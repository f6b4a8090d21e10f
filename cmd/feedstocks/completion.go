package main

import (
	"os"

	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate a shell completion script",
	Long: `Generate a completion script for feedstocks and print it on stdout.

Load it directly:

  source <(feedstocks completion bash)
  feedstocks completion fish | source

or install it where your shell looks for completions:

  feedstocks completion bash > /etc/bash_completion.d/feedstocks
  feedstocks completion zsh  > "${fpath[1]}/_feedstocks"
  feedstocks completion fish > ~/.config/fish/completions/feedstocks.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch args[0] {
		case "bash":
			err = rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			err = rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			err = rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		if err != nil {
			logger.Error("failed to generate completion script: %v", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
