package main

import (
	"os"

	"github.com/condatools/feedstocks/internal/common/config"
)

// resolveToken picks the GitHub token, in order: the --token flag, the
// GITHUB_TOKEN environment variable, the github_token field in
// feedstocks.yml.
func resolveToken(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("GITHUB_TOKEN"); env != "" {
		return env
	}
	return cfg.GitHubToken
}
