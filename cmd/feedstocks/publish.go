package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
	"github.com/condatools/feedstocks/internal/feedstock"
	"github.com/spf13/cobra"
)

var publishTo string

var publishCmd = &cobra.Command{
	Use:   "publish <dir>",
	Short: "Upload built packages to a channel server",
	Long: `Upload every package archive under <dir>/build to a conda channel
server, one HTTP PUT per file at <url>/<channel>/<filename>. Failed uploads
are reported and do not stop the remaining files.

Examples:
  feedstocks publish ./recipes --to https://conda.example.org/channel`,
	Args: cobra.ExactArgs(1),
	Run:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishTo, "to", "", "Base URL of the channel server (required)")
	publishCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) {
	results, err := feedstock.Publish(http.DefaultClient, args[0], publishTo)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	for _, r := range results {
		if r.Err != nil {
			output.PrintError("%s: %v", filepath.Base(r.File), r.Err)
		} else {
			output.PrintSuccess("uploaded %s", r.URL)
		}
	}
	if n := feedstock.UploadFailures(results); n > 0 {
		output.PrintWarning("%d of %d uploads failed", n, len(results))
	}
}
