package main

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"jobfinder-engine/internal/domain"
	"jobfinder-engine/internal/scrape"
)

var searchVerbose bool

var searchCmd = &cobra.Command{
	Use:   "search [source]",
	Short: "Scrape once and print the listings as JSON",
	Long:  "Runs one search against a source id (or \"all\", the default) and writes the eligible listings to stdout. Nothing is stored.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "log scraper progress to stderr")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := log.New(io.Discard, "", 0)
	if searchVerbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	a, err := loadApp(logger)
	if err != nil {
		return err
	}
	defer a.close()

	source := scrape.All
	if len(args) == 1 {
		source = args[0]
	}

	jobs, err := a.buildRegistry(cmd.Context(), a.cfg).SearchJobs(cmd.Context(), source)
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []domain.JobListing{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"jobs": jobs, "count": len(jobs)})
}
