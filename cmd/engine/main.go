// Command engine runs the job finder: the scrape pipeline, the in-memory
// store and the HTTP API in front of them.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dataDir           string
	defaultConfigPath string
)

var rootCmd = &cobra.Command{
	Use:           "engine",
	Short:         "Job finder engine",
	Long:          "Scrapes job listing sites, keeps the eligible postings in memory and serves them over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding config.yml and selectors.yml (env JOBFINDER_DATA_DIR, default .)")
	rootCmd.PersistentFlags().StringVar(&defaultConfigPath, "default-config", "config/config.yml", "config copied into the data dir on first start")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
