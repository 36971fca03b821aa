package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "fundctl",
		Short:         "Fund engine CLI tool",
		Long:          `A command line interface for interacting with the fund engine API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the fund engine API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	client := func() *apiClient { return newAPIClient(baseURL, timeout) }

	rootCmd.AddCommand(
		healthCmd(client),
		fundCmd(client),
		waterfallCmd(client),
		metricsCmd(client),
		concentrationCmd(client),
		callsCmd(client),
		reportCmd(client),
	)

	return rootCmd
}
