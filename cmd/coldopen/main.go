// Package main provides the entry point for the coldopen CLI and service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coldopen",
	Short: "Personalized outreach opener generator",
	Long:  "coldopen scrapes public LinkedIn profiles, researches each prospect on the web, and drafts short personalized opening lines for cold outreach. It runs as a REST service (serve) or as a batch client against one (run).",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
