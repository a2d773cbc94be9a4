package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/coldopen/internal/client"
)

var healthServerURL string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check a running generation service",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&healthServerURL, "server", "http://localhost:8080", "Base URL of the generation service")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(_ *cobra.Command, _ []string) error {
	status, err := client.New(healthServerURL).Health(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("status:         %s\n", status.Status)
	fmt.Printf("llm configured: %t\n", status.LLMConfigured)
	return nil
}
