// Package main provides the entry point for the review generation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "review_agent",
	Short: "Bulk product review generator",
	Long:  "Review Agent bulk-generates synthetic e-commerce customer reviews for a product catalog via an LLM provider, with resumable checkpointed batch runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
