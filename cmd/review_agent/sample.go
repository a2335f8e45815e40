package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sampleCommand = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample input CSV",
	Long:  "Writes a small SKU table with the required columns, useful as a template for real catalog exports.",
	RunE:  runSampleCmd,
}

var sampleOut string

func init() {
	sampleCommand.Flags().StringVar(&sampleOut, "out", "sample_input.csv", "Path for the sample CSV")
	rootCmd.AddCommand(sampleCommand)
}

var sampleRows = [][]string{
	{"sku_id", "Name", "brand", "product_discount_category", "Classifier 1", "classifier 2", "classifier 3"},
	{"SKU001", "Honey 500g", "Dabur", "FMCG", "Food & Beverages", "Sweeteners", "Natural Honey"},
	{"SKU002", "Vitamin C Tablets 60s", "HealthVit", "FMCG", "Health Supplements", "Vitamins", "Vitamin C"},
	{"SKU003", "Aloe Vera Face Wash 150ml", "Himalaya", "FMCG", "Personal Care", "Skin Care", "Face Wash"},
}

func runSampleCmd(_ *cobra.Command, _ []string) error {
	f, err := os.Create(sampleOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", sampleOut, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(sampleRows); err != nil {
		return fmt.Errorf("failed to write sample rows: %w", err)
	}

	fmt.Printf("Sample input written to %s\n", sampleOut)
	return nil
}
