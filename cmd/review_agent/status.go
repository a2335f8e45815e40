package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/review-generator/internal/checkpoint"
	"github.com/jonathan/review-generator/internal/observability"
	"github.com/jonathan/review-generator/internal/types"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "List checkpoints for a run",
	Long:  "Lists the checkpoints matching an input file and mode, newest first, so an operator can see what a resumed run would pick up.",
	RunE:  runStatusCmd,
}

var (
	statusInput         string
	statusMode          string
	statusCheckpointDir string
)

func init() {
	statusCommand.Flags().StringVarP(&statusInput, "input", "i", "", "Path to the input SKU table")
	statusCommand.Flags().StringVarP(&statusMode, "mode", "m", "medium", "Generation mode: quick, medium, or comprehensive")
	statusCommand.Flags().StringVar(&statusCheckpointDir, "checkpoint-dir", "checkpoints", "Directory holding run checkpoints")

	_ = statusCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(statusCommand)
}

func runStatusCmd(_ *cobra.Command, _ []string) error {
	mode, err := types.ParseMode(statusMode)
	if err != nil {
		return err
	}

	sig := checkpoint.Signature(statusInput, mode)
	handles, err := checkpoint.Find(statusCheckpointDir, sig)
	if err != nil {
		return fmt.Errorf("failed to scan checkpoints: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintCheckpoints(sig, handles)
	return nil
}
