package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/review-generator/internal/catalog"
	"github.com/jonathan/review-generator/internal/checkpoint"
	"github.com/jonathan/review-generator/internal/config"
	"github.com/jonathan/review-generator/internal/db"
	"github.com/jonathan/review-generator/internal/driver"
	"github.com/jonathan/review-generator/internal/llm"
	"github.com/jonathan/review-generator/internal/names"
	"github.com/jonathan/review-generator/internal/observability"
	"github.com/jonathan/review-generator/internal/output"
	"github.com/jonathan/review-generator/internal/retry"
	"github.com/jonathan/review-generator/internal/review"
	"github.com/jonathan/review-generator/internal/types"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate reviews for every product in the input table",
	Long: `Reads the input SKU table, generates the configured number of reviews per
product through the LLM provider, and streams them to the output CSV.

Runs checkpoint themselves periodically; an interrupted run offers to resume
from the newest matching checkpoint on the next invocation.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath    string
	genInput         string
	genOutput        string
	genCheckpointDir string
	genMode          string
	genProvider      string
	genModel         string
	genResume        bool
	genRestartItems  bool
	genFMCGOnly      bool
	genCPInterval    int
	genBackupEvery   int
	genMaxCPs        int
	genAPIKey        string
	genDatabaseURL   string
	genVerbose       bool
	genYes           bool
)

func init() {
	// Config file flag (processed first)
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCommand.Flags().StringVarP(&genInput, "input", "i", "", "Path to the input SKU table (CSV or TSV)")
	generateCommand.Flags().StringVarP(&genOutput, "output", "o", "", "Path to the generated reviews CSV")
	generateCommand.Flags().StringVar(&genCheckpointDir, "checkpoint-dir", "", "Directory holding run checkpoints")
	generateCommand.Flags().StringVarP(&genMode, "mode", "m", "", "Generation mode: quick (1/item), medium (3-5/item), comprehensive (15-20/item)")
	generateCommand.Flags().StringVar(&genProvider, "provider", "", "LLM provider: openai or gemini")
	generateCommand.Flags().StringVar(&genModel, "model", "", "Override the provider's default model")
	generateCommand.Flags().BoolVar(&genResume, "resume", false, "Resume from the newest checkpoint without prompting")
	generateCommand.Flags().BoolVar(&genRestartItems, "restart-partial-items", false, "On resume, regenerate a partially completed item from zero")
	generateCommand.Flags().BoolVar(&genFMCGOnly, "fmcg-only", false, "Restrict input rows to the FMCG category")
	generateCommand.Flags().IntVar(&genCPInterval, "checkpoint-interval", 0, "Reviews between checkpoints")
	generateCommand.Flags().IntVar(&genBackupEvery, "backup-interval", 0, "Reviews between output backups")
	generateCommand.Flags().IntVar(&genMaxCPs, "max-checkpoints", 0, "Non-final checkpoints retained per run")
	generateCommand.Flags().BoolVarP(&genYes, "yes", "y", false, "Assume yes for the resume prompt")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from the provider's env var
	generateCommand.Flags().StringVar(&genAPIKey, "api-key", "", "Provider API key (optional, defaults to OPENAI_API_KEY or GEMINI_API_KEY)")

	// Database URL for the optional run registry
	generateCommand.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveGenerateConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := types.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	// Read the catalog up front so bad input fails before any client or
	// checkpoint state is touched. The driver re-reads it at run start.
	items, err := catalog.Read(cfg.Input, catalog.Options{FMCGOnly: cfg.FMCGOnly})
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintCatalog(items, mode)

	// Provider client
	llmCfg := buildLLMConfig(cfg)
	apiKey := resolveAPIKey(cfg, llmCfg.Provider)
	if apiKey == "" {
		return fmt.Errorf("an API key is required: set --api-key or the provider's environment variable")
	}
	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	// Checkpoint store and resume decision
	store, err := checkpoint.NewStore(cfg.CheckpointDir, logPrintf)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint directory: %w", err)
	}
	resume := genResume
	if !cmd.Flags().Changed("resume") {
		resume, err = promptResume(cfg.Input, mode, store)
		if err != nil {
			return err
		}
	}

	// Output writer
	writer, err := output.NewWriter(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer writer.Close()

	// Optional run registry
	var registry driver.RunRegistry
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			registry = database
			if cfg.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Generation stack
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	styler := review.NewStyler(rng)
	nameGen := names.NewGenerator(rng)
	analyzer := review.NewBenefitAnalyzer(client)
	provider := review.NewProvider(client, analyzer, styler, nameGen)
	controller := retry.New(provider, retry.DefaultConfig(), logPrintf)

	opts := driver.Options{
		InputPath:          cfg.Input,
		Mode:               mode,
		CheckpointDir:      cfg.CheckpointDir,
		Resume:             resume,
		RestartPartialItem: genRestartItems,
		FMCGOnly:           cfg.FMCGOnly,
		CheckpointInterval: cfg.CheckpointInterval,
		BackupInterval:     cfg.BackupInterval,
		MaxCheckpoints:     cfg.MaxCheckpoints,
		Verbose:            cfg.Verbose,
		Logf:               logPrintf,
	}

	// Driver and progress reporter run concurrently; the reporter drains
	// events so the driver never blocks on terminal output.
	events := make(chan driver.ProgressEvent, 64)
	opts.OnProgress = func(e driver.ProgressEvent) {
		select {
		case events <- e:
		default:
		}
	}

	d := driver.New(opts, controller, styler, writer, store, registry)

	var summary *driver.Summary
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		s, err := d.Run(gCtx)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		reportProgress(events)
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			fmt.Printf("\nInterrupted. Re-run with the same input and mode to resume.\n")
			return nil
		}
		return err
	}

	printer.PrintSummary(summary, controller.Stats())
	fmt.Printf("Output written to %s\n", writer.Path())
	return nil
}

// resolveGenerateConfig layers config file values, CLI overrides, then
// defaults, mirroring flag precedence.
func resolveGenerateConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if genVerbose {
			fmt.Printf("Loaded config from: %s\n", genConfigPath)
		}
	}

	// Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("input") {
		cfg.Input = genInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = genOutput
	}
	if cmd.Flags().Changed("checkpoint-dir") {
		cfg.CheckpointDir = genCheckpointDir
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = genMode
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = genProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("fmcg-only") {
		cfg.FMCGOnly = genFMCGOnly
	}
	if cmd.Flags().Changed("checkpoint-interval") {
		cfg.CheckpointInterval = genCPInterval
	}
	if cmd.Flags().Changed("backup-interval") {
		cfg.BackupInterval = genBackupEvery
	}
	if cmd.Flags().Changed("max-checkpoints") {
		cfg.MaxCheckpoints = genMaxCPs
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	defaults := config.Config{
		Output:             "generated_reviews.csv",
		CheckpointDir:      "checkpoints",
		Mode:               "medium",
		CheckpointInterval: driver.DefaultCheckpointInterval,
		BackupInterval:     driver.DefaultBackupInterval,
		MaxCheckpoints:     driver.DefaultMaxCheckpoints,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	if cfg.Input == "" {
		return cfg, fmt.Errorf("--input is required (via flag or config)")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// buildLLMConfig translates CLI configuration into the provider config.
func buildLLMConfig(cfg config.Config) *llm.Config {
	var llmCfg *llm.Config
	switch llm.ParseProvider(cfg.Provider) {
	case llm.ProviderGemini:
		llmCfg = llm.DefaultGeminiConfig()
	default:
		llmCfg = llm.DefaultOpenAIConfig()
	}
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	if cfg.Temperature > 0 {
		llmCfg.Temperature = float32(cfg.Temperature)
	}
	return llmCfg
}

func resolveAPIKey(cfg config.Config, provider llm.Provider) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	if provider == llm.ProviderGemini {
		return os.Getenv("GEMINI_API_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}

// promptResume asks whether to continue from the newest matching checkpoint.
// Defaults to yes; --yes skips the prompt entirely.
func promptResume(inputPath string, mode types.Mode, store *checkpoint.Store) (bool, error) {
	sig := checkpoint.Signature(inputPath, mode)
	handles, err := checkpoint.Find(store.Dir(), sig)
	if err != nil {
		return false, fmt.Errorf("failed to scan checkpoints: %w", err)
	}
	if len(handles) == 0 {
		return false, nil
	}

	newest := handles[0]
	fmt.Printf("Found checkpoint %s (%s ago).\n", newest.Name(), time.Since(newest.ModTime).Round(time.Minute))
	if genYes {
		return true, nil
	}
	fmt.Printf("Resume from it? [Y/n]: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		// Non-interactive stdin: take the default
		return true, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "" || answer == "y" || answer == "yes", nil
}

// reportProgress drains driver events to the terminal, collapsing them to a
// single updating line.
func reportProgress(events <-chan driver.ProgressEvent) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	var latest driver.ProgressEvent
	var dirty bool
	for {
		select {
		case e, ok := <-events:
			if !ok {
				if dirty {
					fmt.Printf("\r[%d/%d items] %s\n", latest.ItemIndex, latest.ItemTotal, latest.Message)
				}
				return
			}
			latest = e
			dirty = true
		case <-ticker.C:
			if dirty {
				fmt.Printf("\r[%d/%d items] %s", latest.ItemIndex, latest.ItemTotal, latest.Message)
			}
		}
	}
}

func logPrintf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
