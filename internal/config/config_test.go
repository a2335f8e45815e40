package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"output": "reviews.csv",
		"mode": "medium",
		"provider": "openai",
		"checkpoint_interval": 25,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "reviews.csv", cfg.Output)
	assert.Equal(t, "medium", cfg.Mode)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 25, cfg.CheckpointInterval)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "{ not json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty config", Config{}, false},
		{"valid mode", Config{Mode: "comprehensive"}, false},
		{"invalid mode", Config{Mode: "exhaustive"}, true},
		{"temperature in range", Config{Temperature: 0.9}, false},
		{"temperature out of range", Config{Temperature: 2.5}, true},
		{"negative interval", Config{CheckpointInterval: -1}, true},
		{"missing input file", Config{Input: "/nonexistent/skus.csv"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InputFileExists(t *testing.T) {
	input := filepath.Join(t.TempDir(), "skus.csv")
	require.NoError(t, os.WriteFile(input, []byte("sku_id\n"), 0644))

	cfg := Config{Input: input}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Mode: "quick", Output: "mine.csv"}
	defaults := Config{
		Mode:               "medium",
		Output:             "default.csv",
		CheckpointDir:      "checkpoints",
		Provider:           "openai",
		CheckpointInterval: 50,
		BackupInterval:     100,
		MaxCheckpoints:     10,
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win
	assert.Equal(t, "quick", merged.Mode)
	assert.Equal(t, "mine.csv", merged.Output)

	// Unset values fall back
	assert.Equal(t, "checkpoints", merged.CheckpointDir)
	assert.Equal(t, "openai", merged.Provider)
	assert.Equal(t, 50, merged.CheckpointInterval)
	assert.Equal(t, 100, merged.BackupInterval)
	assert.Equal(t, 10, merged.MaxCheckpoints)
}
