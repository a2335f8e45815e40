package main

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCommand_RequiresInput(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "status")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "input")
}

func TestStatusCommand_NoCheckpoints(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "status",
		"--input", writeTestInput(t),
		"--mode", "quick",
		"--checkpoint-dir", filepath.Join(t.TempDir(), "cp"))
	output, err := cmd.CombinedOutput()

	require.NoError(t, err)
	assert.Contains(t, string(output), "skus_quick")
	assert.Contains(t, string(output), "No checkpoints found.")
}
