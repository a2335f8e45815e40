package main

import (
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	out := filepath.Join(t.TempDir(), "sample.csv")
	cmd := exec.Command(binaryPath, "sample", "--out", out)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, string(output))
	assert.FileExists(t, out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "sku_id", rows[0][0])
	assert.Equal(t, "FMCG", rows[1][3])
}
