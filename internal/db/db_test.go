package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunType(t *testing.T) {
	// Verify Run struct can be instantiated
	run := Run{
		Signature: "skus_medium",
		Mode:      "medium",
		InputFile: "skus.csv",
		Status:    "running",
		StartedAt: time.Now(),
	}

	assert.Equal(t, "skus_medium", run.Signature)
	assert.Equal(t, "medium", run.Mode)
	assert.Equal(t, "running", run.Status)
	assert.Zero(t, run.TotalProduced)
	assert.Nil(t, run.CompletedAt)
}
