package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"quick", ModeQuick, false},
		{"medium", ModeMedium, false},
		{"comprehensive", ModeComprehensive, false},
		{"", "", true},
		{"QUICK", "", true},
		{"full", "", true},
	}

	for _, tt := range tests {
		mode, err := ParseMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, mode)
	}
}

func TestModeTargetRange(t *testing.T) {
	min, max := ModeQuick.TargetRange()
	assert.Equal(t, 1, min)
	assert.Equal(t, 1, max)

	min, max = ModeMedium.TargetRange()
	assert.Equal(t, 3, min)
	assert.Equal(t, 5, max)

	min, max = ModeComprehensive.TargetRange()
	assert.Equal(t, 15, min)
	assert.Equal(t, 20, max)
}

func TestWorkItemDisplayName(t *testing.T) {
	item := WorkItem{ID: "CER0576", Name: "CeraVe Moisturizing Cream", Brand: "CeraVe"}
	assert.Equal(t, "CeraVe - CeraVe Moisturizing Cream", item.DisplayName())

	noBrand := WorkItem{ID: "X1", Name: "Generic Cream"}
	assert.Equal(t, "Generic Cream", noBrand.DisplayName())
}
