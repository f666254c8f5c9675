package simplemedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    AssetStatus
		to      AssetStatus
		allowed bool
	}{
		{"processing to ready", StatusProcessing, StatusReady, true},
		{"processing to failed", StatusProcessing, StatusFailed, true},
		{"ready to failed", StatusReady, StatusFailed, false},
		{"ready to processing", StatusReady, StatusProcessing, false},
		{"failed to ready", StatusFailed, StatusReady, false},
		{"failed to processing", StatusFailed, StatusProcessing, false},
		{"active to ready", StatusActive, StatusReady, false},
		{"active to failed", StatusActive, StatusFailed, false},
		{"processing to active", StatusProcessing, StatusActive, false},
		{"same status", StatusReady, StatusReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCheckTransition(t *testing.T) {
	assert.NoError(t, CheckTransition(StatusProcessing, StatusReady))

	err := CheckTransition(StatusReady, StatusFailed)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusActive.IsTerminal())
	assert.True(t, StatusReady.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []AssetStatus{StatusActive, StatusProcessing, StatusReady, StatusFailed} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, AssetStatus("uploaded").Valid())
	assert.False(t, AssetStatus("").Valid())
}
