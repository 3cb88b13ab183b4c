package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsForPlan(t *testing.T) {
	tests := []struct {
		amount float64
		want   float64
	}{
		{15, 16.50},
		{25, 27.50},
		{50, 55},
		{100, 110},
		{250, 275},
		{500, 550},
		// Unlisted tiers fall back to the amount itself.
		{9999, 9999},
		{1, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PointsForPlan(tt.amount), "amount %.0f", tt.amount)
	}
}

func TestIsValidPlanAmount(t *testing.T) {
	for _, amount := range ValidPlanAmounts() {
		assert.True(t, IsValidPlanAmount(amount), "amount %.0f", amount)
	}
	assert.False(t, IsValidPlanAmount(0))
	assert.False(t, IsValidPlanAmount(16))
	assert.False(t, IsValidPlanAmount(9999))
}
