package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelIndex(t *testing.T) {
	tests := []struct {
		name   string
		points float64
		want   int
	}{
		{"zero points", 0, 0},
		{"below first threshold", 4999, 0},
		{"exactly at threshold", 5000, 1},
		{"between thresholds", 30000, 2},
		{"top level", 2000000000, len(Levels) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelIndex(tt.points))
		})
	}
}

func TestLevelsTableIsAscending(t *testing.T) {
	assert.Equal(t, float64(0), Levels[0].MinPoints, "first level must start at zero")
	for i := 1; i < len(Levels); i++ {
		assert.Greater(t, Levels[i].MinPoints, Levels[i-1].MinPoints,
			"level %d (%s) must require more points than level %d", i, Levels[i].Name, i-1)
	}
}
