// Package game holds the clicker game mechanics shared across services:
// level thresholds and the level index derivation.
package game

// Level is a named rank with the minimum lifetime points required to hold it.
type Level struct {
	Name      string
	MinPoints float64
}

// Levels is the ordered level table, ascending by MinPoints. Index 0 must
// have MinPoints 0 so every user resolves to a level.
var Levels = []Level{
	{Name: "Rookie", MinPoints: 0},
	{Name: "Bronze", MinPoints: 5000},
	{Name: "Silver", MinPoints: 25000},
	{Name: "Gold", MinPoints: 100000},
	{Name: "Platinum", MinPoints: 1000000},
	{Name: "Diamond", MinPoints: 2000000},
	{Name: "Epic", MinPoints: 10000000},
	{Name: "Legendary", MinPoints: 50000000},
	{Name: "Master", MinPoints: 100000000},
	{Name: "Grandmaster", MinPoints: 1000000000},
}

// LevelIndex returns the greatest level index whose minimum does not exceed
// the given lifetime points.
func LevelIndex(points float64) int {
	idx := 0
	for i, lvl := range Levels {
		if points >= lvl.MinPoints {
			idx = i
		} else {
			break
		}
	}
	return idx
}
