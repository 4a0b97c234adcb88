// Package scoring derives fantasy points from raw game statistics.
package scoring

import "github.com/mcdev12/sportsball/go/internal/models"

const (
	yardsPerPoint         = 10
	pointsPerTouchdown    = 6
	pointsPerInterception = 2
)

// Score returns yards/10 + touchdowns*6 - interceptions*2 without rounding.
func Score(yards, touchdowns, interceptions float64) float64 {
	return yards/yardsPerPoint + touchdowns*pointsPerTouchdown - interceptions*pointsPerInterception
}

// ForStats scores a complete stat line
func ForStats(s models.Stats) float64 {
	return Score(s.Yards, s.Touchdowns, s.Interceptions)
}

// Total sums member scores into a team total
func Total(points ...float64) float64 {
	var total float64
	for _, p := range points {
		total += p
	}
	return total
}
