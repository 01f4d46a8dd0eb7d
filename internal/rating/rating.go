package rating

import "math"

// Tier is the color band a score falls into
type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMid:
		return "mid"
	default:
		return "low"
	}
}

// Badge colors, as hex strings (bar is the filled arc, track the unfilled ring)
const (
	HighBar   = "#21d07a"
	HighTrack = "#204529"
	MidBar    = "#d2d531"
	MidTrack  = "#423d0f"
	LowBar    = "#db2360"
	LowTrack  = "#571435"
)

// Badge is the rendered state of a circular user-score badge
type Badge struct {
	Percent int
	Tier    Tier
	Bar     string
	Track   string
}

// For maps a 0-10 vote average to its badge. The percentage is rounded half
// away from zero and clamped to [0,100]; NaN maps to 0.
func For(voteAverage float64) Badge {
	return ForPercent(Percent(voteAverage))
}

// Percent converts a 0-10 vote average to a 0-100 score
func Percent(voteAverage float64) int {
	if math.IsNaN(voteAverage) {
		return 0
	}
	p := math.Round(voteAverage * 10)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// ForPercent picks the tier for an already computed percentage
func ForPercent(percent int) Badge {
	switch {
	case percent >= 70:
		return Badge{Percent: percent, Tier: TierHigh, Bar: HighBar, Track: HighTrack}
	case percent >= 40:
		return Badge{Percent: percent, Tier: TierMid, Bar: MidBar, Track: MidTrack}
	default:
		return Badge{Percent: percent, Tier: TierLow, Bar: LowBar, Track: LowTrack}
	}
}
