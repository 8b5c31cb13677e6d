package model

import "fmt"

// this file implements how the results screen presents a score.

// Tier buckets a score for colouring and the trend glyph.
type Tier string

const (
	TierHigh Tier = "high" // >= 85
	TierMid  Tier = "mid"  // >= 70
	TierLow  Tier = "low"
)

func TierOf(score int) Tier {
	switch {
	case score >= 85:
		return TierHigh
	case score >= 70:
		return TierMid
	default:
		return TierLow
	}
}

// Glyph is the trend arrow shown next to a score.
func (t Tier) Glyph() string {
	switch t {
	case TierHigh:
		return "↑"
	case TierMid:
		return "–"
	default:
		return "↓"
	}
}

// Grade is the label shown under the overall score.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	default:
		return "Needs practice"
	}
}

// PracticeSuggestions are shown on every results screen.
var PracticeSuggestions = []string{
	"Practice with a metronome to improve your timing",
	"Work on the consistency of your dynamics",
	"Focus on intonation in the high notes",
	"Keep a steadier tempo through the transitions",
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
